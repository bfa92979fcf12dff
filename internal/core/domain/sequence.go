package domain

import "fmt"

// SequenceKind identifies a named number sequence.
type SequenceKind string

const (
	SequenceInvoice  SequenceKind = "invoice"
	SequenceCustomer SequenceKind = "customer"
	SequenceJournal  SequenceKind = "journal"
)

// SequenceDefinition binds a sequence kind to its display format.
type SequenceDefinition struct {
	Kind   SequenceKind
	Prefix string
	Width  int
}

// Format renders value as prefix followed by the zero-padded integer.
// Values wider than Width are printed in full.
func (d SequenceDefinition) Format(value int64) string {
	return fmt.Sprintf("%s%0*d", d.Prefix, d.Width, value)
}
