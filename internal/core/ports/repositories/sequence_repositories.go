package repositories

import (
	"context"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
)

// SequenceCounter advances a named counter atomically in storage and returns the new value.
// Implementations must never read and increment in separate steps.
type SequenceCounter interface {
	Next(ctx context.Context, kind domain.SequenceKind) (int64, error)
}
