package services

import (
	"context"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
)

// SequenceAllocatorSvc issues formatted, unique, monotonically increasing identifiers.
type SequenceAllocatorSvc interface {
	// AllocateNext advances the sequence in its own unit of work.
	AllocateNext(ctx context.Context, kind domain.SequenceKind) (string, error)
}

// SequenceAllocatorWithTxSvc allocates through the counter of an open unit of work.
type SequenceAllocatorWithTxSvc interface {
	AllocateNextInTx(ctx context.Context, store repositories.Store, kind domain.SequenceKind) (string, error)
}

// SequenceSvcFacade combines all sequence-related service interfaces
type SequenceSvcFacade interface {
	SequenceAllocatorSvc
	SequenceAllocatorWithTxSvc
}
