package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
	portssvc "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/services"
)

var errUnknownSequence = errors.New("unknown sequence kind")

// sequenceService formats values produced by an atomic storage counter.
type sequenceService struct {
	BaseService
	counter     portsrepo.SequenceCounter
	definitions map[domain.SequenceKind]domain.SequenceDefinition
}

// NewSequenceService creates a sequence allocator for the given definitions.
// counter serves AllocateNext; AllocateNextInTx uses the counter of the supplied store.
func NewSequenceService(counter portsrepo.SequenceCounter, definitions []domain.SequenceDefinition, opts ...Option) portssvc.SequenceSvcFacade {
	defs := make(map[domain.SequenceKind]domain.SequenceDefinition, len(definitions))
	for _, d := range definitions {
		defs[d.Kind] = d
	}
	return &sequenceService{
		BaseService: newBaseService(opts),
		counter:     counter,
		definitions: defs,
	}
}

var _ portssvc.SequenceSvcFacade = (*sequenceService)(nil)

func (s *sequenceService) AllocateNext(ctx context.Context, kind domain.SequenceKind) (string, error) {
	return s.allocate(ctx, s.counter, kind)
}

func (s *sequenceService) AllocateNextInTx(ctx context.Context, store portsrepo.Store, kind domain.SequenceKind) (string, error) {
	return s.allocate(ctx, store.Sequences(), kind)
}

func (s *sequenceService) allocate(ctx context.Context, counter portsrepo.SequenceCounter, kind domain.SequenceKind) (string, error) {
	def, ok := s.definitions[kind]
	if !ok {
		return "", &apperrors.AllocationError{Sequence: string(kind), Err: errUnknownSequence}
	}
	if counter == nil {
		return "", &apperrors.AllocationError{Sequence: string(kind), Err: errors.New("no counter available")}
	}

	value, err := counter.Next(ctx, kind)
	if err != nil {
		return "", &apperrors.AllocationError{Sequence: string(kind), Err: err}
	}
	if value <= 0 {
		return "", &apperrors.AllocationError{Sequence: string(kind), Err: fmt.Errorf("counter returned non-positive value %d", value)}
	}

	code := def.Format(value)
	s.LogDebug(ctx, "Allocated sequence number", slog.String("sequence", string(kind)), slog.String("code", code))
	return code, nil
}
