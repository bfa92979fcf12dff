package pgsql

import (
	"context"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
)

type PgxSequenceCounter struct {
	BaseRepository
}

var _ portsrepo.SequenceCounter = (*PgxSequenceCounter)(nil)

// Next increments the counter row in a single statement. The row lock taken by
// the upsert is held until the surrounding transaction ends.
func (r *PgxSequenceCounter) Next(ctx context.Context, kind domain.SequenceKind) (int64, error) {
	query := `
		INSERT INTO number_sequences (kind, last_value)
		VALUES ($1, 1)
		ON CONFLICT (kind) DO UPDATE SET last_value = number_sequences.last_value + 1
		RETURNING last_value;
	`
	var value int64
	if err := r.db.QueryRow(ctx, query, string(kind)).Scan(&value); err != nil {
		return 0, apperrors.NewAppError(500, "failed to advance sequence "+string(kind), err)
	}
	return value, nil
}
