package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/models"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/utils/mapping"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/utils/pagination"
)

// postingKeyConstraint is the unique index on (source_invoice_id, event_kind).
const postingKeyConstraint = "journal_entries_posting_key"

const entryColumns = `entry_id, entry_number, transaction_date, description, reference, is_posted,
	source_invoice_id, event_kind, reversal_of, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, account_code, debit, credit, description, line_order`

type PgxJournalRepository struct {
	BaseRepository
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryNumber,
		&m.TransactionDate,
		&m.Description,
		&m.Reference,
		&m.IsPosted,
		&m.SourceInvoiceID,
		&m.EventKind,
		&m.ReversalOf,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanLine(row pgx.Row, extra ...any) (models.JournalEntryLine, error) {
	var m models.JournalEntryLine
	dest := []any{
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&m.AccountCode,
		&m.Debit,
		&m.Credit,
		&m.Description,
		&m.LineOrder,
	}
	err := row.Scan(append(dest, extra...)...)
	return m, err
}

// SaveEntry inserts the entry header and queues its lines in one batch.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)

	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db.Exec(ctx, entryQuery,
		m.EntryID,
		m.EntryNumber,
		m.TransactionDate,
		m.Description,
		m.Reference,
		m.IsPosted,
		m.SourceInvoiceID,
		m.EventKind,
		m.ReversalOf,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if pgErr, ok := isUniqueViolation(err); ok {
			if pgErr.ConstraintName == postingKeyConstraint {
				return &apperrors.DuplicatePostingError{SourceInvoiceID: entry.SourceInvoiceID, EventKind: string(entry.EventKind)}
			}
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+m.EntryNumber, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `INSERT INTO journal_entry_lines (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	for _, line := range entry.Lines {
		l := mapping.ToModelJournalEntryLine(line)
		batch.Queue(lineQuery, l.LineID, l.EntryID, l.AccountID, l.AccountCode, l.Debit, l.Credit, l.Description, l.LineOrder)
	}

	// Close the batch results to surface the error of any queued insert
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for journal entry "+m.EntryNumber, err)
	}
	return nil
}

// FindEntryByKey retrieves the posted entry for an idempotency key.
func (r *PgxJournalRepository) FindEntryByKey(ctx context.Context, key domain.PostingKey) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE source_invoice_id = $1 AND event_kind = $2 AND is_posted;`

	m, err := scanEntry(r.db.QueryRow(ctx, query, key.SourceInvoiceID, string(key.EventKind)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal entry for " + key.SourceInvoiceID + "/" + string(key.EventKind))
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by key", err)
	}

	lines, err := r.linesByEntryIDs(ctx, []string{m.EntryID})
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(m, lines[m.EntryID])
	return &entry, nil
}

// ListEntriesByInvoice retrieves every entry sourced from an invoice, oldest first.
func (r *PgxJournalRepository) ListEntriesByInvoice(ctx context.Context, invoiceID string) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE source_invoice_id = $1 ORDER BY created_at, entry_number;`
	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entries for invoice "+invoiceID, err)
	}
	defer rows.Close()

	var headers []models.JournalEntry
	var ids []string
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		headers = append(headers, m)
		ids = append(ids, m.EntryID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}
	rows.Close()

	lines, err := r.linesByEntryIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.JournalEntry, len(headers))
	for i, m := range headers {
		entries[i] = mapping.ToDomainJournalEntry(m, lines[m.EntryID])
	}
	return entries, nil
}

func (r *PgxJournalRepository) linesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]models.JournalEntryLine, error) {
	result := make(map[string][]models.JournalEntryLine, len(entryIDs))
	if len(entryIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE entry_id = ANY($1) ORDER BY entry_id, line_order;`
	rows, err := r.db.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entry lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry line", err)
		}
		result[l.EntryID] = append(result[l.EntryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entry lines", err)
	}
	return result, nil
}

// SumNetByAccountIDs returns debit minus credit over posted lines per account.
func (r *PgxJournalRepository) SumNetByAccountIDs(ctx context.Context, accountIDs []string) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal, len(accountIDs))
	if len(accountIDs) == 0 {
		return sums, nil
	}

	query := `
		SELECT l.account_id, COALESCE(SUM(l.debit - l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.is_posted AND l.account_id = ANY($1)
		GROUP BY l.account_id;
	`
	rows, err := r.db.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum account lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var accountID string
		var net decimal.Decimal
		if err := rows.Scan(&accountID, &net); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account sum", err)
		}
		sums[accountID] = net
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account sums", err)
	}
	return sums, nil
}

// ListLinesByAccountID retrieves a page of posted lines for an account using token-based pagination.
func (r *PgxJournalRepository) ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerLine, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells us whether there is a next page
	fetchLimit := limit + 1

	baseQuery := `
		SELECT l.line_id, l.entry_id, l.account_id, l.account_code, l.debit, l.credit, l.description, l.line_order,
		       e.entry_number, e.transaction_date, e.reversal_of, e.created_at
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND e.is_posted
	`
	orderByClause := `ORDER BY e.transaction_date DESC, e.created_at DESC, l.line_order`

	args := []any{accountID}
	cursorClause := ""
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause = `AND (e.transaction_date, e.created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}
	query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query lines for account "+accountID, err)
	}
	defer rows.Close()

	lines := make([]domain.LedgerLine, 0, fetchLimit)
	for rows.Next() {
		var ll domain.LedgerLine
		var reversalOf *string
		m, err := scanLine(rows, &ll.EntryNumber, &ll.TransactionDate, &reversalOf, &ll.CreatedAt)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan line row for account "+accountID, err)
		}
		ll.JournalEntryLine = mapping.ToDomainJournalEntryLine(m)
		if reversalOf != nil {
			ll.ReversalOf = *reversalOf
		}
		lines = append(lines, ll)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating line rows for account "+accountID, err)
	}

	var nextTokenVal *string
	if len(lines) > limit {
		last := lines[limit-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		nextTokenVal = &token
		lines = lines[:limit]
	}
	return lines, nextTokenVal, nil
}
