package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"goldarb/internal/domain"
)

// QuoteStore implements domain.QuoteStore using PostgreSQL.
type QuoteStore struct {
	pool *pgxpool.Pool
}

// NewQuoteStore creates a new QuoteStore backed by the given connection pool.
func NewQuoteStore(pool *pgxpool.Pool) *QuoteStore {
	return &QuoteStore{pool: pool}
}

var _ domain.QuoteStore = (*QuoteStore)(nil)

const quoteSelectCols = `source, price, currency, change_text, change_direction, captured_at`

func scanQuoteRows(rows pgx.Rows) ([]domain.Quote, error) {
	var quotes []domain.Quote
	for rows.Next() {
		var q domain.Quote
		var direction string
		if err := rows.Scan(
			&q.Source, &q.Price, &q.Currency,
			&q.Change.Text, &direction, &q.CapturedAt,
		); err != nil {
			return nil, err
		}
		q.Change.Direction = domain.ChangeDirection(direction)
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// InsertBatch inserts multiple quotes using a pgx Batch.
func (s *QuoteStore) InsertBatch(ctx context.Context, quotes []domain.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	const query = `
		INSERT INTO quotes (
			source, price, currency, change_text, change_direction, captured_at
		) VALUES ($1, $2, $3, $4, $5, $6)`

	for _, q := range quotes {
		batch.Queue(query,
			q.Source, q.Price, q.Currency,
			q.Change.Text, string(q.Change.Direction), q.CapturedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range quotes {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("postgres: insert quote batch item %d: %w", i, err)
		}
	}
	return nil
}

// ListRecent returns quotes ordered newest first with pagination and optional
// time filtering.
func (s *QuoteStore) ListRecent(ctx context.Context, opts domain.ListOpts) ([]domain.Quote, error) {
	query := `SELECT ` + quoteSelectCols + ` FROM quotes`
	var args []any
	argIdx := 1

	if opts.Since != nil {
		query += fmt.Sprintf(" WHERE captured_at >= $%d", argIdx)
		args = append(args, *opts.Since)
		argIdx++
	}

	query += " ORDER BY captured_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, opts.Limit)
		argIdx++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent quotes: %w", err)
	}
	defer rows.Close()

	quotes, err := scanQuoteRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan recent quotes: %w", err)
	}
	return quotes, nil
}

// ListBySource returns quotes for one source ordered newest first.
func (s *QuoteStore) ListBySource(ctx context.Context, source string, opts domain.ListOpts) ([]domain.Quote, error) {
	query := `SELECT ` + quoteSelectCols + ` FROM quotes WHERE source = $1`
	args := []any{source}
	argIdx := 2

	if opts.Since != nil {
		query += fmt.Sprintf(" AND captured_at >= $%d", argIdx)
		args = append(args, *opts.Since)
		argIdx++
	}

	query += " ORDER BY captured_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, opts.Limit)
		argIdx++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list quotes by source: %w", err)
	}
	defer rows.Close()

	quotes, err := scanQuoteRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan quotes by source: %w", err)
	}
	return quotes, nil
}

// Count returns the total number of stored quotes.
func (s *QuoteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM quotes").Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count quotes: %w", err)
	}
	return n, nil
}
