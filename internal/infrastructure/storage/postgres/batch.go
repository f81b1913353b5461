package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// BatchInserter provides efficient bulk insert operations using COPY protocol.
// Significantly faster than individual INSERTs for large datasets (1000+ rows).
type BatchInserter struct {
	pool *Pool
}

// NewBatchInserter creates a new batch inserter.
func NewBatchInserter(pool *Pool) *BatchInserter {
	return &BatchInserter{pool: pool}
}

// CopyFromSlice performs bulk insert from a slice of rows.
func (b *BatchInserter) CopyFromSlice(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	return b.pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
}

// CopyFromRows performs bulk insert using PostgreSQL COPY protocol.
// columns: list of column names
// rows: channel of row values (each row is []any matching columns)
func (b *BatchInserter) CopyFromRows(ctx context.Context, table string, columns []string, rows <-chan []any) (int64, error) {
	source := &channelCopyFromSource{
		columns: columns,
		rows:    rows,
	}
	return b.pool.CopyFrom(ctx, pgx.Identifier{table}, columns, source)
}

// channelCopyFromSource implements pgx.CopyFromSource for channel-based row streaming.
type channelCopyFromSource struct {
	columns []string
	rows    <-chan []any
	current []any
	err     error
}

func (s *channelCopyFromSource) Next() bool {
	row, ok := <-s.rows
	if !ok {
		return false
	}
	s.current = row
	return true
}

func (s *channelCopyFromSource) Values() ([]any, error) {
	return s.current, nil
}

func (s *channelCopyFromSource) Err() error {
	return s.err
}

// BatchExecutor provides batch query execution.
type BatchExecutor struct {
	pool *Pool
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(pool *Pool) *BatchExecutor {
	return &BatchExecutor{pool: pool}
}

// BatchQuery represents a query in a batch.
type BatchQuery struct {
	SQL  string
	Args []any
}

// ExecuteBatch executes multiple queries in a single round-trip.
func (e *BatchExecutor) ExecuteBatch(ctx context.Context, queries []BatchQuery) error {
	batch := &pgx.Batch{}
	for _, q := range queries {
		batch.Queue(q.SQL, q.Args...)
	}

	results := e.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range queries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch query failed: %w", err)
		}
	}

	return nil
}
