package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tindago/shop-backend-go/internal/pkg/database"
)

// batchOp is one queued write statement.
type batchOp struct {
	sql  string
	args []interface{}
}

// sendInChunks sends ops as pgx batches capped at maxOps statements each.
// Every chunk commits independently; a failure mid-sequence leaves earlier
// chunks committed, which callers must tolerate (the finalize engine's
// void-then-recreate pass makes a re-run safe).
func sendInChunks(ctx context.Context, q database.Querier, ops []batchOp, maxOps int) error {
	if maxOps < 1 {
		maxOps = 1
	}
	for start := 0; start < len(ops); start += maxOps {
		end := start + maxOps
		if end > len(ops) {
			end = len(ops)
		}

		batch := &pgx.Batch{}
		for _, op := range ops[start:end] {
			batch.Queue(op.sql, op.args...)
		}

		results := q.SendBatch(ctx, batch)
		var execErr error
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil && execErr == nil {
				execErr = err
			}
		}
		if err := results.Close(); err != nil && execErr == nil {
			execErr = err
		}
		if execErr != nil {
			return fmt.Errorf("batch starting at op %d failed: %w", start, execErr)
		}
	}
	return nil
}
