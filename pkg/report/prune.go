package report

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// PruneRuns removes every run created before the cutoff, along with its
// probabilities, and returns the number of runs removed. The operation is
// performed within a single transaction.
func (s *Store) PruneRuns(ctx context.Context, before time.Time) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin transaction for pruning: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	rows, err := tx.QueryContext(ctx, "SELECT run_id FROM lpngram_runs WHERE created_at < ?",
		before.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("could not query runs to prune: %w", err)
	}
	var ids []any
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			_ = rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	if err = rows.Err(); err != nil {
		return 0, err
	}

	if err = batchDelete(ctx, tx, "lpngram_probs", "run_id", ids); err != nil {
		return 0, fmt.Errorf("failed to prune probabilities: %w", err)
	}
	if err = batchDelete(ctx, tx, "lpngram_runs", "run_id", ids); err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit pruning: %w", err)
	}
	s.logger.InfoContext(ctx, "Archive pruned",
		slog.Time("before", before),
		slog.Int("runs_removed", len(ids)),
	)
	return len(ids), nil
}

// batchDelete deletes rows whose column is in ids, splitting large lists into
// batches to stay under SQLite's variable limit.
func batchDelete(ctx context.Context, tx *sql.Tx, table, column string, ids []any) error {
	if len(ids) == 0 {
		return nil
	}

	// SQLite's default variable limit is 999, so around half that is good
	const batchSize = 500

	for i := 0; i < len(ids); i += batchSize {
		end := min(i+batchSize, len(ids))
		batch := ids[i:end]

		query := fmt.Sprintf("DELETE FROM %s WHERE %s IN (?%s)", table, column, strings.Repeat(",?", len(batch)-1))
		if _, err := tx.ExecContext(ctx, query, batch...); err != nil {
			return err
		}
	}
	return nil
}
