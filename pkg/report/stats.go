package report

import (
	"context"
	"database/sql"
)

// Stats holds aggregated statistics for the whole archive.
type Stats struct {
	Runs     int            `json:"runs" yaml:"runs"`           // The number of archived runs
	Probs    int            `json:"probs" yaml:"probs"`         // The number of archived event probabilities across all runs
	ByMethod map[string]int `json:"by_method" yaml:"by_method"` // A mapping of smoothing methods to their run count
}

// Stats returns a snapshot of statistics for the archive.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByMethod: make(map[string]int)}

	if err := s.stmtCountRuns.QueryRowContext(ctx).Scan(&stats.Runs); err != nil {
		return nil, err
	}
	if err := s.stmtCountProbs.QueryRowContext(ctx).Scan(&stats.Probs); err != nil {
		return nil, err
	}

	rows, err := s.stmtByMethod.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	for rows.Next() {
		var method string
		var n int
		if err = rows.Scan(&method, &n); err != nil {
			return nil, err
		}
		stats.ByMethod[method] = n
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}
