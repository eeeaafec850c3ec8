package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-json"
)

// ExportRun serializes an archived run, including its probabilities, as
// indented JSON and writes it to w.
func (s *Store) ExportRun(ctx context.Context, id string, w io.Writer) error {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Run exported",
		slog.String("run_id", run.ID),
		slog.Int("probs_exported", len(run.Probs)),
	)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(run)
}

// ImportRun reads a run written by ExportRun and archives it under a new id,
// which is returned. The exported id and timestamp are not preserved.
func (s *Store) ImportRun(ctx context.Context, r io.Reader) (string, error) {
	var imported Run
	if err := json.NewDecoder(r).Decode(&imported); err != nil {
		return "", fmt.Errorf("failed to decode json run: %w", err)
	}
	if imported.Method == "" {
		return "", errors.New("imported run has no method")
	}

	id, err := s.SaveRun(ctx, imported)
	if err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "Run imported",
		slog.String("source_id", imported.ID),
		slog.String("run_id", id),
	)
	return id, nil
}
