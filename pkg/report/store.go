package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// timeLayout is fixed width so that created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SetupSchema initializes the archive tables in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaRuns = `
CREATE TABLE IF NOT EXISTS lpngram_runs (
    run_id       TEXT PRIMARY KEY,
    created_at   TEXT NOT NULL,
    label        TEXT NOT NULL DEFAULT '',
    method       TEXT NOT NULL,
    ngram_order  INTEGER NOT NULL,
    bins         INTEGER NOT NULL,
    gamma        REAL NOT NULL DEFAULT 0,
    sample_size  INTEGER NOT NULL,
    unseen       REAL NOT NULL,
    unseen_slots INTEGER NOT NULL
);
`
		schemaProbs = `
CREATE TABLE IF NOT EXISTS lpngram_probs (
    run_id TEXT NOT NULL,
    event  TEXT NOT NULL,
    count  INTEGER NOT NULL,
    prob   REAL NOT NULL,
    PRIMARY KEY (run_id, event)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaRuns); err != nil {
		return fmt.Errorf("could not create runs schema: %w", err)
	}
	if _, err = tx.Exec(schemaProbs); err != nil {
		return fmt.Errorf("could not create probs schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Store archives smoothing runs in a SQLite database. It holds the database
// connection and the prepared statements used to query it.
type Store struct {
	db             *sql.DB
	stmtInsertRun  *sql.Stmt
	stmtInsertProb *sql.Stmt
	stmtGetRun     *sql.Stmt
	stmtListRuns   *sql.Stmt
	stmtGetProbs   *sql.Stmt
	stmtCountRuns  *sql.Stmt
	stmtCountProbs *sql.Stmt
	stmtByMethod   *sql.Stmt
	logger         *slog.Logger
}

const runColumns = `run_id, created_at, label, method, ngram_order, bins, gamma, sample_size, unseen, unseen_slots`

// NewStore creates a Store on a database prepared with SetupSchema. It
// pre-compiles all SQL statements, returning an error if any preparation fails.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	stmts := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&s.stmtInsertRun, `INSERT INTO lpngram_runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`},
		{&s.stmtInsertProb, `INSERT INTO lpngram_probs (run_id, event, count, prob) VALUES (?, ?, ?, ?);`},
		{&s.stmtGetRun, `SELECT ` + runColumns + ` FROM lpngram_runs WHERE run_id = ?;`},
		{&s.stmtListRuns, `SELECT ` + runColumns + ` FROM lpngram_runs ORDER BY created_at, run_id;`},
		{&s.stmtGetProbs, `SELECT event, count, prob FROM lpngram_probs WHERE run_id = ? ORDER BY prob DESC, event;`},
		{&s.stmtCountRuns, `SELECT COUNT(*) FROM lpngram_runs;`},
		{&s.stmtCountProbs, `SELECT COUNT(*) FROM lpngram_probs;`},
		{&s.stmtByMethod, `SELECT method, COUNT(*) FROM lpngram_runs GROUP BY method;`},
	}
	for _, st := range stmts {
		prepared, err := db.Prepare(st.query)
		if err != nil {
			s.Close()
			return nil, err
		}
		*st.dst = prepared
	}
	return s, nil
}

// Close releases all prepared SQL statements held by the Store.
func (s *Store) Close() {
	for _, stmt := range []*sql.Stmt{
		s.stmtInsertRun, s.stmtInsertProb, s.stmtGetRun, s.stmtListRuns,
		s.stmtGetProbs, s.stmtCountRuns, s.stmtCountProbs, s.stmtByMethod,
	} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SaveRun archives a run and its probabilities in a single transaction and
// returns the new run id. The ID and CreatedAt fields of run are ignored.
func (s *Store) SaveRun(ctx context.Context, run Run) (string, error) {
	id := uuid.NewString()
	created := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	_, err = tx.StmtContext(ctx, s.stmtInsertRun).ExecContext(ctx,
		id, created.Format(timeLayout), run.Label, run.Method, run.Order, run.Bins,
		run.Gamma, run.SampleSize, run.Unseen, run.UnseenSlots)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmtInsertProb := tx.StmtContext(ctx, s.stmtInsertProb)
	for _, p := range run.Probs {
		if _, err = stmtInsertProb.ExecContext(ctx, id, p.Event, p.Count, p.Prob); err != nil {
			return "", fmt.Errorf("failed to insert probability for '%s': %w", p.Event, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "Run archived",
		slog.String("run_id", id),
		slog.String("method", run.Method),
		slog.Int("events", len(run.Probs)),
	)
	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var created string
	err := row.Scan(&run.ID, &created, &run.Label, &run.Method, &run.Order, &run.Bins,
		&run.Gamma, &run.SampleSize, &run.Unseen, &run.UnseenSlots)
	if err != nil {
		return Run{}, err
	}
	run.CreatedAt, err = time.Parse(timeLayout, created)
	if err != nil {
		return Run{}, fmt.Errorf("invalid timestamp for run %s: %w", run.ID, err)
	}
	return run, nil
}

// GetRun retrieves a run, including its probabilities.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	run, err := scanRun(s.stmtGetRun.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return Run{}, err
	}
	run.Probs, err = s.GetProbs(ctx, id)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// ListRuns returns the metadata of all archived runs, oldest first. The
// Probs field of the returned runs is not populated.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.stmtListRuns.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetProbs returns the archived probabilities of a run, most probable first.
func (s *Store) GetProbs(ctx context.Context, id string) ([]Prob, error) {
	rows, err := s.stmtGetProbs.QueryContext(ctx, id)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var probs []Prob
	for rows.Next() {
		var p Prob
		if err = rows.Scan(&p.Event, &p.Count, &p.Prob); err != nil {
			return nil, err
		}
		probs = append(probs, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return probs, nil
}

// RemoveRun deletes a run and its probabilities. The operation is performed
// within a transaction.
func (s *Store) RemoveRun(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.ExecContext(ctx, "DELETE FROM lpngram_probs WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("failed to remove probabilities for run %s: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM lpngram_runs WHERE run_id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to remove run %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit removal of run %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Run removed", slog.String("run_id", id))
	return nil
}
