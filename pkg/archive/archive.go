package archive

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS tweet_runs (
    run_id           TEXT PRIMARY KEY,
    created_at       INTEGER NOT NULL,
    seed             TEXT NOT NULL,
    corpus           TEXT NOT NULL,
    tweets_requested INTEGER NOT NULL,
    max_words        INTEGER NOT NULL DEFAULT 0,
    nodes            INTEGER NOT NULL DEFAULT 0,
    edges            INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS tweet_lines (
    run_id  TEXT NOT NULL,
    line_no INTEGER NOT NULL,
    text    TEXT NOT NULL,
    PRIMARY KEY (run_id, line_no)
);
`

// Run describes one invocation of the generator.
type Run struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Seed            uint64    `json:"seed"`
	Corpus          string    `json:"corpus"`
	TweetsRequested int       `json:"tweets_requested"`
	MaxWords        int       `json:"max_words"` // 0 when ingestion was unlimited
	Nodes           int       `json:"nodes"`
	Edges           int       `json:"edges"`
}

// SetupSchema creates the archive tables. It is idempotent and safe to call
// on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	if _, err := db.Exec(archiveSchema); err != nil {
		return fmt.Errorf("could not create archive schema: %w", err)
	}
	return nil
}

// Archive records and reads back generation runs using prepared statements.
type Archive struct {
	db             *sql.DB
	stmtInsertRun  *sql.Stmt
	stmtInsertLine *sql.Stmt
	stmtGetRun     *sql.Stmt
	stmtListRuns   *sql.Stmt
	stmtGetLines   *sql.Stmt
	logger         *slog.Logger
}

// New creates an Archive over db. SetupSchema must have been called first.
func New(db *sql.DB) (*Archive, error) {
	a := &Archive{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	var err error
	if a.stmtInsertRun, err = db.Prepare(`INSERT INTO tweet_runs (run_id, created_at, seed, corpus, tweets_requested, max_words, nodes, edges) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`); err != nil {
		a.Close()
		return nil, err
	}

	if a.stmtInsertLine, err = db.Prepare(`INSERT INTO tweet_lines (run_id, line_no, text) VALUES (?, ?, ?);`); err != nil {
		a.Close()
		return nil, err
	}

	if a.stmtGetRun, err = db.Prepare(`SELECT run_id, created_at, seed, corpus, tweets_requested, max_words, nodes, edges FROM tweet_runs WHERE run_id = ?;`); err != nil {
		a.Close()
		return nil, err
	}

	if a.stmtListRuns, err = db.Prepare(`SELECT run_id, created_at, seed, corpus, tweets_requested, max_words, nodes, edges FROM tweet_runs ORDER BY created_at DESC, rowid DESC LIMIT ?;`); err != nil {
		a.Close()
		return nil, err
	}

	if a.stmtGetLines, err = db.Prepare(`SELECT text FROM tweet_lines WHERE run_id = ? ORDER BY line_no;`); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// Close releases all prepared statements held by the Archive.
func (a *Archive) Close() {
	for _, stmt := range []*sql.Stmt{a.stmtInsertRun, a.stmtInsertLine, a.stmtGetRun, a.stmtListRuns, a.stmtGetLines} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

// SetLogger sets the logger for the Archive. By default, all logs are discarded.
func (a *Archive) SetLogger(logger *slog.Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// RecordRun stores run and its output lines in a single transaction. A new
// id and creation time are assigned when the run does not carry them. The
// stored run is returned.
func (a *Archive) RecordRun(ctx context.Context, run Run, lines []string) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	_, err = tx.StmtContext(ctx, a.stmtInsertRun).ExecContext(ctx,
		run.ID, run.CreatedAt.UnixNano(), strconv.FormatUint(run.Seed, 10), run.Corpus,
		run.TweetsRequested, run.MaxWords, run.Nodes, run.Edges)
	if err != nil {
		return Run{}, fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	stmtInsertLine := tx.StmtContext(ctx, a.stmtInsertLine)
	for i, line := range lines {
		if _, err = stmtInsertLine.ExecContext(ctx, run.ID, i+1, line); err != nil {
			return Run{}, fmt.Errorf("failed to insert line %d of run %s: %w", i+1, run.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}

	a.logger.InfoContext(ctx, "Run archived",
		slog.String("run_id", run.ID),
		slog.Int("lines", len(lines)),
	)
	return run, nil
}

// GetRun returns the run with the given id. It returns sql.ErrNoRows if
// there is none.
func (a *Archive) GetRun(ctx context.Context, id string) (Run, error) {
	return scanRun(a.stmtGetRun.QueryRowContext(ctx, id))
}

// Runs returns up to limit runs, newest first. A limit of 0 or less returns
// every run.
func (a *Archive) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := a.stmtListRuns.QueryContext(ctx, limit)
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

// Lines returns the output lines of a run in the order they were printed.
func (a *Archive) Lines(ctx context.Context, runID string) ([]string, error) {
	rows, err := a.stmtGetLines.QueryContext(ctx, runID)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var lines []string
	for rows.Next() {
		var text string
		if err = rows.Scan(&text); err != nil {
			return nil, err
		}
		lines = append(lines, text)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var createdAt int64
	var seed string
	err := row.Scan(&run.ID, &createdAt, &seed, &run.Corpus, &run.TweetsRequested, &run.MaxWords, &run.Nodes, &run.Edges)
	if err != nil {
		return Run{}, err
	}
	run.CreatedAt = time.Unix(0, createdAt)
	if run.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return Run{}, fmt.Errorf("corrupt seed %q for run %s: %w", seed, run.ID, err)
	}
	return run, nil
}
