package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/replay-coach/internal/analysis"
	"github.com/Zuo-Peng/replay-coach/internal/report"
	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS reports (
    report_key        TEXT PRIMARY KEY,
    source_path       TEXT NOT NULL,
    input_kind        TEXT NOT NULL,
    strategy          TEXT NOT NULL DEFAULT '',
    lossy             INTEGER NOT NULL DEFAULT 0,
    stop_reason       TEXT NOT NULL DEFAULT '',
    report_dir        TEXT NOT NULL,
    played_at         TEXT NOT NULL DEFAULT '',
    kills             INTEGER NOT NULL DEFAULT 0,
    accuracy          REAL NOT NULL DEFAULT 0,
    rotation_score    INTEGER NOT NULL DEFAULT 0,
    positioning_score REAL NOT NULL DEFAULT 0,
    zone_safety       REAL NOT NULL DEFAULT 0,
    feedback          TEXT NOT NULL DEFAULT '',
    mtime             INTEGER NOT NULL DEFAULT 0,
    size              INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS notes (
    report_key  TEXT NOT NULL,
    note_id     INTEGER NOT NULL,
    kind        TEXT NOT NULL,
    text        TEXT NOT NULL,
    line_number INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (report_key, note_id)
);

CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
    text,
    content=notes,
    content_rowid=rowid,
    tokenize='unicode61'
);

CREATE TRIGGER IF NOT EXISTS notes_ai AFTER INSERT ON notes BEGIN
    INSERT INTO notes_fts(rowid, text) VALUES (new.rowid, new.text);
END;

CREATE TRIGGER IF NOT EXISTS notes_ad AFTER DELETE ON notes BEGIN
    INSERT INTO notes_fts(notes_fts, rowid, text) VALUES('delete', old.rowid, old.text);
END;

CREATE TRIGGER IF NOT EXISTS notes_au AFTER UPDATE ON notes BEGIN
    INSERT INTO notes_fts(notes_fts, rowid, text) VALUES('delete', old.rowid, old.text);
    INSERT INTO notes_fts(rowid, text) VALUES (new.rowid, new.text);
END;
`

const (
	NoteEvent    = "event"
	NoteFeedback = "feedback"
)

const timeLayout = "2006-01-02T15:04:05Z"

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT)"); err != nil {
		db.Close()
		return nil, fmt.Errorf("init meta: %w", err)
	}
	d := &DB{db: db}
	d.migrateSchemaVersion()

	return d, nil
}

// schemaVersion should be bumped whenever the report layout changes so that
// indexed rows are refreshed on the next run.
const schemaVersion = "1"

func (d *DB) migrateSchemaVersion() {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err != nil || ver != schemaVersion {
		d.db.Exec("UPDATE reports SET mtime = 0, size = 0")
		d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	}
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

type ReportRow struct {
	ReportKey        string
	SourcePath       string
	InputKind        string
	Strategy         string
	Lossy            bool
	StopReason       string
	ReportDir        string
	PlayedAt         string
	Kills            int
	Accuracy         float64
	RotationScore    int
	PositioningScore float64
	ZoneSafety       float64
	Feedback         string
}

type NoteRow struct {
	ReportKey  string
	NoteID     int
	Kind       string
	Text       string
	LineNumber int
}

// PutReport replaces the row and event notes of r.
func (d *DB) PutReport(ctx context.Context, dir string, r *report.MatchReport) error {
	var (
		mtime, size int64
		playedAt    string
	)
	if info, err := os.Stat(r.SourcePath); err == nil {
		mtime = info.ModTime().Unix()
		size = info.Size()
		playedAt = info.ModTime().UTC().Format(timeLayout)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM notes WHERE report_key = ?", r.Key); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM reports WHERE report_key = ?", r.Key); err != nil {
		return err
	}

	var sum analysis.Summary
	if r.Analysis != nil {
		sum = r.Analysis.Summary
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO reports (report_key, source_path, input_kind, strategy, lossy, stop_reason, report_dir,
		 played_at, kills, accuracy, rotation_score, positioning_score, zone_safety, feedback, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Key,
		r.SourcePath,
		r.Metadata.InputKind,
		r.Extraction.Strategy,
		r.Extraction.Lossy,
		r.Metadata.StopReason,
		dir,
		playedAt,
		sum.Kills,
		sum.Accuracy,
		sum.RotationScore,
		sum.PositioningScore,
		sum.ZoneSafety,
		r.AIFeedback,
		mtime,
		size,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO notes (report_key, note_id, kind, text, line_number) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	id := 0
	for _, text := range r.Texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, r.Key, id, NoteEvent, text, 0); err != nil {
			return err
		}
		id++
	}

	return tx.Commit()
}

// PutFeedback stores the narrative on the report row and indexes each
// non-blank line of it, keyed by its line in the feedback file.
func (d *DB) PutFeedback(ctx context.Context, key, text string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "UPDATE reports SET feedback = ? WHERE report_key = ?", text, key)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("report not found: %s", key)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM notes WHERE report_key = ? AND kind = ?", key, NoteFeedback); err != nil {
		return err
	}

	var next int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(note_id) + 1, 0) FROM notes WHERE report_key = ?", key,
	).Scan(&next); err != nil {
		return err
	}

	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO notes (report_key, note_id, kind, text, line_number) VALUES (?, ?, ?, ?, ?)`,
			key, next, NoteFeedback, line, i+1,
		); err != nil {
			return err
		}
		next++
	}

	return tx.Commit()
}

type FileInfo struct {
	Mtime int64
	Size  int64
}

func (d *DB) GetReportInfo(key string) (*FileInfo, error) {
	var info FileInfo
	err := d.db.QueryRow(
		"SELECT mtime, size FROM reports WHERE report_key = ?",
		key,
	).Scan(&info.Mtime, &info.Size)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// AllSources maps every report key to the input file it was built from.
func (d *DB) AllSources() (map[string]string, error) {
	rows, err := d.db.Query("SELECT report_key, source_path FROM reports")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, p string
		if err := rows.Scan(&k, &p); err != nil {
			return nil, err
		}
		out[k] = p
	}
	return out, rows.Err()
}

func (d *DB) DeleteReport(key string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM notes WHERE report_key = ?", key); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM reports WHERE report_key = ?", key); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) ReportCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM reports").Scan(&n)
	return n, err
}

func (d *DB) NoteCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&n)
	return n, err
}

const reportColumns = `report_key, source_path, input_kind, strategy, lossy, stop_reason, report_dir,
	played_at, kills, accuracy, rotation_score, positioning_score, zone_safety, feedback`

func scanReport(sc interface{ Scan(...any) error }) (*ReportRow, error) {
	var r ReportRow
	err := sc.Scan(&r.ReportKey, &r.SourcePath, &r.InputKind, &r.Strategy, &r.Lossy, &r.StopReason, &r.ReportDir,
		&r.PlayedAt, &r.Kills, &r.Accuracy, &r.RotationScore, &r.PositioningScore, &r.ZoneSafety, &r.Feedback)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (d *DB) GetReportByKey(key string) (*ReportRow, error) {
	r, err := scanReport(d.db.QueryRow("SELECT "+reportColumns+" FROM reports WHERE report_key = ?", key))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

// ListReports returns reports newest first, optionally limited to those
// played on or after since.
func (d *DB) ListReports(since string, limit int) ([]ReportRow, error) {
	query := "SELECT " + reportColumns + " FROM reports"
	var args []any
	if since != "" {
		query += " WHERE played_at >= ?"
		args = append(args, since)
	}
	query += " ORDER BY played_at DESC, report_key"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (d *DB) GetNotes(key string) ([]NoteRow, error) {
	rows, err := d.db.Query(
		"SELECT report_key, note_id, kind, text, line_number FROM notes WHERE report_key = ? ORDER BY note_id",
		key,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []NoteRow
	for rows.Next() {
		var n NoteRow
		if err := rows.Scan(&n.ReportKey, &n.NoteID, &n.Kind, &n.Text, &n.LineNumber); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// GetNotesWindow returns up to context notes either side of hitNoteID.
// startPos is the number of notes before the window and totalCount the number
// of notes in the report. hitIdx is -1 when the hit is not in the window.
func (d *DB) GetNotesWindow(key string, hitNoteID, context int) (notes []NoteRow, hitIdx int, startPos int, totalCount int, err error) {
	err = d.db.QueryRow("SELECT COUNT(*) FROM notes WHERE report_key = ?", key).Scan(&totalCount)
	if err != nil {
		return nil, -1, 0, 0, err
	}

	hitPos := -1
	if hitNoteID >= 0 {
		err = d.db.QueryRow(`
			SELECT pos FROM (
				SELECT note_id, ROW_NUMBER() OVER (ORDER BY note_id) - 1 AS pos
				FROM notes WHERE report_key = ?
			) WHERE note_id = ?`,
			key, hitNoteID,
		).Scan(&hitPos)
		if err == sql.ErrNoRows {
			hitPos = -1
			err = nil
		} else if err != nil {
			return nil, -1, 0, 0, err
		}
	}

	startPos = 0
	limit := totalCount
	if hitPos >= 0 {
		startPos = max(hitPos-context, 0)
		endPos := min(hitPos+context+1, totalCount)
		limit = endPos - startPos
	}

	rows, err := d.db.Query(
		"SELECT report_key, note_id, kind, text, line_number FROM notes WHERE report_key = ? ORDER BY note_id LIMIT ? OFFSET ?",
		key, limit, startPos,
	)
	if err != nil {
		return nil, -1, 0, 0, err
	}
	defer rows.Close()

	localHitIdx := -1
	for rows.Next() {
		var n NoteRow
		if err := rows.Scan(&n.ReportKey, &n.NoteID, &n.Kind, &n.Text, &n.LineNumber); err != nil {
			return nil, -1, 0, 0, err
		}
		if n.NoteID == hitNoteID {
			localHitIdx = len(notes)
		}
		notes = append(notes, n)
	}
	return notes, localHitIdx, startPos, totalCount, rows.Err()
}
