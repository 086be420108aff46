// Package store persists clipboard history and settings in SQLite.
//
// The monitor core only depends on a narrow slice of this package
// (AddRecord, GetRecordByID, GetSettings); the rest serves the CLI and
// IPC surfaces.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/snappaste/snappaste/internal/record"
)

// ErrNotFound is returned when a record id does not exist (for example a
// paste request referencing an already-deleted entry).
var ErrNotFound = errors.New("record not found")

const dbFile = "snappaste.db"

const schema = `
CREATE TABLE IF NOT EXISTS clipboard_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	content_type TEXT NOT NULL,
	content TEXT,
	image_data BLOB,
	is_favorite INTEGER DEFAULT 0,
	is_pinned INTEGER DEFAULT 0,
	source_app TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
	id INTEGER PRIMARY KEY,
	hotkey TEXT DEFAULT 'Ctrl+Shift+V',
	theme TEXT DEFAULT 'system',
	keep_days INTEGER DEFAULT 1,
	max_records INTEGER DEFAULT 500,
	auto_start INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_created_at ON clipboard_history(created_at DESC);

INSERT OR IGNORE INTO settings (id) VALUES (1);
`

// Settings are the user-tunable knobs persisted alongside the history.
// KeepDays/MaxRecords drive the retention policy; 0 means unlimited.
type Settings struct {
	Hotkey     string `json:"hotkey"`
	Theme      string `json:"theme"`
	KeepDays   int    `json:"keep_days"`
	MaxRecords int    `json:"max_records"`
	AutoStart  bool   `json:"auto_start"`
}

// DefaultSettings returns the settings used for a fresh database.
func DefaultSettings() Settings {
	return Settings{
		Hotkey:     "Ctrl+Shift+V",
		Theme:      "system",
		KeepDays:   1,
		MaxRecords: 500,
	}
}

// Store wraps a SQLite database holding clipboard history and settings.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database in dataDir and applies the
// schema. Pass ":memory:" as dataDir for an in-memory database (used by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, dbFile)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Single connection avoids "database is locked" errors; the busy
	// timeout makes concurrent openers wait instead of failing.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddRecord persists a captured record and returns its id.
//
// Text-like records are deduplicated: when the same content already exists,
// the existing row is touched (created_at, source_app) and reused, favorite
// and pinned flags merged, and any straggling duplicates removed. The
// retention policy runs after every insert.
func (s *Store) AddRecord(r *record.Record) (int64, error) {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	created := createdAt.Format(time.RFC3339)

	if r.ContentType != record.TypeImage && strings.TrimSpace(r.Content) != "" {
		id, done, err := s.dedupeText(r, created)
		if err != nil {
			return 0, err
		}
		if done {
			s.pruneRetention()
			return id, nil
		}
	}

	res, err := s.db.Exec(
		`INSERT INTO clipboard_history (content_type, content, image_data, is_favorite, is_pinned, source_app, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(r.ContentType), r.Content, r.ImageData,
		boolInt(r.IsFavorite), boolInt(r.IsPinned), r.SourceApp, created,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	s.pruneRetention()
	return id, nil
}

// dedupeText reuses an existing row holding identical text. Returns
// done=false when no such row exists and a fresh insert is needed.
func (s *Store) dedupeText(r *record.Record, created string) (int64, bool, error) {
	var (
		keepID       int64
		keepFavorite int
		keepPinned   int
	)
	err := s.db.QueryRow(
		`SELECT id, COALESCE(is_favorite, 0), COALESCE(is_pinned, 0)
		 FROM clipboard_history
		 WHERE content_type = ? AND content = ?
		 ORDER BY COALESCE(is_favorite, 0) DESC, COALESCE(is_pinned, 0) DESC,
		          created_at DESC, id DESC
		 LIMIT 1`,
		string(r.ContentType), r.Content,
	).Scan(&keepID, &keepFavorite, &keepPinned)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("dedupe lookup: %w", err)
	}

	mergedFavorite := keepFavorite > 0 || r.IsFavorite
	mergedPinned := keepPinned > 0 || r.IsPinned

	if _, err := s.db.Exec(
		`UPDATE clipboard_history
		 SET created_at = ?, source_app = ?, is_favorite = ?, is_pinned = ?
		 WHERE id = ?`,
		created, r.SourceApp, boolInt(mergedFavorite), boolInt(mergedPinned), keepID,
	); err != nil {
		return 0, false, fmt.Errorf("dedupe touch: %w", err)
	}

	// Historic duplicates may exist from before deduplication; keep one row.
	if _, err := s.db.Exec(
		`DELETE FROM clipboard_history WHERE content_type = ? AND content = ? AND id <> ?`,
		string(r.ContentType), r.Content, keepID,
	); err != nil {
		return 0, false, fmt.Errorf("dedupe cleanup: %w", err)
	}

	return keepID, true, nil
}

// pruneRetention applies the age + count retention policy. Favorites are
// exempt and errors are swallowed: retention must never fail a capture.
func (s *Store) pruneRetention() {
	settings, err := s.GetSettings()
	if err != nil {
		return
	}

	if settings.KeepDays > 0 {
		daysExpr := fmt.Sprintf("-%d days", settings.KeepDays)
		s.db.Exec(
			`DELETE FROM clipboard_history
			 WHERE COALESCE(is_favorite, 0) = 0
			   AND julianday(created_at) < julianday('now', ?)`,
			daysExpr,
		)
	}

	if settings.MaxRecords > 0 {
		s.db.Exec(
			`DELETE FROM clipboard_history
			 WHERE COALESCE(is_favorite, 0) = 0
			   AND id NOT IN (
				SELECT id FROM clipboard_history
				WHERE COALESCE(is_favorite, 0) = 0
				ORDER BY created_at DESC, id DESC
				LIMIT ?
			 )`,
			settings.MaxRecords,
		)
	}
}

// listColumns elides image_data from list queries; blobs are only loaded
// for individual paste requests.
const listColumns = `id, content_type, COALESCE(content, ''), NULL,
	COALESCE(is_favorite, 0), COALESCE(is_pinned, 0),
	COALESCE(source_app, ''), created_at`

const listOrder = `ORDER BY COALESCE(is_pinned, 0) DESC, created_at DESC, id DESC`

// History returns records newest-first, pinned entries ahead of the rest.
func (s *Store) History(limit, offset int) ([]*record.Record, error) {
	return s.queryRecords(
		`SELECT `+listColumns+` FROM clipboard_history `+listOrder+` LIMIT ? OFFSET ?`,
		limit, offset,
	)
}

// Search returns records whose content matches keyword (substring, escaped).
func (s *Store) Search(keyword string, limit int) ([]*record.Record, error) {
	return s.queryRecords(
		`SELECT `+listColumns+` FROM clipboard_history
		 WHERE content LIKE ? ESCAPE '\' `+listOrder+` LIMIT ?`,
		escapeLike(keyword), limit,
	)
}

// Favorites returns favorite records newest-first.
func (s *Store) Favorites(limit, offset int) ([]*record.Record, error) {
	return s.queryRecords(
		`SELECT `+listColumns+` FROM clipboard_history
		 WHERE COALESCE(is_favorite, 0) = 1 `+listOrder+` LIMIT ? OFFSET ?`,
		limit, offset,
	)
}

// SearchFavorites returns favorite records matching keyword.
func (s *Store) SearchFavorites(keyword string, limit int) ([]*record.Record, error) {
	return s.queryRecords(
		`SELECT `+listColumns+` FROM clipboard_history
		 WHERE COALESCE(is_favorite, 0) = 1 AND content LIKE ? ESCAPE '\' `+listOrder+` LIMIT ?`,
		escapeLike(keyword), limit,
	)
}

func (s *Store) queryRecords(query string, args ...any) ([]*record.Record, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []*record.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRecordByID returns a single record including its image payload.
func (s *Store) GetRecordByID(id int64) (*record.Record, error) {
	row := s.db.QueryRow(
		`SELECT id, content_type, COALESCE(content, ''), image_data,
		        COALESCE(is_favorite, 0), COALESCE(is_pinned, 0),
		        COALESCE(source_app, ''), created_at
		 FROM clipboard_history WHERE id = ? LIMIT 1`, id,
	)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return r, err
}

// DeleteRecord removes a record by id.
func (s *Store) DeleteRecord(id int64) error {
	_, err := s.db.Exec(`DELETE FROM clipboard_history WHERE id = ?`, id)
	return err
}

// ClearNonFavorites removes every record not marked favorite.
func (s *Store) ClearNonFavorites() error {
	_, err := s.db.Exec(`DELETE FROM clipboard_history WHERE COALESCE(is_favorite, 0) = 0`)
	return err
}

// ClearFavorites removes every favorite record.
func (s *Store) ClearFavorites() error {
	_, err := s.db.Exec(`DELETE FROM clipboard_history WHERE COALESCE(is_favorite, 0) = 1`)
	return err
}

// SetFavorite updates the favorite flag on a record.
func (s *Store) SetFavorite(id int64, favorite bool) error {
	_, err := s.db.Exec(`UPDATE clipboard_history SET is_favorite = ? WHERE id = ?`, boolInt(favorite), id)
	return err
}

// SetPinned updates the pinned flag on a record.
func (s *Store) SetPinned(id int64, pinned bool) error {
	_, err := s.db.Exec(`UPDATE clipboard_history SET is_pinned = ? WHERE id = ?`, boolInt(pinned), id)
	return err
}

// Count returns the number of stored records.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM clipboard_history`).Scan(&n)
	return n, err
}

// GetSettings loads the singleton settings row.
func (s *Store) GetSettings() (Settings, error) {
	var (
		out       Settings
		autoStart int
	)
	err := s.db.QueryRow(
		`SELECT COALESCE(hotkey, 'Ctrl+Shift+V'), theme, keep_days, max_records, auto_start
		 FROM settings WHERE id = 1`,
	).Scan(&out.Hotkey, &out.Theme, &out.KeepDays, &out.MaxRecords, &autoStart)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	out.AutoStart = autoStart > 0
	return out, nil
}

// SaveSettings persists settings (sanitized) and applies retention with the
// new limits immediately.
func (s *Store) SaveSettings(in Settings) error {
	sanitized := sanitizeSettings(in)
	_, err := s.db.Exec(
		`UPDATE settings SET hotkey = ?, theme = ?, keep_days = ?, max_records = ?, auto_start = ?
		 WHERE id = 1`,
		sanitized.Hotkey, sanitized.Theme, sanitized.KeepDays, sanitized.MaxRecords, boolInt(sanitized.AutoStart),
	)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	s.pruneRetention()
	return nil
}

func sanitizeSettings(in Settings) Settings {
	out := in
	out.Hotkey = strings.TrimSpace(in.Hotkey)
	if out.Hotkey == "" {
		out.Hotkey = "Ctrl+Shift+V"
	}
	if out.KeepDays < 0 {
		out.KeepDays = 0
	}
	if out.MaxRecords < 0 {
		out.MaxRecords = 0
	}
	return out
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*record.Record, error) {
	var (
		r           record.Record
		contentType string
		favorite    int
		pinned      int
		created     string
	)
	err := row.Scan(&r.ID, &contentType, &r.Content, &r.ImageData, &favorite, &pinned, &r.SourceApp, &created)
	if err != nil {
		return nil, err
	}
	r.ContentType = record.ContentType(contentType)
	r.IsFavorite = favorite > 0
	r.IsPinned = pinned > 0
	if t, perr := time.Parse(time.RFC3339, created); perr == nil {
		r.CreatedAt = t
	}
	return &r, nil
}

// escapeLike wraps keyword in % wildcards with LIKE metacharacters escaped.
func escapeLike(keyword string) string {
	var b strings.Builder
	b.Grow(len(keyword) + 2)
	b.WriteByte('%')
	for _, ch := range keyword {
		if ch == '%' || ch == '_' || ch == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(ch)
	}
	b.WriteByte('%')
	return b.String()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
