package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/DaylightE/Log-Highlighter/internal/model"
	"github.com/DaylightE/Log-Highlighter/internal/util"

	_ "modernc.org/sqlite"
)

// Preferences are the viewer settings remembered between runs.
type Preferences struct {
	Extras      []string
	Roles       model.RoleToggles
	LocalTimes  bool
	Compact     bool
	HeaderShown bool
}

// DefaultPreferences is what a fresh database returns.
func DefaultPreferences() Preferences {
	return Preferences{Roles: model.AllRoles(), HeaderShown: true}
}

// Profile is a cached profile lookup.
type Profile struct {
	Name      string
	Gender    string
	FetchedAt time.Time
}

// SQLiteStore keeps preferences and the profile cache in a local SQLite database.
type SQLiteStore struct {
	db       *sql.DB
	defaults Preferences
}

// NewSQLiteStore opens (or creates) the database at the given path and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the server and a viewer share the file.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, defaults: DefaultPreferences()}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS preferences (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS profiles (
	name       TEXT PRIMARY KEY COLLATE NOCASE,
	gender     TEXT NOT NULL DEFAULT '',
	fetched_at TEXT NOT NULL DEFAULT ''
);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const (
	keyExtras      = "extras"
	keyRoleReport  = "role.report"
	keyRoleSubmit  = "role.submit"
	keyRoleExtra   = "role.extra"
	keyLocalTimes  = "local_times"
	keyCompact     = "compact"
	keyHeaderShown = "header_shown"
)

// SetDefaults replaces the values LoadPreferences uses for settings that
// were never saved.
func (s *SQLiteStore) SetDefaults(p Preferences) { s.defaults = p }

// LoadPreferences returns the saved preferences, with defaults for any
// setting that was never saved.
func (s *SQLiteStore) LoadPreferences(ctx context.Context) (Preferences, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM preferences")
	if err != nil {
		return Preferences{}, err
	}
	defer rows.Close()

	p := s.defaults
	p.Extras = slices.Clone(p.Extras)
	for rows.Next() {
		var key, val string
		if err := rows.Scan(&key, &val); err != nil {
			return Preferences{}, err
		}
		b, _ := strconv.ParseBool(val)
		switch key {
		case keyExtras:
			p.Extras = util.ParseNames(val)
		case keyRoleReport:
			p.Roles.Report = b
		case keyRoleSubmit:
			p.Roles.Submit = b
		case keyRoleExtra:
			p.Roles.Extra = b
		case keyLocalTimes:
			p.LocalTimes = b
		case keyCompact:
			p.Compact = b
		case keyHeaderShown:
			p.HeaderShown = b
		}
	}
	return p, rows.Err()
}

// SavePreferences writes every setting in one transaction.
func (s *SQLiteStore) SavePreferences(ctx context.Context, p Preferences) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	values := map[string]string{
		keyExtras:      util.FormatNames(p.Extras),
		keyRoleReport:  strconv.FormatBool(p.Roles.Report),
		keyRoleSubmit:  strconv.FormatBool(p.Roles.Submit),
		keyRoleExtra:   strconv.FormatBool(p.Roles.Extra),
		keyLocalTimes:  strconv.FormatBool(p.LocalTimes),
		keyCompact:     strconv.FormatBool(p.Compact),
		keyHeaderShown: strconv.FormatBool(p.HeaderShown),
	}
	for k, v := range values {
		if _, err := stmt.ExecContext(ctx, k, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetProfile returns the cached profile for name. ok is false when the name
// was never cached.
func (s *SQLiteStore) GetProfile(ctx context.Context, name string) (Profile, bool, error) {
	var (
		p       Profile
		fetched string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT name, gender, fetched_at FROM profiles WHERE name = ?", name).
		Scan(&p.Name, &p.Gender, &fetched)
	if err == sql.ErrNoRows {
		return Profile{}, false, nil
	}
	if err != nil {
		return Profile{}, false, err
	}
	if t, err := time.Parse(time.RFC3339, fetched); err == nil {
		p.FetchedAt = t
	}
	return p, true, nil
}

// UpsertProfile caches a profile lookup.
func (s *SQLiteStore) UpsertProfile(ctx context.Context, p Profile) error {
	if p.FetchedAt.IsZero() {
		p.FetchedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (name, gender, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			gender     = excluded.gender,
			fetched_at = excluded.fetched_at
	`, p.Name, p.Gender, p.FetchedAt.UTC().Format(time.RFC3339))
	return err
}

// CountProfiles returns the number of cached profiles.
func (s *SQLiteStore) CountProfiles(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles").Scan(&count)
	return count, err
}

// PruneProfiles drops cache entries fetched before cutoff.
func (s *SQLiteStore) PruneProfiles(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM profiles WHERE fetched_at < ?", cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
