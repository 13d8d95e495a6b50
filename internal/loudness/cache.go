package loudness

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	ioutils "github.com/CartoonFan/loudgain/internal/io"
	"github.com/CartoonFan/loudgain/internal/model"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS measurements (
	path TEXT PRIMARY KEY,
	size INTEGER NOT NULL,
	mtime_ns INTEGER NOT NULL,
	codec TEXT NOT NULL,
	integrated REAL NOT NULL,
	loudness_range REAL NOT NULL,
	peak REAL NOT NULL,
	duration_ms INTEGER NOT NULL,
	updated_at TEXT NOT NULL
);
`

// Cache stores measurements in SQLite, keyed on absolute path. An entry
// is only valid while the file's size and modification time match.
type Cache struct {
	db   *sql.DB
	path string
}

// OpenCache opens or creates the cache database at path.
func OpenCache(path string) (*Cache, error) {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Lookup returns the cached measurement for a file, if it is still fresh.
func (c *Cache) Lookup(ctx context.Context, path string, info os.FileInfo) (Measurement, bool, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return Measurement{}, false, err
	}

	var (
		size, mtime, durationMS int64
		codec                   string
		m                       Measurement
	)
	err = c.db.QueryRowContext(ctx,
		`SELECT size, mtime_ns, codec, integrated, loudness_range, peak, duration_ms
		 FROM measurements WHERE path = ?`, key,
	).Scan(&size, &mtime, &codec, &m.Integrated, &m.Range, &m.Peak, &durationMS)
	if errors.Is(err, sql.ErrNoRows) {
		return Measurement{}, false, nil
	}
	if err != nil {
		return Measurement{}, false, fmt.Errorf("query cache: %w", err)
	}
	if size != info.Size() || mtime != info.ModTime().UnixNano() {
		return Measurement{}, false, nil
	}

	m.Path = path
	m.Codec = model.CodecFromName(codec)
	m.Duration = time.Duration(durationMS) * time.Millisecond
	return m, true, nil
}

// Store saves a measurement, replacing any previous entry for the file.
func (c *Cache) Store(ctx context.Context, m Measurement, info os.FileInfo) error {
	key, err := filepath.Abs(m.Path)
	if err != nil {
		return err
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO measurements
		 (path, size, mtime_ns, codec, integrated, loudness_range, peak, duration_ms, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key, info.Size(), info.ModTime().UnixNano(), m.Codec.String(),
		m.Integrated, m.Range, m.Peak, m.Duration.Milliseconds(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store measurement: %w", err)
	}
	return nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
