// Package classcache stores parsed class files in a SQLite database keyed by
// the SHA-256 of their raw bytes, so unchanged classes skip parsing on the
// next run.
package classcache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/chazu/javelin/classfile"
)

var log = commonlog.GetLogger("javelin.classcache")

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("classcache: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// Cache is a content-addressed store of parsed class files.
type Cache struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS classes (
		hash TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		data BLOB NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	log.Debugf("opened class cache %s", path)
	return &Cache{db: db, path: path}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Hash returns the cache key for raw class bytes.
func Hash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached parse of raw. The boolean is false on a miss.
func (c *Cache) Get(raw []byte) (*classfile.ClassFile, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hash := Hash(raw)
	var data []byte
	err := c.db.QueryRow("SELECT data FROM classes WHERE hash = ?", hash).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading %s: %w", hash, err)
	}

	var cf classfile.ClassFile
	if err := cbor.Unmarshal(data, &cf); err != nil {
		return nil, false, fmt.Errorf("decoding %s: %w", hash, err)
	}
	if cf.ConstantPool == nil {
		return nil, false, fmt.Errorf("decoding %s: missing constant pool", hash)
	}
	return &cf, true, nil
}

// Put stores cf as the parse of raw, replacing any existing entry.
func (c *Cache) Put(raw []byte, cf *classfile.ClassFile) error {
	name, err := cf.ThisClassName()
	if err != nil {
		return fmt.Errorf("class name: %w", err)
	}
	data, err := encMode.Marshal(cf)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = c.db.Exec(
		"INSERT OR REPLACE INTO classes (hash, name, data) VALUES (?, ?, ?)",
		Hash(raw), name, data,
	)
	if err != nil {
		return fmt.Errorf("storing %s: %w", name, err)
	}
	log.Debugf("cached %s", name)
	return nil
}

// Len returns the number of cached classes.
func (c *Cache) Len() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM classes").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Names returns the names of all cached classes, sorted.
func (c *Cache) Names() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.Query("SELECT DISTINCT name FROM classes ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
