package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/teenjuna/deq/internal"
)

var (
	// ErrClosed is returned by Storage methods when the storage has been closed.
	ErrClosed = errors.New("storage is closed")
)

const (
	memory = ":memory:"
)

// Storage is a persistent snapshot store backed by SQLite.
//
// It holds at most one snapshot: Save replaces whatever was stored before.
type Storage struct {
	cfg    *Config
	db     *sql.DB
	closed atomic.Bool
}

// New creates a new Storage with the provided configuration functions.
//
// Default configuration:
//   - URI: ":memory:" (in-memory database)
//
// Returns an error if the SQLite database cannot be opened or initialized.
func New(configFuncs ...ConfigFunc) (*Storage, error) {
	cfg := &Config{}
	WithURI(memory)(cfg)
	for _, cf := range configFuncs {
		cf(cfg)
	}

	db, err := open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	if err := setup(db); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	storage := Storage{
		cfg: cfg,
		db:  db,
	}

	return &storage, nil
}

// Save stores a snapshot, deleting any previously stored one in the same
// transaction.
//
// The data is the encoded snapshot content, and size is the number of items in
// it. Returns a unique SnapshotID.
//
// Returns [ErrClosed] if the storage has been closed.
func (s *Storage) Save(data []byte, size int) (SnapshotID, error) {
	id := internal.GenerateID()

	tx, err := s.db.Begin()
	if err != nil && err.Error() == "sql: database is closed" {
		return "", ErrClosed
	} else if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("delete from snapshot"); err != nil {
		return "", fmt.Errorf("delete previous: %w", err)
	}

	if _, err := tx.Exec(
		`
		insert into snapshot (
			id,
			data,
			size,
			saved_at
		) values (
			:id,
			:data,
			:size,
			:saved_at
		)
		`,
		sql.Named("id", id),
		sql.Named("data", data),
		sql.Named("size", size),
		sql.Named("saved_at", toTimestamp(time.Now())),
	); err != nil {
		return "", fmt.Errorf("insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	return id, nil
}

// Load returns the latest stored snapshot, or nil if nothing has been saved.
//
// Returns [ErrClosed] if the storage has been closed.
func (s *Storage) Load() (*Snapshot, error) {
	var (
		id      string
		data    []byte
		size    int
		savedAt int64
	)
	err := s.db.QueryRow(
		`
		select
			id,
			data,
			size,
			saved_at
		from
			snapshot
		order by
			saved_at desc
		limit 1
		`,
	).Scan(
		&id,
		&data,
		&size,
		&savedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil && err.Error() == "sql: database is closed" {
		return nil, ErrClosed
	} else if err != nil {
		return nil, err
	}

	snapshot := Snapshot{
		ID:      id,
		Data:    data,
		Size:    size,
		SavedAt: fromTimestamp(savedAt),
	}

	return &snapshot, nil
}

// Close closes the underlying SQLite database.
//
// After closing, all methods on Storage, including Close, return [ErrClosed].
func (s *Storage) Close() error {
	if s.closed.Swap(true) {
		return ErrClosed
	}
	return s.db.Close()
}

// Snapshot represents a stored copy of a buffer's contents.
type Snapshot struct {
	// ID is the unique identifier of this snapshot.
	ID SnapshotID
	// Data is the encoded snapshot content.
	Data []byte
	// Size is the number of items in the snapshot.
	Size int
	// SavedAt is the time when the snapshot was saved.
	SavedAt time.Time
}

type SnapshotID = string

func open(cfg *Config) (*sql.DB, error) {
	params := url.Values{}
	params.Set("_txlock", "immediate")
	params.Set("_timeout", "5000") // 5s

	file := cfg.file
	if file == memory {
		file = "file:" + internal.GenerateID()
		params.Set("mode", "memory")
		params.Set("cache", "shared")
	} else {
		params.Set("_journal", "wal")
		params.Set("_sync", "normal")
	}

	for k, v := range cfg.params {
		if len(v) != 0 {
			params.Set(k, v[0])
		}
	}

	db, err := sql.Open("sqlite3", file+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return db, nil
}

func setup(db *sql.DB) error {
	if _, err := db.Exec(
		`
		create table if not exists snapshot (
			id       text primary key,
			data     blob not null,
			size     int not null,
			saved_at int not null
		) strict
		`,
	); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	return nil
}

func toTimestamp(time time.Time) int64 {
	return time.UnixNano()
}

func fromTimestamp(timestamp int64) time.Time {
	return time.Unix(0, timestamp)
}
