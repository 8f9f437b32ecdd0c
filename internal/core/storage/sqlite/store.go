// Package sqlite stores save games in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/zeusync/skirmish/internal/core/storage"
)

var _ storage.SnapshotStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	name       TEXT    NOT NULL,
	tick       INTEGER NOT NULL,
	checksum   INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	data       BLOB    NOT NULL
);
CREATE INDEX IF NOT EXISTS snapshots_name_tick ON snapshots (name, tick DESC, created_at DESC);
`

// Store persists snapshots in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Save(ctx context.Context, name string, tick, checksum uint64, data []byte) (storage.Record, error) {
	if err := ctx.Err(); err != nil {
		return storage.Record{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.Record{}, fmt.Errorf("snapshot name is required")
	}
	if data == nil {
		data = []byte{}
	}
	rec := storage.Record{
		ID:        uuid.NewString(),
		Name:      name,
		Tick:      tick,
		Checksum:  checksum,
		Size:      len(data),
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO snapshots (id, name, tick, checksum, created_at, data) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, int64(rec.Tick), int64(rec.Checksum), toMillis(rec.CreatedAt), data,
	)
	if err != nil {
		return storage.Record{}, fmt.Errorf("save snapshot: %w", err)
	}
	return rec, nil
}

func (s *Store) Load(ctx context.Context, id string) (storage.Snapshot, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, tick, checksum, created_at, data FROM snapshots WHERE id = ?`, id)
	return scanSnapshot(row)
}

func (s *Store) Latest(ctx context.Context, name string) (storage.Snapshot, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, tick, checksum, created_at, data FROM snapshots
		 WHERE name = ? ORDER BY tick DESC, created_at DESC, rowid DESC LIMIT 1`, name)
	return scanSnapshot(row)
}

func (s *Store) List(ctx context.Context, name string) ([]storage.Record, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, tick, checksum, created_at, length(data) FROM snapshots
		 WHERE name = ? ORDER BY tick DESC, created_at DESC, rowid DESC`, name)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []storage.Record
	for rows.Next() {
		var (
			rec      storage.Record
			tick     int64
			checksum int64
			created  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &tick, &checksum, &created, &rec.Size); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		rec.Tick, rec.Checksum, rec.CreatedAt = uint64(tick), uint64(checksum), fromMillis(created)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n == 0 {
		return storage.ErrSnapshotNotFound
	}
	return nil
}

func (s *Store) Prune(ctx context.Context, name string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM snapshots WHERE name = ? AND id NOT IN (
		   SELECT id FROM snapshots WHERE name = ?
		   ORDER BY tick DESC, created_at DESC, rowid DESC LIMIT ?
		 )`, name, name, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return int(n), nil
}

func scanSnapshot(row *sql.Row) (storage.Snapshot, error) {
	var (
		snap     storage.Snapshot
		tick     int64
		checksum int64
		created  int64
	)
	err := row.Scan(&snap.ID, &snap.Name, &tick, &checksum, &created, &snap.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Snapshot{}, storage.ErrSnapshotNotFound
	}
	if err != nil {
		return storage.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	snap.Tick, snap.Checksum, snap.CreatedAt = uint64(tick), uint64(checksum), fromMillis(created)
	snap.Size = len(snap.Data)
	return snap, nil
}
