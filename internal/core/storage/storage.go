// Package storage defines where save games live.
package storage

import (
	"context"
	"errors"
	"time"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// Record describes a stored snapshot without its payload.
type Record struct {
	ID        string
	Name      string
	Tick      uint64
	Checksum  uint64
	Size      int
	CreatedAt time.Time
}

// Snapshot is a stored world snapshot.
type Snapshot struct {
	Record
	Data []byte
}

// SnapshotStore keeps encoded world snapshots grouped by save name.
type SnapshotStore interface {
	Save(ctx context.Context, name string, tick, checksum uint64, data []byte) (Record, error)
	Load(ctx context.Context, id string) (Snapshot, error)
	Latest(ctx context.Context, name string) (Snapshot, error)
	// List returns the records of name, newest first.
	List(ctx context.Context, name string) ([]Record, error)
	Delete(ctx context.Context, id string) error
	// Prune keeps the newest keep snapshots of name and deletes the rest.
	Prune(ctx context.Context, name string, keep int) (int, error)
	Close() error
}
