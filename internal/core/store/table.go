package store

import (
	"fmt"

	"github.com/zeusync/skirmish/internal/core/models"
)

// Entry is one (entity, record) pair of a table snapshot.
type Entry[T any] struct {
	Entity models.EntityID `json:"entity"`
	Data   T               `json:"data"`
}

// Table maps entity handles to records of one component kind. Iteration and
// export follow insertion order.
type Table[T any] struct {
	kind     models.ComponentKind
	defaults func() T
	rows     map[models.EntityID]*T
	order    []models.EntityID
}

// NewTable creates an empty table whose Add starts from defaults().
func NewTable[T any](kind models.ComponentKind, defaults func() T) *Table[T] {
	return &Table[T]{
		kind:     kind,
		defaults: defaults,
		rows:     make(map[models.EntityID]*T),
	}
}

func (t *Table[T]) Kind() models.ComponentKind { return t.kind }

func (t *Table[T]) Len() int { return len(t.order) }

// Add attaches a record built from the kind defaults with overrides applied
// in order. An existing record is replaced in place, keeping its slot.
func (t *Table[T]) Add(id models.EntityID, overrides ...func(*T)) *T {
	rec := t.defaults()
	for _, o := range overrides {
		o(&rec)
	}
	return t.Set(id, rec)
}

// Set stores rec as-is.
func (t *Table[T]) Set(id models.EntityID, rec T) *T {
	if cur, ok := t.rows[id]; ok {
		*cur = rec
		return cur
	}
	p := &rec
	t.rows[id] = p
	t.order = append(t.order, id)
	return p
}

// Remove detaches the record of id and reports whether one existed.
func (t *Table[T]) Remove(id models.EntityID) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, e := range t.order {
		if e == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *Table[T]) Has(id models.EntityID) bool {
	_, ok := t.rows[id]
	return ok
}

// Lookup is the non-failing accessor for hot paths.
func (t *Table[T]) Lookup(id models.EntityID) (*T, bool) {
	p, ok := t.rows[id]
	return p, ok
}

// Get returns the record of id or an error wrapping models.ErrNotFound.
func (t *Table[T]) Get(id models.EntityID) (*T, error) {
	p, ok := t.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: entity %d has no %s", models.ErrNotFound, id, t.kind)
	}
	return p, nil
}

// Each visits records in insertion order. fn must not add or remove rows.
func (t *Table[T]) Each(fn func(models.EntityID, *T)) {
	for _, id := range t.order {
		fn(id, t.rows[id])
	}
}

// IDs returns a copy of the entity handles in insertion order.
func (t *Table[T]) IDs() []models.EntityID {
	out := make([]models.EntityID, len(t.order))
	copy(out, t.order)
	return out
}

// All exports the table as ordered (entity, record) pairs.
func (t *Table[T]) All() []Entry[T] {
	out := make([]Entry[T], 0, len(t.order))
	for _, id := range t.order {
		out = append(out, Entry[T]{Entity: id, Data: *t.rows[id]})
	}
	return out
}

// Replace discards the table content and loads entries.
func (t *Table[T]) Replace(entries []Entry[T]) {
	t.rows = make(map[models.EntityID]*T, len(entries))
	t.order = t.order[:0]
	for _, e := range entries {
		t.Set(e.Entity, e.Data)
	}
}
