package ai

import (
	"bytes"
	"encoding/gob"
	"sort"
	"strings"
	"sync"
)

// Blackboard is a namespaced key/value store that external decision makers
// use to keep per-entity state between ticks.
type Blackboard interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string)
	// Namespace returns a view whose keys are prefixed with "ns:".
	Namespace(ns string) Blackboard
	// Keys lists the keys visible from this view, sorted.
	Keys() []string
	// Clear removes every key visible from this view.
	Clear()
	MarshalBinary() ([]byte, error)
	UnmarshalBinary(b []byte) error
}

// bbMap is a map-backed blackboard. Namespaced views share the root map.
type bbMap struct {
	mu     sync.RWMutex
	data   map[string]any
	prefix string
	root   *bbMap
}

func NewBlackboard() Blackboard {
	m := &bbMap{data: make(map[string]any)}
	m.root = m
	return m
}

func (b *bbMap) fullKey(key string) string {
	if b.prefix == "" {
		return key
	}
	return b.prefix + ":" + key
}

func (b *bbMap) Get(key string) (any, bool) {
	bb := b.root
	bb.mu.RLock()
	defer bb.mu.RUnlock()
	v, ok := bb.data[b.fullKey(key)]
	return v, ok
}

func (b *bbMap) Set(key string, value any) {
	bb := b.root
	bb.mu.Lock()
	bb.data[b.fullKey(key)] = value
	bb.mu.Unlock()
}

func (b *bbMap) Delete(key string) {
	bb := b.root
	bb.mu.Lock()
	delete(bb.data, b.fullKey(key))
	bb.mu.Unlock()
}

func (b *bbMap) Namespace(ns string) Blackboard {
	ns = strings.ReplaceAll(ns, ":", "_")
	if b.prefix != "" {
		ns = b.prefix + ":" + ns
	}
	return &bbMap{root: b.root, prefix: ns}
}

func (b *bbMap) Keys() []string {
	bb := b.root
	bb.mu.RLock()
	keys := make([]string, 0, len(bb.data))
	for k := range bb.data {
		keys = append(keys, k)
	}
	bb.mu.RUnlock()
	sort.Strings(keys)
	if b.prefix == "" {
		return keys
	}
	res := make([]string, 0)
	pref := b.prefix + ":"
	for _, k := range keys {
		if strings.HasPrefix(k, pref) {
			res = append(res, strings.TrimPrefix(k, pref))
		}
	}
	return res
}

func (b *bbMap) Clear() {
	bb := b.root
	bb.mu.Lock()
	defer bb.mu.Unlock()
	if b.prefix == "" {
		clear(bb.data)
		return
	}
	pref := b.prefix + ":"
	for k := range bb.data {
		if strings.HasPrefix(k, pref) {
			delete(bb.data, k)
		}
	}
}

func (b *bbMap) MarshalBinary() ([]byte, error) {
	bb := b.root
	bb.mu.RLock()
	defer bb.mu.RUnlock()
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(bb.data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *bbMap) UnmarshalBinary(data []byte) error {
	bb := b.root
	bb.mu.Lock()
	defer bb.mu.Unlock()
	fresh := make(map[string]any)
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&fresh); err != nil {
		return err
	}
	bb.data = fresh
	return nil
}
