package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	key     string
	data    []byte
	expires time.Time
}

// Memory is an in-process Cache bounded by entry count.
// When full, expired entries go first, then the oldest insert.
type Memory struct {
	mu         sync.Mutex
	codec      Codec
	ttl        time.Duration
	maxEntries int
	entries    map[string]*list.Element
	order      *list.List // front = oldest
	now        func() time.Time
}

// NewMemory creates an in-memory cache
func NewMemory(maxEntries int, ttl time.Duration, codec Codec) *Memory {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Memory{
		codec:      codec,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		now:        time.Now,
	}
}

// Get decodes a live entry into dst
func (m *Memory) Get(_ context.Context, key string, dst interface{}) error {
	m.mu.Lock()
	el, ok := m.entries[key]
	if !ok {
		m.mu.Unlock()
		return ErrMiss
	}
	entry := el.Value.(*memoryEntry)
	if m.expired(entry) {
		m.remove(el)
		m.mu.Unlock()
		return ErrMiss
	}
	data := entry.data
	m.mu.Unlock()

	return m.codec.Decode(data, dst)
}

// Set stores value under key, replacing any previous entry
func (m *Memory) Set(_ context.Context, key string, value interface{}) error {
	data, err := m.codec.Encode(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		m.remove(el)
	}
	for len(m.entries) >= m.maxEntries {
		m.evict()
	}

	entry := &memoryEntry{key: key, data: data}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}
	m.entries[key] = m.order.PushBack(entry)
	return nil
}

// Delete removes key
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		m.remove(el)
	}
	return nil
}

// Len returns the number of stored entries, expired ones included
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Close drops all entries
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]*list.Element)
	m.order.Init()
	return nil
}

func (m *Memory) expired(e *memoryEntry) bool {
	return !e.expires.IsZero() && !m.now().Before(e.expires)
}

func (m *Memory) remove(el *list.Element) {
	m.order.Remove(el)
	delete(m.entries, el.Value.(*memoryEntry).key)
}

// evict drops every expired entry, or the oldest one if none expired.
// Caller holds mu.
func (m *Memory) evict() {
	removed := false
	for el := m.order.Front(); el != nil; {
		next := el.Next()
		if m.expired(el.Value.(*memoryEntry)) {
			m.remove(el)
			removed = true
		}
		el = next
	}
	if !removed {
		if front := m.order.Front(); front != nil {
			m.remove(front)
		}
	}
}
