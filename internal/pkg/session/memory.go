package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps sessions and locks in process. Used in tests and
// when no Redis is configured.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	lockTTL  time.Duration
	sessions map[string]memoryEntry
	locks    map[string]lockEntry
	now      func() time.Time
	seq      uint64
}

type lockEntry struct {
	owner     uint64
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory store. Zero TTLs never expire.
func NewMemoryStore(ttl, lockTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		lockTTL:  lockTTL,
		sessions: make(map[string]memoryEntry),
		locks:    make(map[string]lockEntry),
		now:      time.Now,
	}
}

func expired(at, now time.Time) bool {
	return !at.IsZero() && !now.Before(at)
}

func deadline(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

// Get returns a copy of the stored session.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if expired(e.expiresAt, m.now()) {
		delete(m.sessions, id)
		return nil, ErrNotFound
	}

	var s Session
	if err := json.Unmarshal(e.data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Set stores a snapshot of s and refreshes its TTL.
func (m *MemoryStore) Set(_ context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = memoryEntry{data: data, expiresAt: deadline(m.now(), m.ttl)}
	return nil
}

// Clear removes a session. Missing sessions are not an error.
func (m *MemoryStore) Clear(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Acquire takes key if it is free or its previous holder's lease ran out.
func (m *MemoryStore) Acquire(_ context.Context, key string) (Release, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if l, ok := m.locks[key]; ok && !expired(l.expiresAt, now) {
		return nil, ErrLocked
	}

	m.seq++
	owner := m.seq
	m.locks[key] = lockEntry{owner: owner, expiresAt: deadline(now, m.lockTTL)}

	return func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if l, ok := m.locks[key]; ok && l.owner == owner {
			delete(m.locks, key)
		}
		return nil
	}, nil
}
