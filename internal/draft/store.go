package draft

import (
    "context"
    "sync"
    "time"
)

// Store persists drafts by session id so a draft survives page reloads
// within one browsing session. It is session state, not server state: a
// missing entry simply means a fresh draft.
type Store interface {
    Get(ctx context.Context, sessionID string) (Draft, bool, error)
    Save(ctx context.Context, sessionID string, d Draft) error
    Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps drafts in process memory. Used in tests and as the
// fallback when no redis is configured; drafts then survive reloads but
// not a server restart, which is acceptable for session state.
type MemoryStore struct {
    mu     sync.RWMutex
    drafts map[string]memEntry
    ttl    time.Duration
    now    func() time.Time
}

type memEntry struct {
    draft   Draft
    expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
    return &MemoryStore{
        drafts: make(map[string]memEntry),
        ttl:    ttl,
        now:    time.Now,
    }
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (Draft, bool, error) {
    m.mu.RLock()
    e, ok := m.drafts[sessionID]
    m.mu.RUnlock()
    if !ok || (m.ttl > 0 && m.now().After(e.expires)) {
        return Draft{}, false, nil
    }
    return e.draft, true, nil
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, d Draft) error {
    m.mu.Lock()
    m.drafts[sessionID] = memEntry{draft: d, expires: m.now().Add(m.ttl)}
    m.mu.Unlock()
    return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
    m.mu.Lock()
    delete(m.drafts, sessionID)
    m.mu.Unlock()
    return nil
}
