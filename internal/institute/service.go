package institute

import (
    "fmt"
    "strings"
    "sync"
    "time"
)

// Repo is the collection persistence contract; *store.Store satisfies it.
type Repo interface {
    Institutes() ([]Institute, error)
    SaveInstitutes([]Institute) error
}

// Service is a read-through cache over the institute collection. The list
// changes rarely and is read on every delivery page load, so reads are
// served from memory and the cache is refilled only by a mutation or an
// explicit Refresh.
type Service struct {
    repo Repo

    mu     sync.RWMutex
    cached []Institute
    loaded bool

    now func() time.Time
}

func NewService(repo Repo) *Service {
    return &Service{repo: repo, now: time.Now}
}

// List returns all institutes, hitting the store only on the first call
// after startup or invalidation.
func (s *Service) List() ([]Institute, error) {
    s.mu.RLock()
    if s.loaded {
        out := make([]Institute, len(s.cached))
        copy(out, s.cached)
        s.mu.RUnlock()
        return out, nil
    }
    s.mu.RUnlock()
    return s.Refresh()
}

// Refresh reloads the cache from the store.
func (s *Service) Refresh() ([]Institute, error) {
    list, err := s.repo.Institutes()
    if err != nil {
        return nil, err
    }
    s.mu.Lock()
    s.cached = list
    s.loaded = true
    s.mu.Unlock()
    out := make([]Institute, len(list))
    copy(out, list)
    return out, nil
}

// Create adds an institute, deriving its slug id from the name. Duplicate
// slugs and case-insensitive duplicate names conflict.
func (s *Service) Create(name string) (Institute, error) {
    name = strings.TrimSpace(name)
    if name == "" {
        return Institute{}, ErrEmptyName
    }
    list, err := s.repo.Institutes()
    if err != nil {
        return Institute{}, err
    }
    slug := Slugify(name)
    if slug == "" {
        slug = fmt.Sprintf("inst-%d", s.now().UnixMilli())
    }
    for _, i := range list {
        if i.ID == slug || strings.EqualFold(i.Name, name) {
            return Institute{}, fmt.Errorf("%s: %w", name, ErrConflict)
        }
    }
    inst := Institute{ID: slug, Name: name, CreatedAt: s.now()}
    if err := s.repo.SaveInstitutes(append(list, inst)); err != nil {
        return Institute{}, err
    }
    s.invalidate()
    return inst, nil
}

// Delete removes an institute by id. No referential check against orders.
func (s *Service) Delete(id string) error {
    list, err := s.repo.Institutes()
    if err != nil {
        return err
    }
    filtered := list[:0:0]
    for _, i := range list {
        if i.ID != id {
            filtered = append(filtered, i)
        }
    }
    if len(filtered) == len(list) {
        return ErrNotFound
    }
    if err := s.repo.SaveInstitutes(filtered); err != nil {
        return err
    }
    s.invalidate()
    return nil
}

// DisplayName resolves an institute id for display, falling back to the
// raw id when the institute has since been deleted.
func (s *Service) DisplayName(id string) string {
    list, err := s.List()
    if err != nil {
        return id
    }
    for _, i := range list {
        if i.ID == id {
            return i.Name
        }
    }
    return id
}

func (s *Service) invalidate() {
    s.mu.Lock()
    s.loaded = false
    s.cached = nil
    s.mu.Unlock()
}
