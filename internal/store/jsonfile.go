package store

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "sync"

    "github.com/rs/zerolog/log"

    "github.com/laityfaye/impression/internal/institute"
    "github.com/laityfaye/impression/internal/order"
)

// ErrStorage wraps any read/write failure of the flat-file store. Fatal for
// the request, never retried.
var ErrStorage = errors.New("storage failure")

const (
    ordersFile     = "orders.json"
    institutesFile = "institutes.json"
)

// Store persists the orders and institutes collections as JSON files under
// a data directory. Every mutation rewrites the whole collection. A single
// RWMutex guards both files; concurrent staff updates on the same order are
// last-write-wins.
type Store struct {
    mu  sync.RWMutex
    dir string
}

func New(dir string) (*Store, error) {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return nil, fmt.Errorf("create data dir: %w", ErrStorage)
    }
    return &Store{dir: dir}, nil
}

// Orders returns the full order collection, newest first.
func (s *Store) Orders() ([]order.Order, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    var orders []order.Order
    if err := s.readJSON(ordersFile, &orders); err != nil {
        return nil, err
    }
    if orders == nil {
        orders = []order.Order{}
    }
    return orders, nil
}

func (s *Store) SaveOrders(orders []order.Order) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.writeJSON(ordersFile, orders)
}

// Institutes returns the institute collection, seeding the partner defaults
// when the file does not exist yet.
func (s *Store) Institutes() ([]institute.Institute, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    var institutes []institute.Institute
    if err := s.readJSON(institutesFile, &institutes); err != nil {
        return nil, err
    }
    if institutes == nil {
        return institute.Defaults(), nil
    }
    return institutes, nil
}

func (s *Store) SaveInstitutes(institutes []institute.Institute) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.writeJSON(institutesFile, institutes)
}

// readJSON loads a collection file. A missing file leaves v untouched so the
// caller supplies defaults; a corrupt file is treated the same way rather
// than blocking every subsequent request.
func (s *Store) readJSON(name string, v any) error {
    b, err := os.ReadFile(filepath.Join(s.dir, name))
    if errors.Is(err, os.ErrNotExist) {
        return nil
    }
    if err != nil {
        return fmt.Errorf("read %s: %v: %w", name, err, ErrStorage)
    }
    if err := json.Unmarshal(b, v); err != nil {
        log.Warn().Err(err).Str("file", name).Msg("corrupt collection file, starting from defaults")
        return nil
    }
    return nil
}

func (s *Store) writeJSON(name string, v any) error {
    b, err := json.MarshalIndent(v, "", "  ")
    if err != nil {
        return fmt.Errorf("encode %s: %v: %w", name, err, ErrStorage)
    }
    if err := os.WriteFile(filepath.Join(s.dir, name), b, 0o644); err != nil {
        return fmt.Errorf("write %s: %v: %w", name, err, ErrStorage)
    }
    return nil
}
