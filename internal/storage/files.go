package storage

import (
    "context"
    "fmt"
    "os"
    "path/filepath"
    "regexp"
    "strings"
)

// Files is where accepted uploads live. Save, Read and Remove are
// independent operations with no cross-order coordination; removing a file
// while another request reads it is an accepted race at this traffic level.
type Files interface {
    Save(ctx context.Context, name string, data []byte) error
    Read(ctx context.Context, name string) ([]byte, error)
    Remove(name string) error
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

// SanitizeName builds the stored filename from the original one: a
// timestamp prefix, the base name stripped to safe characters and capped
// at 50 runes, and the original extension.
func SanitizeName(originalName string, timestamp int64) string {
    ext := filepath.Ext(originalName)
    base := strings.TrimSuffix(filepath.Base(originalName), ext)
    base = unsafeChars.ReplaceAllString(base, "_")
    if len(base) > 50 {
        base = base[:50]
    }
    return fmt.Sprintf("%d_%s%s", timestamp, base, ext)
}

// Local stores uploads in a directory on disk.
type Local struct {
    dir string
}

func NewLocal(dir string) (*Local, error) {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return nil, fmt.Errorf("create upload dir: %w", err)
    }
    return &Local{dir: dir}, nil
}

// path confines name to the upload directory. Traversal attempts collapse
// to the bare filename.
func (l *Local) path(name string) string {
    return filepath.Join(l.dir, filepath.Base(name))
}

func (l *Local) Save(_ context.Context, name string, data []byte) error {
    return os.WriteFile(l.path(name), data, 0o644)
}

func (l *Local) Read(_ context.Context, name string) ([]byte, error) {
    return os.ReadFile(l.path(name))
}

func (l *Local) Remove(name string) error {
    return os.Remove(l.path(name))
}
