package institute

import (
    "errors"
    "regexp"
    "strings"
    "time"
)

var (
    ErrNotFound = errors.New("institute not found")
    ErrConflict = errors.New("institute already exists")
    ErrEmptyName = errors.New("institute name required")
)

// Institute is a partner pickup point referenced by partner deliveries.
// Deletion is unconditional; an order may keep a dangling institute id, in
// which case display falls back to the raw id.
type Institute struct {
    ID        string    `json:"id"`
    Name      string    `json:"name"`
    CreatedAt time.Time `json:"createdAt"`
}

var seedTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Defaults is the partner list a fresh deployment starts with.
func Defaults() []Institute {
    return []Institute{
        {ID: "ufr-sante", Name: "UFR Santé - Université de Thiès", CreatedAt: seedTime},
        {ID: "isa", Name: "ISA - Institut Supérieur des Arts", CreatedAt: seedTime},
        {ID: "esp-thies", Name: "ESP Thiès - École Supérieure Polytechnique", CreatedAt: seedTime},
    }
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the stable id from a display name.
func Slugify(name string) string {
    s := nonSlug.ReplaceAllString(strings.ToLower(name), "-")
    return strings.Trim(s, "-")
}
