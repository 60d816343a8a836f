package institute

import (
    "errors"
    "testing"
)

type memRepo struct {
    list      []Institute
    readCalls int
}

func (m *memRepo) Institutes() ([]Institute, error) {
    m.readCalls++
    if m.list == nil {
        return Defaults(), nil
    }
    out := make([]Institute, len(m.list))
    copy(out, m.list)
    return out, nil
}

func (m *memRepo) SaveInstitutes(list []Institute) error {
    m.list = make([]Institute, len(list))
    copy(m.list, list)
    return nil
}

func TestListSeedsDefaults(t *testing.T) {
    s := NewService(&memRepo{})
    list, err := s.List()
    if err != nil {
        t.Fatalf("List: %v", err)
    }
    if len(list) != 3 {
        t.Fatalf("got %d defaults, want 3", len(list))
    }
}

func TestListCachesUntilMutation(t *testing.T) {
    repo := &memRepo{}
    s := NewService(repo)

    if _, err := s.List(); err != nil {
        t.Fatalf("List: %v", err)
    }
    if _, err := s.List(); err != nil {
        t.Fatalf("List: %v", err)
    }
    if repo.readCalls != 1 {
        t.Fatalf("store read %d times, want 1 (cached)", repo.readCalls)
    }

    if _, err := s.Create("Nouveau Centre"); err != nil {
        t.Fatalf("Create: %v", err)
    }
    before := repo.readCalls
    if _, err := s.List(); err != nil {
        t.Fatalf("List: %v", err)
    }
    if repo.readCalls != before+1 {
        t.Fatal("mutation should invalidate the cache")
    }
}

func TestCreateSlugAndConflicts(t *testing.T) {
    s := NewService(&memRepo{})

    inst, err := s.Create("  École Supérieure de Dakar  ")
    if err != nil {
        t.Fatalf("Create: %v", err)
    }
    if inst.ID != "cole-sup-rieure-de-dakar" {
        t.Fatalf("slug = %q", inst.ID)
    }

    if _, err := s.Create("école supérieure de dakar"); !errors.Is(err, ErrConflict) {
        t.Fatalf("case-insensitive duplicate name: got %v, want ErrConflict", err)
    }
    if _, err := s.Create(""); !errors.Is(err, ErrEmptyName) {
        t.Fatalf("got %v, want ErrEmptyName", err)
    }
}

func TestDeleteAndDanglingDisplay(t *testing.T) {
    repo := &memRepo{}
    s := NewService(repo)

    if err := s.Delete("isa"); err != nil {
        t.Fatalf("Delete: %v", err)
    }
    if err := s.Delete("isa"); !errors.Is(err, ErrNotFound) {
        t.Fatalf("got %v, want ErrNotFound", err)
    }

    // An order referencing the deleted id displays the raw id.
    if got := s.DisplayName("isa"); got != "isa" {
        t.Fatalf("DisplayName fell back to %q, want raw id", got)
    }
    if got := s.DisplayName("ufr-sante"); got != "UFR Santé - Université de Thiès" {
        t.Fatalf("DisplayName = %q", got)
    }
}
