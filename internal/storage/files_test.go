package storage

import (
    "context"
    "os"
    "path/filepath"
    "testing"
)

func TestSanitizeName(t *testing.T) {
    cases := []struct {
        original string
        want     string
    }{
        {"mémoire final (v2).pdf", "1700000_m_moire_final__v2_.pdf"},
        {"rapport.docx", "1700000_rapport.docx"},
        {"../../etc/passwd", "1700000_passwd"},
    }
    for _, c := range cases {
        if got := SanitizeName(c.original, 1700000); got != c.want {
            t.Errorf("SanitizeName(%q) = %q, want %q", c.original, got, c.want)
        }
    }
}

func TestSanitizeNameCapsBase(t *testing.T) {
    long := ""
    for i := 0; i < 80; i++ {
        long += "a"
    }
    got := SanitizeName(long+".pdf", 5)
    if want := "5_" + long[:50] + ".pdf"; got != want {
        t.Fatalf("got %q, want %q", got, want)
    }
}

func TestLocalRoundTripAndTraversalGuard(t *testing.T) {
    dir := t.TempDir()
    l, err := NewLocal(dir)
    if err != nil {
        t.Fatalf("NewLocal: %v", err)
    }
    ctx := context.Background()

    if err := l.Save(ctx, "123_doc.pdf", []byte("contents")); err != nil {
        t.Fatalf("Save: %v", err)
    }
    b, err := l.Read(ctx, "123_doc.pdf")
    if err != nil || string(b) != "contents" {
        t.Fatalf("Read: %q %v", b, err)
    }

    // Traversal collapses to the base name inside the upload dir.
    if err := l.Save(ctx, "../escape.pdf", []byte("x")); err != nil {
        t.Fatalf("Save traversal name: %v", err)
    }
    if _, err := os.Stat(filepath.Join(dir, "escape.pdf")); err != nil {
        t.Fatalf("expected file inside dir: %v", err)
    }
    if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.pdf")); !os.IsNotExist(err) {
        t.Fatal("file escaped the upload dir")
    }

    if err := l.Remove("123_doc.pdf"); err != nil {
        t.Fatalf("Remove: %v", err)
    }
    if _, err := l.Read(ctx, "123_doc.pdf"); err == nil {
        t.Fatal("removed file still readable")
    }
}
