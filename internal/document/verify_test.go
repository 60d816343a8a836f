package document

import (
    "strings"
    "testing"
)

func TestVerifyCleanDocument(t *testing.T) {
    res := Verify("notes.pdf", 5)
    if !res.Valid {
        t.Fatalf("expected valid, got issues %v", res.Issues)
    }
    if len(res.Issues) != 0 {
        t.Fatalf("expected no issues, got %v", res.Issues)
    }
    if !res.OrientationOK {
        t.Fatal("expected orientationOk")
    }
}

func TestVerifyScanFilename(t *testing.T) {
    res := Verify("scan_report.pdf", 10)
    if res.Valid {
        t.Fatal("expected invalid")
    }
    if len(res.Issues) != 1 || !strings.Contains(res.Issues[0], "Orientation") {
        t.Fatalf("expected orientation issue, got %v", res.Issues)
    }
    if res.OrientationOK {
        t.Fatal("orientationOk should be false")
    }
}

func TestVerifyCaseInsensitive(t *testing.T) {
    if res := Verify("PHOTO-album.pdf", 12); res.Valid {
        t.Fatal("uppercase PHOTO should trigger the orientation rule")
    }
    if res := Verify("Mon_Scan.docx", 30); res.Valid {
        t.Fatal("mixed-case Scan should trigger the orientation rule")
    }
}

func TestVerifyLargeDocumentOrientation(t *testing.T) {
    if res := Verify("memoire.pdf", 201); res.Valid {
        t.Fatal("pageCount > 200 should trigger the orientation rule")
    }
    if res := Verify("memoire.pdf", 200); !res.Valid {
        t.Fatalf("pageCount = 200 must pass, got %v", res.Issues)
    }
}

func TestVerifyRapportRule(t *testing.T) {
    res := Verify("rapport_final.docx", 151)
    if res.Valid {
        t.Fatal("rapport over 150 pages should be flagged")
    }
    if len(res.Issues) != 1 || !strings.Contains(res.Issues[0], "Mise en page") {
        t.Fatalf("expected layout issue only, got %v", res.Issues)
    }
    if !res.OrientationOK {
        t.Fatal("layout rule must not affect orientationOk")
    }

    if res := Verify("rapport_final.docx", 150); !res.Valid {
        t.Fatalf("rapport at exactly 150 pages must pass, got %v", res.Issues)
    }
}

func TestVerifyBothRules(t *testing.T) {
    res := Verify("scan_rapport.pdf", 300)
    if len(res.Issues) != 2 {
        t.Fatalf("expected both issues, got %v", res.Issues)
    }
}
