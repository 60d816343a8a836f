package document

import (
    "archive/zip"
    "bytes"
    "errors"
    "fmt"
    "io"
    "math"
    "regexp"
    "strconv"
    "strings"

    "github.com/pdfcpu/pdfcpu/pkg/api"
    "github.com/rs/zerolog/log"
)

// Format is the declared document format of an upload.
type Format string

const (
    FormatPDF  Format = "pdf"
    FormatDOCX Format = "docx"
)

// ErrUnreadable means no estimation tier could extract a page count; the
// file is corrupt or not what it claims to be.
var ErrUnreadable = errors.New("document unreadable")

// ErrTooShort is returned by callers enforcing the minimum page gate.
var ErrTooShort = errors.New("document below minimum page count")

// ErrUnsupportedFormat covers legacy binary Word and anything outside the
// PDF/DOCX allowlist.
var ErrUnsupportedFormat = errors.New("unsupported document format")

const (
    wordsPerPage      = 150 // conservative for image- and table-heavy documents
    paragraphsPerPage = 25  // catches sparse-text, block-heavy documents
)

var (
    pdfPageMarker   = regexp.MustCompile(`/Type\s*/Page[^s]`)
    docxPagesMeta   = regexp.MustCompile(`<Pages>(\d+)</Pages>`)
    docxManualBreak = regexp.MustCompile(`<w:br[^>]*w:type=["']page["'][^>]*/?>`)
    docxParagraph   = regexp.MustCompile(`<w:p[ >]`)
    xmlTag          = regexp.MustCompile(`<[^>]+>`)
)

// EstimatePages maps raw document bytes to a page-count estimate.
//
// PDF goes through two tiers: a structural parse of the page tree
// (authoritative when it succeeds) and a raw-byte scan for page object
// markers. DOCX goes through four: authoring-tool metadata, rendered page
// break markers, manual page break markers, and a content-volume estimate.
func EstimatePages(data []byte, format Format) (int, error) {
    if len(data) == 0 {
        return 0, fmt.Errorf("empty file: %w", ErrUnreadable)
    }
    switch format {
    case FormatPDF:
        return estimatePDF(data)
    case FormatDOCX:
        return estimateDOCX(data)
    default:
        return 0, fmt.Errorf("format %q: %w", format, ErrUnsupportedFormat)
    }
}

func estimatePDF(data []byte) (int, error) {
    n, err := api.PageCount(bytes.NewReader(data), nil)
    if err == nil && n > 0 {
        return n, nil
    }
    if err != nil {
        log.Debug().Err(err).Msg("pdf structural parse failed, falling back to marker scan")
    }
    // Fallback: count page object markers in the raw stream. Catches PDFs
    // whose xref tables are damaged but whose objects survived.
    matches := pdfPageMarker.FindAll(data, -1)
    if len(matches) > 0 {
        return len(matches), nil
    }
    return 0, fmt.Errorf("pdf page tree and marker scan both failed: %w", ErrUnreadable)
}

func estimateDOCX(data []byte) (int, error) {
    zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
    if err != nil {
        return 0, fmt.Errorf("docx archive open: %w", ErrUnreadable)
    }

    // Tier 1: <Pages> from docProps/app.xml, written by the authoring tool
    // at last save. A value of 0 is treated as absent.
    if appXML, err := readZipEntry(zr, "docProps/app.xml"); err == nil {
        if m := docxPagesMeta.FindStringSubmatch(appXML); m != nil {
            if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
                return n, nil
            }
        }
    }

    docXML, err := readZipEntry(zr, "word/document.xml")
    if err != nil {
        return 0, fmt.Errorf("docx body missing: %w", ErrUnreadable)
    }

    // Tier 2: page breaks recorded by Word's last render pass. N breaks
    // separate N+1 pages.
    if n := strings.Count(docXML, "<w:lastRenderedPageBreak/>"); n > 0 {
        return n + 1, nil
    }

    // Tier 3: explicit manual page breaks.
    if n := len(docxManualBreak.FindAllString(docXML, -1)); n > 0 {
        return n + 1, nil
    }

    // Tier 4: estimate from content volume, taking the max of the word-based
    // and paragraph-based figures so neither axis undercounts.
    plain := strings.TrimSpace(xmlTag.ReplaceAllString(docXML, " "))
    wordCount := len(strings.Fields(plain))
    paraCount := len(docxParagraph.FindAllString(docXML, -1))
    fromWords := int(math.Ceil(float64(wordCount) / wordsPerPage))
    fromParas := int(math.Round(float64(paraCount) / paragraphsPerPage))
    return max(1, max(fromWords, fromParas)), nil
}

func readZipEntry(zr *zip.Reader, name string) (string, error) {
    f, err := zr.Open(name)
    if err != nil {
        return "", err
    }
    defer f.Close()
    b, err := io.ReadAll(f)
    if err != nil {
        return "", err
    }
    return string(b), nil
}
