package filetype

import (
    "path/filepath"
    "strings"

    "github.com/gabriel-vasile/mimetype"
    "github.com/rs/zerolog/log"

    "github.com/laityfaye/impression/internal/document"
)

const (
    mimePDF       = "application/pdf"
    mimeDOCX      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
    mimeLegacyDoc = "application/msword"
)

// Detector resolves an upload to one of the accepted print formats using
// magic bytes, with the declared MIME type and filename as tie-breakers.
type Detector struct{}

func New() *Detector { return &Detector{} }

// Detect classifies raw upload bytes. It returns the estimator format for
// accepted files, document.ErrUnsupportedFormat for legacy binary Word and
// anything outside the PDF/DOCX allowlist.
func (d *Detector) Detect(data []byte, declaredMIME, fileName string) (document.Format, error) {
    mtype := mimetype.Detect(data)
    mime := mtype.String()
    if i := strings.Index(mime, ";"); i >= 0 {
        mime = mime[:i]
    }
    log.Debug().Str("mime", mime).Str("declared", declaredMIME).Str("file", fileName).Msg("detected upload type")

    ext := strings.ToLower(filepath.Ext(fileName))

    // Modern Office formats are ZIP containers; magic bytes alone cannot
    // tell a .docx from a plain archive, so the extension and declared type
    // break the tie.
    if mime == "application/zip" || strings.Contains(mime, "application/x-zip") {
        if ext == ".docx" || declaredMIME == mimeDOCX {
            mime = mimeDOCX
        }
    }

    // Legacy Office lives in OLE/CFB containers.
    if mime == "application/x-ole-storage" || mime == "application/x-cfb" {
        if ext == ".doc" || declaredMIME == mimeLegacyDoc {
            mime = mimeLegacyDoc
        }
    }

    switch mime {
    case mimePDF:
        return document.FormatPDF, nil
    case mimeDOCX:
        return document.FormatDOCX, nil
    case mimeLegacyDoc:
        // Pre-2007 binary Word is rejected outright, independent of the
        // estimator.
        return "", document.ErrUnsupportedFormat
    default:
        log.Warn().Str("mime", mime).Str("file", fileName).Msg("rejected upload type")
        return "", document.ErrUnsupportedFormat
    }
}
