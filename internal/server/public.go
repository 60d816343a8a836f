package server

import (
    "context"
    "errors"
    "io"
    "net/http"
    "path/filepath"
    "strings"
    "time"

    "github.com/rs/zerolog/log"

    "github.com/laityfaye/impression/internal/document"
    "github.com/laityfaye/impression/internal/draft"
    "github.com/laityfaye/impression/internal/metrics"
    "github.com/laityfaye/impression/internal/order"
    "github.com/laityfaye/impression/internal/pricing"
    "github.com/laityfaye/impression/internal/storage"
)

const (
    reasonTooShort = "Ce document ne peut pas être imprimé. Notre plateforme accepte uniquement les documents d'au moins 10 pages."
    reasonCorrupt  = "Impossible de lire le fichier. Vérifiez qu'il n'est pas corrompu."
    reasonLegacy   = "Le format .doc (ancien Word) n'est pas supporté. Veuillez enregistrer votre document en .docx (Word 2007 et +) ou en PDF, puis réessayez."
)

type uploadResponse struct {
    PageCount     int    `json:"pageCount"`
    FileName      string `json:"fileName"`
    SavedFileName string `json:"savedFileName,omitempty"`
    Valid         bool   `json:"valid"`
    Reason        string `json:"reason,omitempty"`
}

// handleUpload accepts a multipart document, estimates its page count and,
// when printable, stores the file and attaches it to the session draft.
// Estimation failures are customer mistakes, not server errors: they come
// back as 200 {valid:false, reason}.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    release, ok := s.uploads.Allow()
    if !ok {
        writeError(w, http.StatusServiceUnavailable, "Serveur occupé. Réessayez dans un instant.")
        return
    }
    defer release()
    r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+(1<<20))
    if err := r.ParseMultipartForm(s.maxUpload); err != nil {
        writeError(w, http.StatusBadRequest, "Le fichier ne doit pas dépasser 50 Mo")
        return
    }
    file, hdr, err := r.FormFile("file")
    if err != nil {
        writeError(w, http.StatusBadRequest, "Aucun fichier reçu")
        return
    }
    defer file.Close()

    data, err := io.ReadAll(file)
    if err != nil {
        writeError(w, http.StatusBadRequest, "Aucun fichier reçu")
        return
    }
    if int64(len(data)) > s.maxUpload {
        writeError(w, http.StatusBadRequest, "Le fichier ne doit pas dépasser 50 Mo")
        return
    }

    declared := hdr.Header.Get("Content-Type")
    format, err := s.detector.Detect(data, declared, hdr.Filename)
    if err != nil {
        ext := strings.ToLower(filepath.Ext(hdr.Filename))
        if ext == ".doc" || declared == "application/msword" {
            // Pre-2007 binary Word: rejected with guidance, not a hard 400.
            metrics.IncUploadRejected("legacy_doc")
            writeJSON(w, http.StatusOK, uploadResponse{FileName: hdr.Filename, Reason: reasonLegacy})
            return
        }
        metrics.IncUploadRejected("unsupported")
        writeError(w, http.StatusBadRequest, "Seuls les fichiers PDF et Word (.docx) sont acceptés")
        return
    }

    start := time.Now()
    pageCount, err := document.EstimatePages(data, format)
    if err != nil {
        metrics.ObserveUpload(string(format), "unreadable", time.Since(start))
        writeJSON(w, http.StatusOK, uploadResponse{FileName: hdr.Filename, Reason: reasonCorrupt})
        return
    }
    if pageCount < pricing.MinPages {
        metrics.ObserveUpload(string(format), "too_short", time.Since(start))
        writeJSON(w, http.StatusOK, uploadResponse{
            PageCount: pageCount, FileName: hdr.Filename, Reason: reasonTooShort,
        })
        return
    }

    savedName := storage.SanitizeName(hdr.Filename, time.Now().UnixMilli())
    ctx, cancel := context.WithTimeout(r.Context(), s.uploadTimeout)
    defer cancel()
    if err := s.files.Save(ctx, savedName, data); err != nil {
        log.Error().Err(err).Str("file", savedName).Msg("storing upload failed")
        metrics.ObserveUpload(string(format), "store_failed", time.Since(start))
        writeError(w, http.StatusInternalServerError, "Erreur serveur lors du traitement du fichier")
        return
    }
    metrics.ObserveUpload(string(format), "accepted", time.Since(start))

    // Attach to the session draft so the following steps price against the
    // server-side page count.
    sid := s.sessionID(w, r)
    d, ok, derr := s.drafts.Get(r.Context(), sid)
    if derr != nil || !ok {
        d = draft.New()
    }
    d.SetDocument(order.DocumentInfo{Name: hdr.Filename, PageCount: pageCount, SavedFileName: savedName})
    if err := s.drafts.Save(r.Context(), sid, d); err != nil {
        log.Warn().Err(err).Msg("saving draft after upload failed")
    }

    log.Info().Str("file", hdr.Filename).Str("format", string(format)).Int("pages", pageCount).Msg("upload accepted")
    writeJSON(w, http.StatusOK, uploadResponse{
        PageCount: pageCount, FileName: hdr.Filename, SavedFileName: savedName, Valid: true,
    })
}

// handleVerify runs the layout heuristic on an already-estimated document
// and records the outcome on the session draft.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    var body struct {
        FileName  string `json:"fileName"`
        PageCount int    `json:"pageCount"`
    }
    if err := decodeJSON(r, &body); err != nil || body.FileName == "" || body.PageCount == 0 {
        writeError(w, http.StatusBadRequest, "Paramètres manquants")
        return
    }

    result := document.Verify(body.FileName, body.PageCount)

    sid := s.sessionID(w, r)
    if d, ok, err := s.drafts.Get(r.Context(), sid); err == nil && ok && d.Document != nil && d.Document.Name == body.FileName {
        d.Document.HasIssues = !result.Valid
        d.Document.IssueDetails = result.Issues
        if err := s.drafts.Save(r.Context(), sid, d); err != nil {
            log.Warn().Err(err).Msg("saving draft after verification failed")
        }
    }

    writeJSON(w, http.StatusOK, result)
}

// handleDraft serves the session draft: GET returns it, PATCH applies the
// customer's step choices, DELETE starts over.
func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
    sid := s.sessionID(w, r)
    switch r.Method {
    case http.MethodGet:
        d, ok, err := s.drafts.Get(r.Context(), sid)
        if err != nil {
            writeError(w, http.StatusInternalServerError, "Erreur serveur")
            return
        }
        if !ok {
            d = draft.New()
        }
        writeJSON(w, http.StatusOK, d)
    case http.MethodPatch:
        s.patchDraft(w, r, sid)
    case http.MethodDelete:
        if err := s.drafts.Delete(r.Context(), sid); err != nil {
            writeError(w, http.StatusInternalServerError, "Erreur serveur")
            return
        }
        writeJSON(w, http.StatusOK, map[string]bool{"success": true})
    default:
        w.WriteHeader(http.StatusMethodNotAllowed)
    }
}

type draftPatch struct {
    CorrectionService *bool             `json:"correctionService"`
    Finishing         *string           `json:"finishing"`
    Copies            *int              `json:"copies"`
    Delivery          *string           `json:"delivery"`
    SelectedInstitute *string           `json:"selectedInstitute"`
    Client            *order.ClientInfo `json:"client"`
}

func (s *Server) patchDraft(w http.ResponseWriter, r *http.Request, sid string) {
    var p draftPatch
    if err := decodeJSON(r, &p); err != nil {
        writeError(w, http.StatusBadRequest, "Corps de requête invalide")
        return
    }

    d, ok, err := s.drafts.Get(r.Context(), sid)
    if err != nil {
        writeError(w, http.StatusInternalServerError, "Erreur serveur")
        return
    }
    if !ok {
        d = draft.New()
    }

    if p.Client != nil && !order.ValidClient(*p.Client) {
        writeError(w, http.StatusBadRequest, "Numéro invalide. Les numéros sénégalais commencent par 70, 75, 76, 77 ou 78 et contiennent 9 chiffres.")
        return
    }
    if p.Finishing != nil {
        f := pricing.Finishing(*p.Finishing)
        if !pricing.ValidFinishing(f) {
            writeError(w, http.StatusBadRequest, "Finition invalide")
            return
        }
        d.SetFinishing(f)
    }
    if p.CorrectionService != nil {
        d.SetCorrectionService(*p.CorrectionService)
    }
    if p.Copies != nil {
        d.SetCopies(*p.Copies)
    }
    if p.Delivery != nil {
        t := order.DeliveryType(*p.Delivery)
        switch t {
        case order.DeliveryUnset, order.DeliveryPartner, order.DeliveryOther:
        default:
            writeError(w, http.StatusBadRequest, "Mode de remise invalide")
            return
        }
        inst := d.SelectedInstitute
        if p.SelectedInstitute != nil {
            inst = *p.SelectedInstitute
        }
        client := d.Client
        if p.Client != nil {
            client = p.Client
        }
        d.SetDelivery(t, inst, client)
    } else {
        if p.SelectedInstitute != nil {
            d.SetDelivery(d.Delivery, *p.SelectedInstitute, d.Client)
        }
        if p.Client != nil {
            d.SetDelivery(d.Delivery, d.SelectedInstitute, p.Client)
        }
    }

    if err := s.drafts.Save(r.Context(), sid, d); err != nil {
        writeError(w, http.StatusInternalServerError, "Erreur serveur")
        return
    }
    writeJSON(w, http.StatusOK, d)
}

// handleOrders converts the session draft into a persisted order.
func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    sid := s.sessionID(w, r)
    d, ok, err := s.drafts.Get(r.Context(), sid)
    if err != nil {
        writeError(w, http.StatusInternalServerError, "Erreur lors de la sauvegarde")
        return
    }
    if !ok || d.Document == nil {
        writeError(w, http.StatusBadRequest, "Aucun document dans la commande")
        return
    }

    o, err := s.orders.Create(order.CreateInput{
        Document:          *d.Document,
        Client:            d.Client,
        CorrectionService: d.CorrectionService,
        Finishing:         d.Finishing,
        Delivery:          d.Delivery,
        SelectedInstitute: d.SelectedInstitute,
        Copies:            d.Copies,
    })
    if err != nil {
        log.Error().Err(err).Msg("creating order failed")
        metrics.IncStoreWriteFailure()
        writeError(w, http.StatusInternalServerError, "Erreur lors de la sauvegarde")
        return
    }
    metrics.IncOrderCreated()

    if err := s.drafts.Delete(r.Context(), sid); err != nil {
        log.Warn().Err(err).Msg("clearing draft after submission failed")
    }

    log.Info().Str("order_number", o.OrderNumber).Int("total", o.TotalPrice).Msg("order created")
    writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": o})
}

// handleOrderLookup serves the public tracking page by 6-digit number.
func (s *Server) handleOrderLookup(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    number := strings.TrimPrefix(r.URL.Path, "/api/orders/")
    if number == "" || strings.Contains(number, "/") {
        writeError(w, http.StatusNotFound, "Commande introuvable. Vérifiez votre numéro.")
        return
    }
    pub, err := s.orders.Lookup(number)
    if err != nil {
        if errors.Is(err, order.ErrNotFound) {
            writeError(w, http.StatusNotFound, "Commande introuvable. Vérifiez votre numéro.")
            return
        }
        writeError(w, http.StatusInternalServerError, "Erreur serveur")
        return
    }
    writeJSON(w, http.StatusOK, pub)
}

func (s *Server) handleInstitutes(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    list, err := s.institutes.List()
    if err != nil {
        writeError(w, http.StatusInternalServerError, "Erreur serveur")
        return
    }
    writeJSON(w, http.StatusOK, list)
}
