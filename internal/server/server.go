package server

import (
    "encoding/json"
    "net/http"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog/log"

    "github.com/laityfaye/impression/internal/auth"
    "github.com/laityfaye/impression/internal/draft"
    "github.com/laityfaye/impression/internal/filetype"
    "github.com/laityfaye/impression/internal/institute"
    "github.com/laityfaye/impression/internal/limiter"
    "github.com/laityfaye/impression/internal/order"
    "github.com/laityfaye/impression/internal/statuscheck"
    "github.com/laityfaye/impression/internal/storage"
)

const draftCookie = "print-session"

// Server holds the HTTP handlers and their dependencies.
type Server struct {
    orders        *order.Service
    institutes    *institute.Service
    drafts        draft.Store
    files         storage.Files
    detector      *filetype.Detector
    auth          *auth.Service
    checker       *statuscheck.Checker
    uploads       *limiter.Inflight
    maxUpload     int64
    uploadTimeout time.Duration
}

// Options configures the Server.
type Options struct {
    Orders            *order.Service
    Institutes        *institute.Service
    Drafts            draft.Store
    Files             storage.Files
    Auth              *auth.Service
    Checker           *statuscheck.Checker
    MaxUploadMB       int
    UploadTimeout     time.Duration
    UploadConcurrency int
}

func New(opts Options) *Server {
    maxMB := opts.MaxUploadMB
    if maxMB <= 0 {
        maxMB = 50
    }
    timeout := opts.UploadTimeout
    if timeout <= 0 {
        timeout = 30 * time.Second
    }
    return &Server{
        orders:        opts.Orders,
        institutes:    opts.Institutes,
        drafts:        opts.Drafts,
        files:         opts.Files,
        detector:      filetype.New(),
        auth:          opts.Auth,
        checker:       opts.Checker,
        uploads:       limiter.New(opts.UploadConcurrency),
        maxUpload:     int64(maxMB) << 20,
        uploadTimeout: timeout,
    }
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
    mux.HandleFunc("/api/upload", s.handleUpload)
    mux.HandleFunc("/api/verify-document", s.handleVerify)
    mux.HandleFunc("/api/draft", s.handleDraft)
    mux.HandleFunc("/api/orders", s.handleOrders)
    mux.HandleFunc("/api/orders/", s.handleOrderLookup)
    mux.HandleFunc("/api/institutes", s.handleInstitutes)

    mux.HandleFunc("/api/admin/login", s.handleLogin)
    mux.HandleFunc("/api/admin/logout", s.handleLogout)
    mux.HandleFunc("/api/admin/me", s.handleMe)
    mux.HandleFunc("/api/admin/orders", s.requireAdmin(s.handleAdminOrders))
    mux.HandleFunc("/api/admin/orders/", s.requireAdmin(s.handleAdminOrder))
    mux.HandleFunc("/api/admin/institutes", s.requireAdmin(s.handleAdminInstitutes))
    mux.HandleFunc("/api/admin/institutes/", s.requireAdmin(s.handleAdminInstitute))
    mux.HandleFunc("/api/admin/download/", s.requireAdmin(s.handleDownload))
    mux.HandleFunc("/api/admin/status", s.requireAdmin(s.handleStatusSummary))

    mux.HandleFunc("/health", s.handleHealth)
}

// requireAdmin gates a handler behind the session cookies and passes the
// resolved role through.
func (s *Server) requireAdmin(next func(http.ResponseWriter, *http.Request, order.Role)) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        role := auth.RoleFromRequest(r)
        if role == order.RoleNone {
            writeError(w, http.StatusUnauthorized, "Authentification requise")
            return
        }
        next(w, r, role)
    }
}

// sessionID returns the draft session id, issuing the cookie on first
// contact.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
    if c, err := r.Cookie(draftCookie); err == nil && c.Value != "" {
        return c.Value
    }
    id := uuid.NewString()
    http.SetCookie(w, &http.Cookie{
        Name: draftCookie, Value: id,
        Path: "/", MaxAge: 60 * 60 * 24, HttpOnly: true, SameSite: http.SameSiteLaxMode,
    })
    return id
}

func writeJSON(w http.ResponseWriter, code int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(code)
    if err := json.NewEncoder(w).Encode(v); err != nil {
        log.Error().Err(err).Msg("encoding response failed")
    }
}

func decodeJSON(r *http.Request, v any) error {
    defer r.Body.Close()
    return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
    writeJSON(w, code, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
    if s.checker != nil && !s.checker.Healthy(r.Context()) {
        writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
        return
    }
    writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatusSummary(w http.ResponseWriter, r *http.Request, _ order.Role) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    writeJSON(w, http.StatusOK, s.checker.Summary(r.Context()))
}
