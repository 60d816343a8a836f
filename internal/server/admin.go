package server

import (
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "path/filepath"
    "strings"

    "github.com/rs/zerolog/log"

    "github.com/laityfaye/impression/internal/auth"
    "github.com/laityfaye/impression/internal/institute"
    "github.com/laityfaye/impression/internal/metrics"
    "github.com/laityfaye/impression/internal/order"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    var body struct {
        Password string `json:"password"`
    }
    if err := decodeJSON(r, &body); err != nil {
        writeError(w, http.StatusBadRequest, "Corps de requête invalide")
        return
    }
    role, ok := s.auth.Authenticate(body.Password)
    if !ok {
        metrics.IncLogin("failure")
        log.Warn().Str("remote", r.RemoteAddr).Msg("admin login rejected")
        writeError(w, http.StatusUnauthorized, "Mot de passe incorrect")
        return
    }
    metrics.IncLogin("success")
    auth.IssueSession(w, role)
    log.Info().Str("role", string(role)).Msg("admin logged in")
    writeJSON(w, http.StatusOK, map[string]any{"success": true, "role": role})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    auth.ClearSession(w)
    writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
    role := auth.RoleFromRequest(r)
    if role == order.RoleNone {
        writeJSON(w, http.StatusOK, map[string]any{"role": nil})
        return
    }
    writeJSON(w, http.StatusOK, map[string]any{"role": role})
}

func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request, role order.Role) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    orders, err := s.orders.VisibleTo(role)
    if err != nil {
        writeError(w, http.StatusInternalServerError, "Erreur serveur")
        return
    }
    writeJSON(w, http.StatusOK, orders)
}

// handleAdminOrder serves PATCH (status change or assignment, exclusive)
// and DELETE on a single order.
func (s *Server) handleAdminOrder(w http.ResponseWriter, r *http.Request, role order.Role) {
    id := strings.TrimPrefix(r.URL.Path, "/api/admin/orders/")
    if id == "" || strings.Contains(id, "/") {
        writeError(w, http.StatusNotFound, "Commande non trouvée")
        return
    }
    switch r.Method {
    case http.MethodPatch:
        s.patchOrder(w, r, role, id)
    case http.MethodDelete:
        if err := s.orders.Delete(role, id); err != nil {
            writeOrderError(w, err)
            return
        }
        log.Info().Str("order_id", id).Str("role", string(role)).Msg("order deleted")
        writeJSON(w, http.StatusOK, map[string]bool{"success": true})
    default:
        w.WriteHeader(http.StatusMethodNotAllowed)
    }
}

func (s *Server) patchOrder(w http.ResponseWriter, r *http.Request, role order.Role, id string) {
    var body map[string]json.RawMessage
    if err := decodeJSON(r, &body); err != nil {
        writeError(w, http.StatusBadRequest, "Corps de requête invalide")
        return
    }

    // Assignment and status change are distinct actions; assignment wins
    // when both keys are present, matching how the dashboard calls this.
    if raw, ok := body["assignedTo"]; ok {
        var assignee *string
        if err := json.Unmarshal(raw, &assignee); err != nil {
            writeError(w, http.StatusBadRequest, "Affectation invalide")
            return
        }
        target := order.RoleNone
        if assignee != nil {
            target = order.Role(*assignee)
        }
        o, err := s.orders.Assign(role, id, target)
        if err != nil {
            writeOrderError(w, err)
            return
        }
        log.Info().Str("order_id", id).Str("assignee", string(target)).Msg("order assigned")
        writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": o})
        return
    }

    raw, ok := body["status"]
    if !ok {
        writeError(w, http.StatusBadRequest, "Statut invalide")
        return
    }
    var status order.Status
    if err := json.Unmarshal(raw, &status); err != nil {
        writeError(w, http.StatusBadRequest, "Statut invalide")
        return
    }
    o, err := s.orders.UpdateStatus(id, status)
    if err != nil {
        writeOrderError(w, err)
        return
    }
    metrics.IncStatusTransition(string(status))
    log.Info().Str("order_id", id).Str("status", string(status)).Msg("order status updated")
    writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": o})
}

func writeOrderError(w http.ResponseWriter, err error) {
    switch {
    case errors.Is(err, order.ErrForbidden):
        writeError(w, http.StatusForbidden, "Réservé Super Admin")
    case errors.Is(err, order.ErrNotFound):
        writeError(w, http.StatusNotFound, "Commande non trouvée")
    case errors.Is(err, order.ErrInvalidAssignee):
        writeError(w, http.StatusBadRequest, "Affectation invalide")
    case errors.Is(err, order.ErrInvalidStatus):
        writeError(w, http.StatusBadRequest, "Statut invalide")
    default:
        metrics.IncStoreWriteFailure()
        writeError(w, http.StatusInternalServerError, "Erreur serveur")
    }
}

func (s *Server) handleAdminInstitutes(w http.ResponseWriter, r *http.Request, role order.Role) {
    switch r.Method {
    case http.MethodGet:
        list, err := s.institutes.List()
        if err != nil {
            writeError(w, http.StatusInternalServerError, "Erreur serveur")
            return
        }
        writeJSON(w, http.StatusOK, list)
    case http.MethodPost:
        if role != order.RoleSuperAdmin {
            writeError(w, http.StatusForbidden, "Réservé Super Admin")
            return
        }
        var body struct {
            Name string `json:"name"`
        }
        if err := decodeJSON(r, &body); err != nil {
            writeError(w, http.StatusBadRequest, "Corps de requête invalide")
            return
        }
        inst, err := s.institutes.Create(body.Name)
        if err != nil {
            switch {
            case errors.Is(err, institute.ErrEmptyName):
                writeError(w, http.StatusBadRequest, "Nom de l'institut requis")
            case errors.Is(err, institute.ErrConflict):
                writeError(w, http.StatusConflict, "Cet institut existe déjà")
            default:
                writeError(w, http.StatusInternalServerError, "Erreur serveur")
            }
            return
        }
        log.Info().Str("institute", inst.ID).Msg("institute created")
        writeJSON(w, http.StatusCreated, inst)
    default:
        w.WriteHeader(http.StatusMethodNotAllowed)
    }
}

func (s *Server) handleAdminInstitute(w http.ResponseWriter, r *http.Request, role order.Role) {
    if r.Method != http.MethodDelete {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    if role != order.RoleSuperAdmin {
        writeError(w, http.StatusForbidden, "Réservé Super Admin")
        return
    }
    id := strings.TrimPrefix(r.URL.Path, "/api/admin/institutes/")
    if err := s.institutes.Delete(id); err != nil {
        if errors.Is(err, institute.ErrNotFound) {
            writeError(w, http.StatusNotFound, "Institut non trouvé")
            return
        }
        writeError(w, http.StatusInternalServerError, "Erreur serveur")
        return
    }
    log.Info().Str("institute", id).Msg("institute deleted")
    writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleDownload streams a stored upload to staff, inline when ?view=1.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request, _ order.Role) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    name := filepath.Base(strings.TrimPrefix(r.URL.Path, "/api/admin/download/"))
    if name == "" || name == "." || name == "/" {
        writeError(w, http.StatusBadRequest, "Fichier invalide")
        return
    }
    data, err := s.files.Read(r.Context(), name)
    if err != nil {
        writeError(w, http.StatusNotFound, "Fichier introuvable")
        return
    }

    disposition := "attachment"
    if r.URL.Query().Get("view") == "1" {
        disposition = "inline"
    }
    w.Header().Set("Content-Type", contentTypeFor(name))
    w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, name))
    w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(data)
}

func contentTypeFor(name string) string {
    switch strings.ToLower(filepath.Ext(name)) {
    case ".pdf":
        return "application/pdf"
    case ".docx":
        return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
    case ".doc":
        return "application/msword"
    default:
        return "application/octet-stream"
    }
}
