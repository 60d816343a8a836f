package auth

import (
    "net/http"

    "github.com/rs/zerolog/log"
    "golang.org/x/crypto/bcrypt"

    "github.com/laityfaye/impression/internal/order"
)

const (
    sessionCookie = "admin-session"
    roleCookie    = "admin-role"
    sessionValue  = "authenticated"
    sessionMaxAge = 60 * 60 * 24
)

// Service authenticates staff by shared password, one per role. Passwords
// come from the environment and are held only as bcrypt hashes.
type Service struct {
    hashes map[order.Role][]byte
}

// Passwords carries the plaintext role passwords loaded from config.
type Passwords struct {
    Admin1     string
    Admin2     string
    SuperAdmin string
}

func NewService(p Passwords) *Service {
    s := &Service{hashes: make(map[order.Role][]byte)}
    for role, pw := range map[order.Role]string{
        order.RoleAdmin1:     p.Admin1,
        order.RoleAdmin2:     p.Admin2,
        order.RoleSuperAdmin: p.SuperAdmin,
    } {
        if pw == "" {
            continue
        }
        h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
        if err != nil {
            log.Error().Err(err).Str("role", string(role)).Msg("hashing role password failed, role disabled")
            continue
        }
        s.hashes[role] = h
    }
    return s
}

// Authenticate maps a password to a staff role. The super admin password is
// checked first so a shared prefix cannot shadow it.
func (s *Service) Authenticate(password string) (order.Role, bool) {
    for _, role := range []order.Role{order.RoleSuperAdmin, order.RoleAdmin1, order.RoleAdmin2} {
        h, ok := s.hashes[role]
        if !ok {
            continue
        }
        if bcrypt.CompareHashAndPassword(h, []byte(password)) == nil {
            return role, true
        }
    }
    return order.RoleNone, false
}

// IssueSession sets the session cookies for an authenticated role.
func IssueSession(w http.ResponseWriter, role order.Role) {
    http.SetCookie(w, &http.Cookie{
        Name: sessionCookie, Value: sessionValue,
        Path: "/", MaxAge: sessionMaxAge, HttpOnly: true, SameSite: http.SameSiteLaxMode,
    })
    http.SetCookie(w, &http.Cookie{
        Name: roleCookie, Value: string(role),
        Path: "/", MaxAge: sessionMaxAge, HttpOnly: true, SameSite: http.SameSiteLaxMode,
    })
}

// ClearSession expires both session cookies.
func ClearSession(w http.ResponseWriter) {
    for _, name := range []string{sessionCookie, roleCookie} {
        http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
    }
}

// RoleFromRequest reads the caller's role from the session cookies.
// RoleNone means unauthenticated.
func RoleFromRequest(r *http.Request) order.Role {
    c, err := r.Cookie(sessionCookie)
    if err != nil || c.Value != sessionValue {
        return order.RoleNone
    }
    rc, err := r.Cookie(roleCookie)
    if err != nil {
        return order.RoleNone
    }
    switch role := order.Role(rc.Value); role {
    case order.RoleAdmin1, order.RoleAdmin2, order.RoleSuperAdmin:
        return role
    default:
        return order.RoleNone
    }
}
