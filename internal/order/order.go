package order

import (
    "errors"
    "regexp"
    "strings"
    "time"

    "github.com/laityfaye/impression/internal/pricing"
)

// Status is an order's position in the staff pipeline.
type Status string

const (
    StatusPending    Status = "pending"
    StatusProcessing Status = "processing"
    StatusReady      Status = "ready"
    StatusDelivered  Status = "delivered"
)

// Role identifies an authenticated staff member. The empty role is an
// unauthenticated caller.
type Role string

const (
    RoleNone       Role = ""
    RoleAdmin1     Role = "admin1"
    RoleAdmin2     Role = "admin2"
    RoleSuperAdmin Role = "superadmin"
)

// DeliveryType records how the customer wants the order handed over.
type DeliveryType string

const (
    DeliveryUnset   DeliveryType = ""
    DeliveryPartner DeliveryType = "partner"
    DeliveryOther   DeliveryType = "other"
)

var (
    ErrInvalidStatus   = errors.New("invalid order status")
    ErrInvalidAssignee = errors.New("invalid assignee")
    ErrForbidden       = errors.New("forbidden")
    ErrNotFound        = errors.New("order not found")
)

// DocumentInfo describes the uploaded document attached to an order.
type DocumentInfo struct {
    Name          string   `json:"name"`
    PageCount     int      `json:"pageCount"`
    HasIssues     bool     `json:"hasIssues"`
    IssueDetails  []string `json:"issueDetails,omitempty"`
    SavedFileName string   `json:"savedFileName,omitempty"`
}

// ClientInfo is collected at the delivery step for non-partner handover.
type ClientInfo struct {
    Name  string `json:"name"`
    Phone string `json:"phone"`
}

var nonDigit = regexp.MustCompile(`\D`)

// ValidPhone reports whether p is a Senegalese mobile number: nine digits
// with a 70/75/76/77/78 prefix, the 221 country code optional.
func ValidPhone(p string) bool {
    digits := nonDigit.ReplaceAllString(p, "")
    digits = strings.TrimPrefix(digits, "221")
    if len(digits) != 9 {
        return false
    }
    switch digits[:2] {
    case "70", "75", "76", "77", "78":
        return true
    }
    return false
}

// ValidClient checks the contact block collected at the delivery step.
func ValidClient(c ClientInfo) bool {
    return strings.TrimSpace(c.Name) != "" && ValidPhone(c.Phone)
}

// Order is the persisted record created when a draft is submitted. Customers
// never mutate it after creation; only staff actions do.
type Order struct {
    ID                string            `json:"id"`
    OrderNumber       string            `json:"orderNumber"`
    Document          DocumentInfo      `json:"document"`
    Client            *ClientInfo       `json:"client"`
    CorrectionService bool              `json:"correctionService"`
    Finishing         pricing.Finishing `json:"finishing"`
    Delivery          DeliveryType      `json:"delivery"`
    SelectedInstitute string            `json:"selectedInstitute,omitempty"`
    Copies            int               `json:"copies"`
    TotalPrice        int               `json:"totalPrice"`
    Status            Status            `json:"status"`
    AssignedTo        Role              `json:"assignedTo,omitempty"`
    CreatedAt         time.Time         `json:"createdAt"`
}

// ValidStatus reports whether s is one of the four pipeline statuses.
func ValidStatus(s Status) bool {
    switch s {
    case StatusPending, StatusProcessing, StatusReady, StatusDelivered:
        return true
    }
    return false
}

// CanTransition is the single legality check for status changes. Staff may
// currently move an order between any two known statuses, reverts included;
// tightening to forward-only is a change to this function alone.
func CanTransition(from, to Status) bool {
    return ValidStatus(from) && ValidStatus(to)
}

// ValidAssignee reports whether r can be the target of an assignment.
// Only the two regular staff roles take assignments; RoleNone clears one.
func ValidAssignee(r Role) bool {
    return r == RoleNone || r == RoleAdmin1 || r == RoleAdmin2
}

type statusInfo struct {
    label       string
    description string
}

var statusLabels = map[Status]statusInfo{
    StatusPending:    {"En attente", "Votre commande a été reçue et est en attente de traitement."},
    StatusProcessing: {"En cours d'impression", "Votre document est en cours d'impression."},
    StatusReady:      {"Prête", "Votre commande est prête. Vous pouvez la récupérer."},
    StatusDelivered:  {"Livrée", "Votre commande a été livrée."},
}

// StatusLabel returns the customer-facing label and description for a
// status. Unknown stored values display as pending.
func StatusLabel(s Status) (label, description string) {
    info, ok := statusLabels[s]
    if !ok {
        info = statusLabels[StatusPending]
    }
    return info.label, info.description
}
