package order

import (
    "fmt"
    "math/rand"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog/log"

    "github.com/laityfaye/impression/internal/pricing"
)

// Repo is the whole-collection persistence contract the service needs.
// *store.Store satisfies it.
type Repo interface {
    Orders() ([]Order, error)
    SaveOrders([]Order) error
}

// FileRemover deletes a stored upload by its saved name. Used for the
// best-effort cascade when an order is deleted.
type FileRemover interface {
    Remove(savedFileName string) error
}

// Service owns every order mutation and the role-scoped reads.
type Service struct {
    repo  Repo
    files FileRemover

    now       func() time.Time
    newID     func() string
    genNumber func() string
}

func NewService(repo Repo, files FileRemover) *Service {
    return &Service{
        repo:      repo,
        files:     files,
        now:       time.Now,
        newID:     uuid.NewString,
        genNumber: randomOrderNumber,
    }
}

func randomOrderNumber() string {
    return fmt.Sprintf("%06d", rand.Intn(900000)+100000)
}

// CreateInput is the submission payload read from a finalized draft.
type CreateInput struct {
    OrderNumber       string
    Document          DocumentInfo
    Client            *ClientInfo
    CorrectionService bool
    Finishing         pricing.Finishing
    Delivery          DeliveryType
    SelectedInstitute string
    Copies            int
}

// Create persists a new order with status pending and no assignee. The
// total is recomputed server-side so a tampered draft cannot underpay, and
// the order number is made unique against the existing collection,
// regenerating on collision.
func (s *Service) Create(in CreateInput) (Order, error) {
    orders, err := s.repo.Orders()
    if err != nil {
        return Order{}, err
    }

    copies := in.Copies
    if copies < 1 {
        copies = 1
    } else if copies > 99 {
        copies = 99
    }

    number := in.OrderNumber
    if number == "" || len(number) != 6 || numberTaken(orders, number) {
        number = s.uniqueNumber(orders)
    }

    o := Order{
        ID:                s.newID(),
        OrderNumber:       number,
        Document:          in.Document,
        Client:            in.Client,
        CorrectionService: in.CorrectionService,
        Finishing:         in.Finishing,
        Delivery:          in.Delivery,
        SelectedInstitute: in.SelectedInstitute,
        Copies:            copies,
        TotalPrice:        pricing.OrderTotal(in.Document.PageCount, in.Finishing, in.CorrectionService, copies),
        Status:            StatusPending,
        AssignedTo:        RoleNone,
        CreatedAt:         s.now(),
    }

    // Newest first, matching how staff read the queue.
    orders = append([]Order{o}, orders...)
    if err := s.repo.SaveOrders(orders); err != nil {
        return Order{}, err
    }
    return o, nil
}

func numberTaken(orders []Order, number string) bool {
    for _, o := range orders {
        if o.OrderNumber == number {
            return true
        }
    }
    return false
}

func (s *Service) uniqueNumber(orders []Order) string {
    for i := 0; i < 50; i++ {
        n := s.genNumber()
        if !numberTaken(orders, n) {
            return n
        }
    }
    // The 6-digit space is effectively exhausted; widen rather than loop.
    return fmt.Sprintf("%06d%02d", rand.Intn(900000)+100000, rand.Intn(100))
}

// UpdateStatus moves an order to newStatus. Legality is delegated entirely
// to CanTransition.
func (s *Service) UpdateStatus(id string, newStatus Status) (Order, error) {
    if !ValidStatus(newStatus) {
        return Order{}, fmt.Errorf("status %q: %w", newStatus, ErrInvalidStatus)
    }
    orders, err := s.repo.Orders()
    if err != nil {
        return Order{}, err
    }
    idx := indexByID(orders, id)
    if idx < 0 {
        return Order{}, ErrNotFound
    }
    if !CanTransition(orders[idx].Status, newStatus) {
        return Order{}, fmt.Errorf("transition %q -> %q: %w", orders[idx].Status, newStatus, ErrInvalidStatus)
    }
    orders[idx].Status = newStatus
    if err := s.repo.SaveOrders(orders); err != nil {
        return Order{}, err
    }
    return orders[idx], nil
}

// Assign sets or clears an order's assignee. Reserved for the super admin.
func (s *Service) Assign(caller Role, id string, assignee Role) (Order, error) {
    if caller != RoleSuperAdmin {
        return Order{}, ErrForbidden
    }
    if !ValidAssignee(assignee) {
        return Order{}, fmt.Errorf("assignee %q: %w", assignee, ErrInvalidAssignee)
    }
    orders, err := s.repo.Orders()
    if err != nil {
        return Order{}, err
    }
    idx := indexByID(orders, id)
    if idx < 0 {
        return Order{}, ErrNotFound
    }
    orders[idx].AssignedTo = assignee
    if err := s.repo.SaveOrders(orders); err != nil {
        return Order{}, err
    }
    return orders[idx], nil
}

// VisibleTo returns the orders a caller may read: everything for the super
// admin, own assignments for regular staff, nothing otherwise.
func (s *Service) VisibleTo(caller Role) ([]Order, error) {
    switch caller {
    case RoleSuperAdmin:
        return s.repo.Orders()
    case RoleAdmin1, RoleAdmin2:
        orders, err := s.repo.Orders()
        if err != nil {
            return nil, err
        }
        visible := []Order{}
        for _, o := range orders {
            if o.AssignedTo == caller {
                visible = append(visible, o)
            }
        }
        return visible, nil
    default:
        return []Order{}, nil
    }
}

// Delete removes an order and attempts to remove its uploaded file. The
// file removal is best effort: failure is logged and never fails the
// deletion itself.
func (s *Service) Delete(caller Role, id string) error {
    if caller != RoleSuperAdmin {
        return ErrForbidden
    }
    orders, err := s.repo.Orders()
    if err != nil {
        return err
    }
    idx := indexByID(orders, id)
    if idx < 0 {
        return ErrNotFound
    }
    if name := orders[idx].Document.SavedFileName; name != "" && s.files != nil {
        if err := s.files.Remove(name); err != nil {
            log.Warn().Err(err).Str("file", name).Str("order_id", id).Msg("orphaned upload file left behind")
        }
    }
    return s.repo.SaveOrders(append(orders[:idx], orders[idx+1:]...))
}

func indexByID(orders []Order, id string) int {
    for i, o := range orders {
        if o.ID == id {
            return i
        }
    }
    return -1
}
