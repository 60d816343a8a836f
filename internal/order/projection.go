package order

import (
    "time"

    "github.com/laityfaye/impression/internal/pricing"
)

// PublicOrder is the reduced projection served for public lookup by order
// number. It must never carry the client identity, the internal id or the
// staff assignment.
type PublicOrder struct {
    OrderNumber       string       `json:"orderNumber"`
    CreatedAt         time.Time    `json:"createdAt"`
    Status            Status       `json:"status"`
    StatusLabel       string       `json:"statusLabel"`
    StatusDescription string       `json:"statusDescription"`
    PageCount         int          `json:"pageCount"`
    Finishing         string       `json:"finishing,omitempty"`
    CorrectionService bool         `json:"correctionService"`
    Delivery          DeliveryType `json:"delivery,omitempty"`
    TotalPrice        int          `json:"totalPrice"`
}

// Lookup finds an order by its 6-digit number and projects it for the
// customer tracking page.
func (s *Service) Lookup(orderNumber string) (PublicOrder, error) {
    orders, err := s.repo.Orders()
    if err != nil {
        return PublicOrder{}, err
    }
    for _, o := range orders {
        if o.OrderNumber == orderNumber {
            return project(o), nil
        }
    }
    return PublicOrder{}, ErrNotFound
}

func project(o Order) PublicOrder {
    label, desc := StatusLabel(o.Status)
    finishing := ""
    if o.Finishing != pricing.FinishingNone {
        finishing = pricing.FinishingLabel(o.Finishing)
    }
    return PublicOrder{
        OrderNumber:       o.OrderNumber,
        CreatedAt:         o.CreatedAt,
        Status:            o.Status,
        StatusLabel:       label,
        StatusDescription: desc,
        PageCount:         o.Document.PageCount,
        Finishing:         finishing,
        CorrectionService: o.CorrectionService,
        Delivery:          o.Delivery,
        TotalPrice:        o.TotalPrice,
    }
}
