package draft

import (
    "github.com/laityfaye/impression/internal/order"
    "github.com/laityfaye/impression/internal/pricing"
)

// Draft is the in-progress order for one customer session. It lives in the
// session store, not in the order collection; submission converts a snapshot
// of it into a persisted order and the draft is then reset.
//
// Invariant: whenever a document is attached, TotalPrice equals
// pricing.OrderTotal(document.pageCount, finishing, correction, copies).
// Every mutator that touches a priced field recomputes it synchronously.
type Draft struct {
    Document          *order.DocumentInfo `json:"document"`
    CorrectionService bool                `json:"correctionService"`
    Finishing         pricing.Finishing   `json:"finishing"`
    Delivery          order.DeliveryType  `json:"delivery"`
    SelectedInstitute string              `json:"selectedInstitute,omitempty"`
    Client            *order.ClientInfo   `json:"client"`
    Copies            int                 `json:"copies"`
    TotalPrice        int                 `json:"totalPrice"`
}

// New returns an empty draft, as created on first visit to the upload step.
func New() Draft {
    return Draft{Copies: 1}
}

func (d *Draft) SetDocument(doc order.DocumentInfo) {
    d.Document = &doc
    d.recalculate()
}

func (d *Draft) SetCorrectionService(v bool) {
    d.CorrectionService = v
    d.recalculate()
}

func (d *Draft) SetFinishing(f pricing.Finishing) {
    d.Finishing = f
    d.recalculate()
}

// SetCopies clamps to [1, 99] before recomputing.
func (d *Draft) SetCopies(n int) {
    if n < 1 {
        n = 1
    } else if n > 99 {
        n = 99
    }
    d.Copies = n
    d.recalculate()
}

// SetDelivery records the delivery choice and client contact. It never
// touches the price.
func (d *Draft) SetDelivery(t order.DeliveryType, instituteID string, client *order.ClientInfo) {
    d.Delivery = t
    d.SelectedInstitute = instituteID
    d.Client = client
}

// Reset restores the initial empty state, used when the customer starts
// over or after a successful submission.
func (d *Draft) Reset() {
    *d = New()
}

func (d *Draft) recalculate() {
    if d.Document == nil {
        return
    }
    copies := d.Copies
    if copies < 1 {
        copies = 1
    }
    d.TotalPrice = pricing.OrderTotal(d.Document.PageCount, d.Finishing, d.CorrectionService, copies)
}
