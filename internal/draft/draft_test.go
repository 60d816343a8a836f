package draft

import (
    "context"
    "testing"
    "time"

    "github.com/laityfaye/impression/internal/order"
    "github.com/laityfaye/impression/internal/pricing"
)

func TestTotalRecomputedOnEveryMutation(t *testing.T) {
    d := New()
    d.SetDocument(order.DocumentInfo{Name: "memoire.pdf", PageCount: 60})
    if d.TotalPrice != 3600 {
        t.Fatalf("after SetDocument: total = %d, want 3600", d.TotalPrice)
    }

    d.SetFinishing(pricing.FinishingBook)
    if d.TotalPrice != 6100 {
        t.Fatalf("after SetFinishing: total = %d, want 6100", d.TotalPrice)
    }

    d.SetCorrectionService(true)
    if d.TotalPrice != 8100 {
        t.Fatalf("after SetCorrectionService: total = %d, want 8100", d.TotalPrice)
    }

    d.SetCopies(2)
    if d.TotalPrice != 16200 {
        t.Fatalf("after SetCopies: total = %d, want 16200", d.TotalPrice)
    }
}

func TestRecalculateIsIdempotent(t *testing.T) {
    d := New()
    d.SetDocument(order.DocumentInfo{PageCount: 30})
    d.SetFinishing(pricing.FinishingSpiral)
    first := d.TotalPrice
    d.recalculate()
    d.recalculate()
    if d.TotalPrice != first {
        t.Fatalf("total drifted from %d to %d without mutation", first, d.TotalPrice)
    }
}

func TestSetDeliveryDoesNotTouchPrice(t *testing.T) {
    d := New()
    d.SetDocument(order.DocumentInfo{PageCount: 20})
    before := d.TotalPrice
    d.SetDelivery(order.DeliveryPartner, "ufr-sante", &order.ClientInfo{Name: "Awa", Phone: "771234567"})
    if d.TotalPrice != before {
        t.Fatalf("SetDelivery changed total from %d to %d", before, d.TotalPrice)
    }
    if d.SelectedInstitute != "ufr-sante" || d.Client == nil {
        t.Fatal("delivery fields not recorded")
    }
}

func TestSetCopiesClamps(t *testing.T) {
    d := New()
    d.SetDocument(order.DocumentInfo{PageCount: 10})
    d.SetCopies(0)
    if d.Copies != 1 {
        t.Fatalf("copies = %d, want clamp to 1", d.Copies)
    }
    d.SetCopies(150)
    if d.Copies != 99 {
        t.Fatalf("copies = %d, want clamp to 99", d.Copies)
    }
}

func TestNoDocumentNoPrice(t *testing.T) {
    d := New()
    d.SetFinishing(pricing.FinishingBook)
    d.SetCopies(5)
    if d.TotalPrice != 0 {
        t.Fatalf("total = %d without a document, want 0", d.TotalPrice)
    }
}

func TestReset(t *testing.T) {
    d := New()
    d.SetDocument(order.DocumentInfo{PageCount: 40})
    d.SetFinishing(pricing.FinishingSpiral)
    d.SetDelivery(order.DeliveryOther, "", &order.ClientInfo{Name: "Moussa", Phone: "770000000"})
    d.Reset()
    if d.Document != nil || d.Finishing != pricing.FinishingNone || d.Client != nil || d.TotalPrice != 0 || d.Copies != 1 {
        t.Fatalf("Reset left state behind: %+v", d)
    }
}

func TestMemoryStoreRoundTrip(t *testing.T) {
    s := NewMemoryStore(time.Hour)
    ctx := context.Background()

    if _, ok, err := s.Get(ctx, "sess1"); err != nil || ok {
        t.Fatalf("fresh session should be absent: ok=%v err=%v", ok, err)
    }

    d := New()
    d.SetDocument(order.DocumentInfo{PageCount: 12})
    if err := s.Save(ctx, "sess1", d); err != nil {
        t.Fatalf("Save: %v", err)
    }
    got, ok, err := s.Get(ctx, "sess1")
    if err != nil || !ok {
        t.Fatalf("Get: ok=%v err=%v", ok, err)
    }
    if got.TotalPrice != d.TotalPrice {
        t.Fatalf("round trip lost total: %d != %d", got.TotalPrice, d.TotalPrice)
    }

    if err := s.Delete(ctx, "sess1"); err != nil {
        t.Fatalf("Delete: %v", err)
    }
    if _, ok, _ := s.Get(ctx, "sess1"); ok {
        t.Fatal("deleted session still present")
    }
}

func TestMemoryStoreExpiry(t *testing.T) {
    s := NewMemoryStore(time.Minute)
    base := time.Now()
    s.now = func() time.Time { return base }
    ctx := context.Background()

    _ = s.Save(ctx, "sess1", New())
    s.now = func() time.Time { return base.Add(2 * time.Minute) }
    if _, ok, _ := s.Get(ctx, "sess1"); ok {
        t.Fatal("expired draft should be absent")
    }
}
