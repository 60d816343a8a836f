package pricing

import "testing"

func TestPricePerPageThreshold(t *testing.T) {
    cases := []struct {
        pages int
        want  int
    }{
        {10, 80},
        {49, 80},
        {50, 80},
        {51, 60},
        {200, 60},
    }
    for _, c := range cases {
        if got := PricePerPage(c.pages); got != c.want {
            t.Errorf("PricePerPage(%d) = %d, want %d", c.pages, got, c.want)
        }
    }
}

func TestFinishingFee(t *testing.T) {
    if got := FinishingFee(FinishingNone); got != 0 {
        t.Errorf("no finishing should be free, got %d", got)
    }
    if got := FinishingFee(FinishingSpiral); got != 350 {
        t.Errorf("spiral binding fee = %d, want 350", got)
    }
    if got := FinishingFee(FinishingBook); got != 2500 {
        t.Errorf("book binding fee = %d, want 2500", got)
    }
}

func TestOrderTotalScenario(t *testing.T) {
    // 60-page document, book binding, correction service, 2 copies.
    if got := PrintingCost(60); got != 3600 {
        t.Fatalf("PrintingCost(60) = %d, want 3600", got)
    }
    if got := UnitTotal(60, FinishingBook, true); got != 8100 {
        t.Fatalf("UnitTotal = %d, want 8100", got)
    }
    if got := OrderTotal(60, FinishingBook, true, 2); got != 16200 {
        t.Fatalf("OrderTotal = %d, want 16200", got)
    }
}

func TestOrderTotalFormula(t *testing.T) {
    cases := []struct {
        pages      int
        finishing  Finishing
        correction bool
        copies     int
    }{
        {10, FinishingNone, false, 1},
        {50, FinishingSpiral, false, 3},
        {51, FinishingBook, true, 1},
        {120, FinishingSpiral, true, 99},
    }
    for _, c := range cases {
        want := c.copies * (c.pages*PricePerPage(c.pages) + FinishingFee(c.finishing) + boolFee(c.correction))
        if got := OrderTotal(c.pages, c.finishing, c.correction, c.copies); got != want {
            t.Errorf("OrderTotal(%d,%q,%v,%d) = %d, want %d", c.pages, c.finishing, c.correction, c.copies, got, want)
        }
    }
}

func boolFee(b bool) int {
    if b {
        return CorrectionServicePrice
    }
    return 0
}

func TestOrderTotalClampsCopies(t *testing.T) {
    if got, want := OrderTotal(10, FinishingNone, false, 0), UnitTotal(10, FinishingNone, false); got != want {
        t.Errorf("copies=0 should price as one copy: got %d, want %d", got, want)
    }
}

func TestFormatPrice(t *testing.T) {
    cases := map[int]string{
        0:       "0 FCFA",
        800:     "800 FCFA",
        3600:    "3 600 FCFA",
        16200:   "16 200 FCFA",
        1234567: "1 234 567 FCFA",
    }
    for amount, want := range cases {
        if got := FormatPrice(amount); got != want {
            t.Errorf("FormatPrice(%d) = %q, want %q", amount, got, want)
        }
    }
}
