package pricing

import (
    "fmt"
    "strconv"
)

// All amounts are integer FCFA. No fractional currency anywhere.

const (
    // MinPages is the smallest document we accept for printing.
    MinPages = 10

    // PriceThreshold: documents up to this many pages pay the low-volume
    // rate, longer ones get the volume discount.
    PriceThreshold = 50

    PricePerPageLow  = 80 // FCFA, 10 to 50 pages
    PricePerPageHigh = 60 // FCFA, above 50 pages

    CorrectionServicePrice = 2000
)

// Finishing identifies the finishing option chosen for an order.
type Finishing string

const (
    FinishingNone   Finishing = ""
    FinishingSpiral Finishing = "reliure"
    FinishingBook   Finishing = "livre"
)

var finishingPrices = map[Finishing]int{
    FinishingNone:   0,
    FinishingSpiral: 350,
    FinishingBook:   2500,
}

var finishingLabels = map[Finishing]string{
    FinishingSpiral: "Reliure spirale",
    FinishingBook:   "Format Livre",
}

// ValidFinishing reports whether f is a known finishing option.
func ValidFinishing(f Finishing) bool {
    _, ok := finishingPrices[f]
    return ok
}

// FinishingLabel returns the display name for a finishing option.
// Unknown values come back unchanged so stale stored orders still render.
func FinishingLabel(f Finishing) string {
    if l, ok := finishingLabels[f]; ok {
        return l
    }
    return string(f)
}

// PricePerPage returns the unit rate for a document of pageCount pages.
func PricePerPage(pageCount int) int {
    if pageCount <= PriceThreshold {
        return PricePerPageLow
    }
    return PricePerPageHigh
}

// PrintingCost is the raw printing price before any finishing or service fee.
func PrintingCost(pageCount int) int {
    return pageCount * PricePerPage(pageCount)
}

// FinishingFee returns the fixed fee for the chosen finishing. Unknown
// options cost nothing.
func FinishingFee(f Finishing) int {
    return finishingPrices[f]
}

// UnitTotal is the price of a single copy.
func UnitTotal(pageCount int, f Finishing, correctionService bool) int {
    total := PrintingCost(pageCount) + FinishingFee(f)
    if correctionService {
        total += CorrectionServicePrice
    }
    return total
}

// OrderTotal is the full order price. Copies below 1 count as 1.
func OrderTotal(pageCount int, f Finishing, correctionService bool, copies int) int {
    if copies < 1 { copies = 1 }
    return UnitTotal(pageCount, f, correctionService) * copies
}

// FormatPrice renders an amount for display, with thousands separators the
// way the fr-SN locale groups digits.
func FormatPrice(amount int) string {
    s := strconv.Itoa(amount)
    neg := false
    if len(s) > 0 && s[0] == '-' {
        neg = true
        s = s[1:]
    }
    var out []byte
    for i, c := range []byte(s) {
        if i > 0 && (len(s)-i)%3 == 0 {
            out = append(out, ' ')
        }
        out = append(out, c)
    }
    if neg {
        return fmt.Sprintf("-%s FCFA", out)
    }
    return fmt.Sprintf("%s FCFA", out)
}
