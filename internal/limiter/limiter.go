package limiter

// Inflight caps how many requests run a section concurrently. Page
// estimation parses whole documents in memory, so uploads are the one
// place this guards.
type Inflight struct {
    sem chan struct{}
}

func New(max int) *Inflight {
    if max <= 0 {
        max = 4
    }
    return &Inflight{sem: make(chan struct{}, max)}
}

// Allow tries to reserve a slot. It returns a release function and true,
// or false when the section is at capacity.
func (l *Inflight) Allow() (func(), bool) {
    select {
    case l.sem <- struct{}{}:
        return func() { <-l.sem }, true
    default:
        return func() {}, false
    }
}
