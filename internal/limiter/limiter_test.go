package limiter

import "testing"

func TestAllowUpToCapacity(t *testing.T) {
    l := New(2)

    r1, ok := l.Allow()
    if !ok {
        t.Fatal("first slot denied")
    }
    _, ok = l.Allow()
    if !ok {
        t.Fatal("second slot denied")
    }
    if _, ok := l.Allow(); ok {
        t.Fatal("slot granted over capacity")
    }

    r1()
    if _, ok := l.Allow(); !ok {
        t.Fatal("released slot not reusable")
    }
}

func TestZeroMaxGetsDefault(t *testing.T) {
    l := New(0)
    for i := 0; i < 4; i++ {
        if _, ok := l.Allow(); !ok {
            t.Fatalf("slot %d denied under default capacity", i)
        }
    }
    if _, ok := l.Allow(); ok {
        t.Fatal("default capacity not enforced")
    }
}
