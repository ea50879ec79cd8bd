// Package clock supplies the current logical time to the ledger.
//
// All ledger arithmetic works in whole seconds, so every Clock truncates to
// second resolution and reports UTC.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time { return time.Now().UTC().Truncate(time.Second) }

// Fixed is a manually driven clock for tests and replays.
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixed(t time.Time) *Fixed { return &Fixed{t: t.UTC().Truncate(time.Second)} }

// Unix returns a Fixed clock positioned at the given unix second.
func Unix(sec int64) *Fixed { return NewFixed(time.Unix(sec, 0)) }

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.t = t.UTC().Truncate(time.Second)
	f.mu.Unlock()
}

func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d).Truncate(time.Second)
	f.mu.Unlock()
}
