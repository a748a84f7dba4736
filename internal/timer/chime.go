package timer

import (
	"io"
	"sync"
	"time"
)

// Chime is the audible cue played when a countdown completes.
type Chime interface {
	Ring()
}

// NoopChime plays nothing.
type NoopChime struct{}

func (NoopChime) Ring() {}

// BellChime rings the terminal bell a fixed number of times.
type BellChime struct {
	mu    sync.Mutex
	w     io.Writer
	count int
	gap   time.Duration
	sleep func(time.Duration)
}

// NewBellChime returns a three-strike bell writing to w.
func NewBellChime(w io.Writer) *BellChime {
	return &BellChime{w: w, count: 3, gap: 400 * time.Millisecond, sleep: time.Sleep}
}

// WithGap sets the pause between strikes.
func (b *BellChime) WithGap(d time.Duration) *BellChime {
	b.gap = d
	return b
}

func (b *BellChime) Ring() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := 0; i < b.count; i++ {
		if i > 0 && b.gap > 0 {
			b.sleep(b.gap)
		}
		_, _ = io.WriteString(b.w, "\a")
	}
}
