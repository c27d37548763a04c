// Package progress draws a one-line spinner with a counter for long-running
// commands.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Interval is the redraw period.
var Interval = 100 * time.Millisecond

var spinner = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type ProgressTracker struct {
	w         io.Writer
	total     int
	current   int
	message   string
	mu        sync.Mutex
	startTime time.Time
	done      chan struct{}
	finished  chan struct{}
	once      sync.Once
}

// NewProgress starts drawing to w until Finish is called.
func NewProgress(w io.Writer, total int, message string) *ProgressTracker {
	p := &ProgressTracker{
		w:         w,
		total:     total,
		message:   message,
		startTime: time.Now(),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
	}
	go p.render()
	return p
}

func (p *ProgressTracker) render() {
	defer close(p.finished)
	ticker := time.NewTicker(Interval)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-p.done:
			p.mu.Lock()
			elapsed := time.Since(p.startTime)
			fmt.Fprintf(p.w, "\r✓ %s (%d/%d, %s)          \n",
				p.message, p.current, p.total, elapsed.Round(time.Millisecond))
			p.mu.Unlock()
			return

		case <-ticker.C:
			p.mu.Lock()
			if p.total > 0 {
				percent := float64(p.current) / float64(p.total) * 100
				fmt.Fprintf(p.w, "\r%s %s [%d/%d] %.0f%%  ",
					spinner[frame%len(spinner)], p.message, p.current, p.total, percent)
			} else {
				fmt.Fprintf(p.w, "\r%s %s [%d]  ",
					spinner[frame%len(spinner)], p.message, p.current)
			}
			p.mu.Unlock()
			frame++
		}
	}
}

func (p *ProgressTracker) Increment() {
	p.mu.Lock()
	p.current++
	p.mu.Unlock()
}

func (p *ProgressTracker) SetCurrent(n int) {
	p.mu.Lock()
	p.current = n
	p.mu.Unlock()
}

// Finish draws the final line and returns once nothing more is written.
func (p *ProgressTracker) Finish() {
	p.once.Do(func() { close(p.done) })
	<-p.finished
}
