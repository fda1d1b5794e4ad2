package operations

import (
	"fmt"
	"sync"
	"time"
)

// ProgressTracker tracks how many workbooks of a run have been handled
type ProgressTracker struct {
	Step      string
	Total     int
	Current   int
	StartTime time.Time
	Message   string
	mu        sync.Mutex
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(step string, total int) *ProgressTracker {
	return &ProgressTracker{
		Step:      step,
		Total:     total,
		StartTime: time.Now(),
	}
}

// Increment marks one more item as handled and returns the new integer percentage
func (p *ProgressTracker) Increment(message string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Current++
	p.Message = message
	return p.percent()
}

// Percent returns completed*100/total, truncated. An empty run is 100% complete.
func (p *ProgressTracker) Percent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.percent()
}

func (p *ProgressTracker) percent() int {
	if p.Total <= 0 {
		return 100
	}
	return p.Current * 100 / p.Total
}

// GetProgress returns the current progress state
func (p *ProgressTracker) GetProgress() (current, total, percent int, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Current, p.Total, p.percent(), p.Message
}

// GetETA estimates the time remaining from the average time per item
func (p *ProgressTracker) GetETA() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Current == 0 || p.Total == 0 {
		return "calculating..."
	}

	perItem := time.Since(p.StartTime) / time.Duration(p.Current)
	return formatDuration(perItem * time.Duration(p.Total-p.Current))
}

// IsComplete returns true once every item has been handled
func (p *ProgressTracker) IsComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Current >= p.Total
}

// GetElapsedTime returns the elapsed time since start
func (p *ProgressTracker) GetElapsedTime() time.Duration {
	return time.Since(p.StartTime)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0f seconds", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1f minutes", d.Minutes())
	default:
		return fmt.Sprintf("%.1f hours", d.Hours())
	}
}
