package engine

import (
	"sync"
	"time"
)

// PausableClock measures game time, which stops advancing while paused
type PausableClock struct {
	mu sync.Mutex

	source      TimeProvider
	start       time.Time
	paused      bool
	pauseStart  time.Time
	totalPaused time.Duration
	lastTick    time.Duration // game elapsed at the previous Tick
}

// NewPausableClock creates a running clock; a nil source reads the system clock
func NewPausableClock(source TimeProvider) *PausableClock {
	if source == nil {
		source = NewMonotonicTimeProvider()
	}
	return &PausableClock{source: source, start: source.Now()}
}

// Elapsed returns game time since creation, frozen while paused
func (pc *PausableClock) Elapsed() time.Duration {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.elapsedLocked()
}

func (pc *PausableClock) elapsedLocked() time.Duration {
	now := pc.source.Now()
	if pc.paused {
		now = pc.pauseStart
	}
	return now.Sub(pc.start) - pc.totalPaused
}

// Tick returns game time elapsed since the previous Tick
func (pc *PausableClock) Tick() time.Duration {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	now := pc.elapsedLocked()
	dt := now - pc.lastTick
	pc.lastTick = now
	return dt
}

// Pause stops game time advancement; pausing twice is a no-op
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused {
		return
	}
	pc.paused = true
	pc.pauseStart = pc.source.Now()
}

// Resume continues game time advancement
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.paused {
		return
	}
	pc.totalPaused += pc.source.Now().Sub(pc.pauseStart)
	pc.paused = false
	pc.pauseStart = time.Time{}
}

// Toggle flips the pause state and returns the new state
func (pc *PausableClock) Toggle() bool {
	if pc.IsPaused() {
		pc.Resume()
		return false
	}
	pc.Pause()
	return true
}

func (pc *PausableClock) IsPaused() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.paused
}

// TotalPauseDuration includes the current pause, if any
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	total := pc.totalPaused
	if pc.paused {
		total += pc.source.Now().Sub(pc.pauseStart)
	}
	return total
}
