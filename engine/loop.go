package engine

import (
	"context"
	"time"
)

// Loop drives a World at a fixed tick rate from game time
type Loop struct {
	World *World
	Clock *PausableClock
	Tick  time.Duration

	// AfterUpdate runs after each world update, inside the update lock
	AfterUpdate func(dt time.Duration)
}

// Run ticks until ctx is done
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.Tick)
	defer ticker.Stop()
	l.Clock.Tick()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step()
		}
	}
}

// Step runs one update with the game time elapsed since the previous step
func (l *Loop) Step() {
	dt := l.Clock.Tick()
	l.World.RunSafe(func() {
		l.World.UpdateLocked(dt)
		if l.AfterUpdate != nil {
			l.AfterUpdate(dt)
		}
	})
}
