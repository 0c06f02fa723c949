package parameter

import "time"

// Game Loop & Engine Timing
const (
	// GameUpdateInterval is the game logic update interval (clock tick)
	GameUpdateInterval = 16 * time.Millisecond

	// PhysicsStep is the fixed physics integration step
	PhysicsStep = 16 * time.Millisecond

	// MaxPhysicsSteps caps catch-up steps per tick
	MaxPhysicsSteps = 4
)

// ECS & Resources Limits
const (
	// EventQueueSize is the capacity of the input event ring buffer
	EventQueueSize = 2048

	// LogQueueSize is the async logger's channel capacity
	LogQueueSize = 1024
)
