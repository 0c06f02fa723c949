package parameter

// System Execution Priorities (lower runs first)
const (
	PriorityInput     = 10 // Before scripts so actions reflect this tick's keys
	PriorityScript    = 20
	PriorityPhysics   = 30 // After scripts set velocities
	PriorityAnimation = 40
	PriorityRender    = 1000 // Always last
)
