package engine

import "time"

// FixedStep converts variable frame deltas into a whole number of fixed steps
type FixedStep struct {
	Step     time.Duration
	MaxSteps int // per Advance; excess time is dropped to avoid a spiral of death

	acc time.Duration
}

func NewFixedStep(step time.Duration, maxSteps int) *FixedStep {
	if maxSteps <= 0 {
		maxSteps = 1
	}
	return &FixedStep{Step: step, MaxSteps: maxSteps}
}

// Advance accumulates dt and returns how many steps to run now
func (f *FixedStep) Advance(dt time.Duration) int {
	if f.Step <= 0 || dt <= 0 {
		return 0
	}
	f.acc += dt
	n := int(f.acc / f.Step)
	if n > f.MaxSteps {
		n = f.MaxSteps
		f.acc = 0
		return n
	}
	f.acc -= time.Duration(n) * f.Step
	return n
}

// Alpha is the fraction of a step left in the accumulator, for interpolation
func (f *FixedStep) Alpha() float64 {
	if f.Step <= 0 {
		return 0
	}
	return float64(f.acc) / float64(f.Step)
}

func (f *FixedStep) Reset() {
	f.acc = 0
}
