package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTimeProviderAdvance(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)
	assert.True(t, mock.Now().Equal(start))

	mock.Advance(time.Hour)
	assert.True(t, mock.Now().Equal(start.Add(time.Hour)))
}

func TestMonotonicTimeProviderMovesForward(t *testing.T) {
	p := NewMonotonicTimeProvider()
	t1 := p.Now()
	time.Sleep(time.Millisecond)
	assert.True(t, p.Now().After(t1))
}

type dtRecorder struct {
	dts []time.Duration
}

func (r *dtRecorder) Update(_ *World, dt time.Duration) { r.dts = append(r.dts, dt) }
func (r *dtRecorder) Priority() int                     { return 0 }

func TestLoopStepUsesGameTime(t *testing.T) {
	src := NewMockTimeProvider(time.Unix(0, 0))
	w := NewWorld(nil)
	rec := &dtRecorder{}
	w.AddSystem(rec)

	var after []time.Duration
	l := &Loop{World: w, Clock: NewPausableClock(src), Tick: time.Millisecond,
		AfterUpdate: func(dt time.Duration) { after = append(after, dt) }}

	src.Advance(16 * time.Millisecond)
	l.Step()
	l.Clock.Pause()
	src.Advance(time.Second)
	l.Step()

	assert.Equal(t, []time.Duration{16 * time.Millisecond, 0}, rec.dts)
	assert.Equal(t, rec.dts, after)
	assert.Equal(t, int64(2), w.Frame())
}

func TestLoopRunStopsOnCancel(t *testing.T) {
	w := NewWorld(nil)
	l := &Loop{World: w, Clock: NewPausableClock(NewMonotonicTimeProvider()), Tick: time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := l.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, w.Frame())
}
