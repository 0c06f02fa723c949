package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentManager() *SoundManager {
	return NewSoundManager(Config{Enabled: false}, nil)
}

// TestSilentPlayback verifies playback state is tracked without a speaker
func TestSilentPlayback(t *testing.T) {
	sm := silentManager()
	require.NoError(t, sm.Initialize())
	assert.True(t, sm.Silent())

	require.NoError(t, sm.Play("chime", true, 1))
	assert.True(t, sm.Playing("chime"))
	sm.Stop("chime")
	assert.False(t, sm.Playing("chime"))

	require.NoError(t, sm.Play("buzz", false, 1))
	assert.False(t, sm.Playing("buzz"), "one-shots finish immediately when silent")

	assert.ErrorIs(t, sm.Play("nope", false, 1), ErrUnknownTrack)
	sm.Stop("nope")
	sm.Cleanup()
}

func TestMusicReplacesPrevious(t *testing.T) {
	sm := silentManager()
	require.NoError(t, sm.PlayMusic("drone"))
	assert.Equal(t, "drone", sm.Music())
	assert.True(t, sm.Playing("drone"))

	require.NoError(t, sm.PlayMusic("whoosh"))
	assert.False(t, sm.Playing("drone"))
	assert.True(t, sm.Playing("whoosh"))

	assert.Error(t, sm.PlayMusic("missing"))
	assert.Empty(t, sm.Music())

	require.NoError(t, sm.PlayMusic("drone"))
	sm.StopMusic()
	assert.Empty(t, sm.Music())
	assert.False(t, sm.Playing("drone"))
}

func TestTracksRegistry(t *testing.T) {
	sm := silentManager()
	assert.Equal(t, []string{"buzz", "chime", "crackle", "drone", "whoosh"}, sm.Tracks())
	sm.RegisterTrack("tick", chime)
	assert.Contains(t, sm.Tracks(), "tick")
}

func drain(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
}

func TestTrackLengths(t *testing.T) {
	rate := beep.SampleRate(8000)
	assert.Equal(t, rate.N(400*time.Millisecond), drain(chime(rate)))
	assert.Equal(t, rate.N(600*time.Millisecond), drain(drone(rate)))
	assert.Equal(t, rate.N(300*time.Millisecond), drain(crackle(rate)))
}

func TestRepeatKeepsStreaming(t *testing.T) {
	rate := beep.SampleRate(8000)
	r := newRepeat(func() beep.Streamer { return buzz(rate) })
	buf := make([][2]float64, rate.N(time.Second))
	n, ok := r.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, len(buf), n)

	empty := newRepeat(func() beep.Streamer { return beep.Silence(0) })
	n, ok = empty.Stream(buf[:10])
	assert.True(t, ok)
	assert.Equal(t, 10, n)
}

func TestEnvelopeRamps(t *testing.T) {
	rate := beep.SampleRate(1000)
	env := NewEnvelope(NewOscillator(0, 0, WaveSquare, rate), 100*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, rate)
	buf := make([][2]float64, 200)
	n, _ := env.Stream(buf)
	require.Equal(t, 100, n)
	assert.Zero(t, buf[0][0])
	assert.InDelta(t, 1.0, buf[50][0], 1e-9)
	assert.InDelta(t, 0.1, buf[99][0], 1e-9)
}

func TestServiceDegradesGracefully(t *testing.T) {
	s := NewService(nil)
	require.NoError(t, s.Init(Config{Enabled: false}))
	require.NoError(t, s.Start())
	assert.True(t, s.Player().Silent())
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}
