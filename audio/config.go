package audio

// Config controls the beep speaker backend
type Config struct {
	Enabled    bool
	SampleRate int
	Volume     float64 // master gain in [0, 1]
}

func DefaultConfig() Config {
	return Config{Enabled: true, SampleRate: 44100, Volume: 0.8}
}

// normalized clamps volume and fills unset fields from DefaultConfig
func (c Config) normalized() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultConfig().SampleRate
	}
	if c.Volume < 0 {
		c.Volume = 0
	}
	if c.Volume > 1 {
		c.Volume = 1
	}
	return c
}
