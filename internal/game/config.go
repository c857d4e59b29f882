package game

import "time"

// Config is the immutable record fixed at game launch. Defaults match
// the spec's production defaults; tests typically override every field.
type Config struct {
	TickInterval      time.Duration
	GameDuration      time.Duration
	MaxPriceDelta     int32
	StartingPrice     int32
	CountdownDuration time.Duration
	StartingBalance   int32
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		TickInterval:      250 * time.Millisecond,
		GameDuration:      180 * time.Second,
		MaxPriceDelta:     25,
		StartingPrice:     100,
		CountdownDuration: 3 * time.Second,
		StartingBalance:   1000,
	}
}

// TickCount is the number of ticks the game runs for, derived from
// GameDuration and TickInterval at construction.
func (c Config) TickCount() int32 {
	if c.TickInterval <= 0 {
		return 0
	}
	return int32(c.GameDuration / c.TickInterval)
}
