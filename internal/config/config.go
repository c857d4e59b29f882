// Package config loads the game server's settings from flags with
// environment-variable-backed defaults, the same flag+env precedence
// the teacher's feed simulator uses.
package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds every tunable the game server needs at startup.
type Config struct {
	// Server
	WSPort int
	Host   string

	// Database
	MongoURI string
	// UseMongo selects the durable MongoRepository over the in-memory
	// MapRepository; false is the right default for local development
	// and tests, where no MongoDB instance is assumed to be running.
	UseMongo bool

	// Game rules, mirroring game.Config's fields.
	TickInterval      time.Duration
	GameDuration      time.Duration
	MaxPriceDelta     int32
	StartingPrice     int32
	CountdownDuration time.Duration
	StartingBalance   int32

	// Matchmaking
	PlayersToStart int

	// Metrics
	MetricsPort int
}

func Load() *Config {
	c := &Config{}

	flag.IntVar(&c.WSPort, "port", envInt("GAME_PORT", 8200), "WebSocket server port")
	flag.StringVar(&c.Host, "host", envStr("GAME_HOST", "0.0.0.0"), "Listen host")

	flag.StringVar(&c.MongoURI, "mongo-uri", envStr("MONGO_URI", "mongodb://localhost:27017/tradinggame"), "MongoDB connection URI")
	flag.BoolVar(&c.UseMongo, "use-mongo", envBool("USE_MONGO", false), "Persist games/lobbies/queues to MongoDB instead of in-memory")

	flag.DurationVar(&c.TickInterval, "tick-interval", envDuration("TICK_INTERVAL", time.Second), "Interval between price ticks")
	flag.DurationVar(&c.GameDuration, "game-duration", envDuration("GAME_DURATION", 3*time.Minute), "Total running duration of a game")
	maxDelta := flag.Int("max-price-delta", envInt("MAX_PRICE_DELTA", 25), "Base volatility: max absolute per-tick price delta")
	startPrice := flag.Int("starting-price", envInt("STARTING_PRICE", 100), "Starting perceived price")
	flag.DurationVar(&c.CountdownDuration, "countdown-duration", envDuration("COUNTDOWN_DURATION", 10*time.Second), "Countdown duration stored in each game's config (the lobby ready-up countdown is always 10 one-second ticks)")
	startBalance := flag.Int("starting-balance", envInt("STARTING_BALANCE", 1000), "Starting cash balance")

	flag.IntVar(&c.PlayersToStart, "players-to-start", envInt("PLAYERS_TO_START", 2), "Players required to form a match")

	flag.IntVar(&c.MetricsPort, "metrics-port", envInt("METRICS_PORT", 9100), "Prometheus /metrics port (0 = disabled)")

	flag.Parse()

	c.MaxPriceDelta = int32(*maxDelta)
	c.StartingPrice = int32(*startPrice)
	c.StartingBalance = int32(*startBalance)

	return c
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
