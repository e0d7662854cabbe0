package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  Allocation tunables carry
// defaults so a bare environment still yields a working demo service;
// database credentials are optional and their absence selects demo
// mode, where a synthetic showtime is generated in memory.
type Config struct {
	Env           string        // application environment (e.g. "dev", "prod")
	Port          string        // HTTP port to listen on
	DBUser        string        // database username
	DBPass        string        // database password (optional)
	DBHost        string        // database host address
	DBPort        string        // database port number
	DBName        string        // database name
	JWTSecret     string        // secret used to sign booking session tokens
	HoldTTL       time.Duration // how long a seat hold lives (default 15m)
	SweepInterval time.Duration // how often the expiry sweeper runs (default 1m)
	MaxSeats      int           // seat cap per booking session (default 8)
	DemoSeed      int64         // seed for demo grid generation (0 = derive from showtime ID)
}

// Load reads configuration values from environment variables and
// returns a Config.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBUser:        os.Getenv("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        os.Getenv("DB_HOST"), // empty selects demo mode
		DBPort:        os.Getenv("DB_PORT"),
		DBName:        os.Getenv("DB_NAME"),
		JWTSecret:     must("JWT_SECRET"),
		HoldTTL:       time.Duration(envInt("HOLD_TTL_MIN", 15)) * time.Minute,
		SweepInterval: time.Duration(envInt("SWEEP_INTERVAL_SEC", 60)) * time.Second,
		MaxSeats:      envInt("MAX_SEATS_PER_SESSION", 8),
		DemoSeed:      int64(envInt("DEMO_GRID_SEED", 0)),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// envInt reads an integer environment variable, falling back to the
// default when unset or malformed.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}
