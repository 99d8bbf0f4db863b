// Package config reads server settings from the environment.
//
// A .env file in the working directory is loaded first when present
// (development convenience); real environment variables win over it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable of the server.
type Config struct {
	Port          string        // PORT
	LogLevel      string        // LOG_LEVEL: zerolog level name
	LogFormat     string        // LOG_FORMAT: "json" or "console"
	WordsFile     string        // WORDS_FILE: dictionary path, embedded list when empty
	ClientOrigin  string        // CLIENT_ORIGIN: allowed CORS origin
	MatchSecret   string        // MATCH_SECRET: HMAC key for match tokens
	TokenTTL      time.Duration // MATCH_TOKEN_HOURS
	AdvanceDelay  time.Duration // ADVANCE_DELAY: pause between rounds, e.g. "1500ms"
	StrictGuesses bool          // STRICT_GUESSES: only dictionary words may be guessed
	SeedSalt      string        // SEED_SALT: salt for seeded matches
	MaxPlayers    int           // MAX_PLAYERS
	IdleTimeout   time.Duration // MATCH_IDLE_TIMEOUT: sweep matches idle this long
}

// Load reads .env (if any) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	c := Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		WordsFile:    os.Getenv("WORDS_FILE"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		MatchSecret:  getEnv("MATCH_SECRET", "dev_secret_change_me"),
		SeedSalt:     getEnv("SEED_SALT", "local_dev_salt"),
	}

	hours, err := envInt("MATCH_TOKEN_HOURS", 12)
	if err != nil {
		return Config{}, err
	}
	c.TokenTTL = time.Duration(hours) * time.Hour

	if c.AdvanceDelay, err = envDuration("ADVANCE_DELAY", 1500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if c.IdleTimeout, err = envDuration("MATCH_IDLE_TIMEOUT", 2*time.Hour); err != nil {
		return Config{}, err
	}
	if c.StrictGuesses, err = envBool("STRICT_GUESSES", false); err != nil {
		return Config{}, err
	}
	if c.MaxPlayers, err = envInt("MAX_PLAYERS", 4); err != nil {
		return Config{}, err
	}
	if c.MaxPlayers < 1 {
		return Config{}, fmt.Errorf("config: MAX_PLAYERS must be at least 1, got %d", c.MaxPlayers)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return Config{}, fmt.Errorf("config: LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	return c, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", k, err)
	}
	return n, nil
}

func envBool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", k, err)
	}
	return b, nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", k, err)
	}
	return d, nil
}
