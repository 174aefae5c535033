package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds every tunable game constant. Nothing is hard-wired in the
// game package; rooms read these at creation time.
type Config struct {
	Port int

	// Baseball timing
	FallMs          int
	SpawnIntervalMs int
	PerfectWindowMs int
	ExpireGraceMs   int

	// Climb difficulty
	ShakeGain      float64
	ShakeSampleCap float64
	WinThreshold   float64

	// Capacity
	ClimbMaxPlayers int
	DartMaxPlayers  int

	// Display names are truncated to this length
	NameMaxLen int
}

// Load reads the configuration from the environment, falling back to the
// stock game parameters.
func Load() *Config {
	return &Config{
		Port:            getEnvInt("PORT", 8080),
		FallMs:          getEnvInt("BASEBALL_FALL_MS", 1600),
		SpawnIntervalMs: getEnvInt("BASEBALL_SPAWN_INTERVAL_MS", 2200),
		PerfectWindowMs: getEnvInt("BASEBALL_PERFECT_WINDOW_MS", 90),
		ExpireGraceMs:   getEnvInt("BASEBALL_EXPIRE_GRACE_MS", 250),
		ShakeGain:       getEnvFloat("CLIMB_SHAKE_GAIN", 0.05),
		ShakeSampleCap:  getEnvFloat("CLIMB_SHAKE_SAMPLE_CAP", 20),
		WinThreshold:    getEnvFloat("CLIMB_WIN_THRESHOLD", 100),
		ClimbMaxPlayers: getEnvInt("CLIMB_MAX_PLAYERS", 2),
		DartMaxPlayers:  getEnvInt("DART_MAX_PLAYERS", 8),
		NameMaxLen:      getEnvInt("NAME_MAX_LEN", 16),
	}
}

func (c *Config) FallDuration() time.Duration {
	return time.Duration(c.FallMs) * time.Millisecond
}

func (c *Config) SpawnInterval() time.Duration {
	return time.Duration(c.SpawnIntervalMs) * time.Millisecond
}

func (c *Config) PerfectWindow() time.Duration {
	return time.Duration(c.PerfectWindowMs) * time.Millisecond
}

// ExpireAfter is how long a ball lives in total: fall plus grace.
func (c *Config) ExpireAfter() time.Duration {
	return time.Duration(c.FallMs+c.ExpireGraceMs) * time.Millisecond
}

// getEnv reads an environment variable and returns its value or a default value
func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[config] Invalid value for %s: %q, using default %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("[config] Invalid value for %s: %q, using default %v", key, raw, defaultValue)
		return defaultValue
	}
	return value
}
