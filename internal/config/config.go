package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the simulation.
type Config struct {
	Port     int
	LogLevel string

	TickInterval time.Duration
	TickCount    int64
	Instruments  int
	InboxSize    int
	Seed         int64

	RandomActors    int
	ScriptedActors  int
	TrendActors     int
	CorporateActors int

	StartingCash       int64 // cents, non-corporate actors
	CorporateInventory int64 // units of the issued instrument
	CorporateOffer     int64 // cents per unit

	VWAPWindow      time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	tickInterval, err := getDuration("TICK_INTERVAL", 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("invalid TICK_INTERVAL: %w", err)
	}

	tickCount, err := getInt("TICK_COUNT", 250)
	if err != nil {
		return nil, fmt.Errorf("invalid TICK_COUNT: %w", err)
	}
	if tickCount <= 0 {
		return nil, fmt.Errorf("invalid TICK_COUNT: must be positive")
	}

	instruments, err := getInt("INSTRUMENTS", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid INSTRUMENTS: %w", err)
	}
	if instruments <= 0 {
		return nil, fmt.Errorf("invalid INSTRUMENTS: must be positive")
	}

	inboxSize, err := getInt("INBOX_SIZE", 256)
	if err != nil {
		return nil, fmt.Errorf("invalid INBOX_SIZE: %w", err)
	}
	if inboxSize <= 0 {
		return nil, fmt.Errorf("invalid INBOX_SIZE: must be positive")
	}

	seed, err := getInt("SEED", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid SEED: %w", err)
	}

	randomActors, err := getInt("RANDOM_ACTORS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid RANDOM_ACTORS: %w", err)
	}
	scriptedActors, err := getInt("SCRIPTED_ACTORS", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid SCRIPTED_ACTORS: %w", err)
	}
	trendActors, err := getInt("TREND_ACTORS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid TREND_ACTORS: %w", err)
	}
	corporateActors, err := getInt("CORPORATE_ACTORS", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid CORPORATE_ACTORS: %w", err)
	}
	if randomActors < 0 || scriptedActors < 0 || trendActors < 0 || corporateActors < 0 {
		return nil, fmt.Errorf("actor counts must be non-negative")
	}

	startingCash, err := getInt("STARTING_CASH", 10000)
	if err != nil {
		return nil, fmt.Errorf("invalid STARTING_CASH: %w", err)
	}
	if startingCash < 0 {
		return nil, fmt.Errorf("invalid STARTING_CASH: must be non-negative")
	}

	corporateInventory, err := getInt("CORPORATE_INVENTORY", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid CORPORATE_INVENTORY: %w", err)
	}
	corporateOffer, err := getInt("CORPORATE_OFFER", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid CORPORATE_OFFER: %w", err)
	}
	if corporateInventory < 0 || corporateOffer <= 0 {
		return nil, fmt.Errorf("invalid corporate settings: inventory must be non-negative, offer positive")
	}

	vwapWindow, err := getDuration("VWAP_WINDOW", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid VWAP_WINDOW: %w", err)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:               port,
		LogLevel:           logLevel,
		TickInterval:       tickInterval,
		TickCount:          int64(tickCount),
		Instruments:        instruments,
		InboxSize:          inboxSize,
		Seed:               int64(seed),
		RandomActors:       randomActors,
		ScriptedActors:     scriptedActors,
		TrendActors:        trendActors,
		CorporateActors:    corporateActors,
		StartingCash:       int64(startingCash),
		CorporateInventory: int64(corporateInventory),
		CorporateOffer:     int64(corporateOffer),
		VWAPWindow:         vwapWindow,
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		IdleTimeout:        idleTimeout,
		ShutdownTimeout:    shutdownTimeout,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
