// Package config collects the settings of a test run from a .env file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvDB          = "MICROCOTB_DB"
	EnvMonitorPort = "MICROCOTB_MONITOR_PORT"
	EnvOpenBrowser = "MICROCOTB_OPEN_BROWSER"
	EnvLogLevel    = "MICROCOTB_LOG_LEVEL"
)

// ErrInvalidValue is returned for an environment variable that cannot be
// parsed.
var ErrInvalidValue = errors.New("config: invalid value")

// Config is the configuration of a run.
type Config struct {
	// DBPath is where test results are recorded, without the .sqlite3
	// suffix. Empty disables recording.
	DBPath string

	// MonitorPort is the port of the monitoring server. 0 picks a random
	// port. Negative disables the server.
	MonitorPort int

	// OpenBrowser opens the monitor in a browser.
	OpenBrowser bool

	LogLevel slog.Level
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		MonitorPort: -1,
		LogLevel:    slog.LevelInfo,
	}
}

// Load reads envFile into the environment and builds a Config from it.
// Variables already set in the environment win over the file. An empty
// envFile means ".env", which may be missing.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	} else if err := godotenv.Load(envFile); err != nil {
		return Config{}, err
	}

	return FromEnv()
}

// FromEnv builds a Config from the environment alone.
func FromEnv() (Config, error) {
	c := Default()

	c.DBPath = os.Getenv(EnvDB)

	if v, ok := os.LookupEnv(EnvMonitorPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q", ErrInvalidValue, EnvMonitorPort, v)
		}

		c.MonitorPort = port
	}

	if v, ok := os.LookupEnv(EnvOpenBrowser); ok && v != "" {
		open, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q", ErrInvalidValue, EnvOpenBrowser, v)
		}

		c.OpenBrowser = open
	}

	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		level, err := ParseLogLevel(v)
		if err != nil {
			return Config{}, err
		}

		c.LogLevel = level
	}

	return c, nil
}

// ParseLogLevel accepts debug, info, warn and error in any case.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(strings.TrimSpace(s)))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidValue, s)
	}

	return level, nil
}

// Logger creates a text logger on stderr at the configured level.
func (c Config) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: c.LogLevel}))
}
