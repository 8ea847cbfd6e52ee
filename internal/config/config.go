package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/metcalfc/moyu/internal/keys"
	"github.com/metcalfc/moyu/internal/reader"
)

const appName = "moyu"

// Config holds the application configuration
type Config struct {
	ShelfPath      string
	ChapterMarkers []string
	PageSize       int
	KeyMode        keys.Mode
	Encodings      []string

	// Logging goes to a file so it never mixes with the reading screen.
	// LogFile "off" disables logging.
	LogFile  string
	LogLevel string
}

// Load reads a .env file if one exists, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{
		ShelfPath:      envOrDefault("MOYU_SHELF_PATH", filepath.Join(StateDir(), "bookshelf.json")),
		ChapterMarkers: reader.DefaultMarkers,
		PageSize:       reader.DefaultPageSize,
		Encodings:      reader.DefaultEncodings,
		LogLevel:       envOrDefault("MOYU_LOG_LEVEL", "info"),
	}

	if v := os.Getenv("MOYU_CHAPTER_MARKERS"); v != "" {
		markers := splitList(v)
		if len(markers) == 0 {
			return nil, fmt.Errorf("MOYU_CHAPTER_MARKERS has no markers: %q", v)
		}
		config.ChapterMarkers = markers
	}

	if v := os.Getenv("MOYU_PAGE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MOYU_PAGE_SIZE: %w", err)
		}
		if size < 1 {
			return nil, fmt.Errorf("MOYU_PAGE_SIZE must be positive, got %d", size)
		}
		config.PageSize = size
	}

	mode, err := keys.ParseMode(os.Getenv("MOYU_KEY_MODE"))
	if err != nil {
		return nil, fmt.Errorf("invalid MOYU_KEY_MODE: %w", err)
	}
	config.KeyMode = mode

	if v := os.Getenv("MOYU_ENCODINGS"); v != "" {
		labels := splitList(v)
		if _, err := reader.LookupEncodings(labels); err != nil || len(labels) == 0 {
			return nil, fmt.Errorf("invalid MOYU_ENCODINGS %q: %v", v, err)
		}
		config.Encodings = labels
	}

	// Log file defaults to the shelf's directory
	config.LogFile = envOrDefault("MOYU_LOG_FILE", filepath.Join(filepath.Dir(config.ShelfPath), appName+".log"))

	return config, nil
}

// StateDir returns XDG_STATE_HOME/moyu or ~/.local/state/moyu
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", appName)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
