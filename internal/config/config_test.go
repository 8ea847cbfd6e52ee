package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metcalfc/moyu/internal/keys"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"MOYU_SHELF_PATH", "MOYU_CHAPTER_MARKERS", "MOYU_PAGE_SIZE",
		"MOYU_KEY_MODE", "MOYU_ENCODINGS", "MOYU_LOG_FILE", "MOYU_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(state, "moyu", "bookshelf.json"), cfg.ShelfPath)
	assert.Equal(t, filepath.Join(state, "moyu", "moyu.log"), cfg.LogFile)
	assert.Equal(t, []string{"第", "章"}, cfg.ChapterMarkers)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, keys.ModeAuto, cfg.KeyMode)
	assert.Equal(t, []string{"utf-8", "gbk", "gb18030", "big5"}, cfg.Encodings)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MOYU_SHELF_PATH", "/srv/books/shelf.json")
	t.Setenv("MOYU_CHAPTER_MARKERS", "Chapter, ")
	t.Setenv("MOYU_PAGE_SIZE", "25")
	t.Setenv("MOYU_KEY_MODE", "line")
	t.Setenv("MOYU_ENCODINGS", "utf-8,shift_jis")
	t.Setenv("MOYU_LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/srv/books/shelf.json", cfg.ShelfPath)
	assert.Equal(t, "/srv/books/moyu.log", cfg.LogFile)
	assert.Equal(t, []string{"Chapter"}, cfg.ChapterMarkers)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, keys.ModeLine, cfg.KeyMode)
	assert.Equal(t, []string{"utf-8", "shift_jis"}, cfg.Encodings)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFromEnvInvalid(t *testing.T) {
	tests := map[string]string{
		"MOYU_PAGE_SIZE":       "zero",
		"MOYU_KEY_MODE":        "mind",
		"MOYU_ENCODINGS":       "utf-8,klingon",
		"MOYU_CHAPTER_MARKERS": " , ",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}

	clearEnv(t)
	t.Setenv("MOYU_PAGE_SIZE", "0")
	_, err := LoadFromEnv()
	assert.Error(t, err)
}
