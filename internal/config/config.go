package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"pagebuilder/internal/autosave"
	"pagebuilder/internal/history"
	"pagebuilder/internal/storage"
)

const defaultCheckpointSchedule = "@every 10m"

type Config struct {
	DataDir      string
	DBPath       string
	ManifestPath string // optional YAML overriding the built-in manifests

	SiteID string
	PageID string

	AutosaveDelay time.Duration
	HistoryLimit  int

	// CheckpointSchedule is a cron spec; empty disables scheduled checkpoints.
	CheckpointSchedule string
	CheckpointKeep     int

	LogLevel slog.Level
}

// Load reads .env files (the working directory's by default) and then the
// environment. Bad values are logged and replaced by their defaults.
func Load(envFiles ...string) *Config {
	_ = godotenv.Load(envFiles...)

	cfg, warnings := fromEnv(os.Getenv)
	for _, w := range warnings {
		slog.Warn("config: " + w)
	}
	return cfg
}

func fromEnv(getenv func(string) string) (*Config, []string) {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	homeDir, _ := os.UserHomeDir()
	dataDir := get("PAGEBUILDER_DATA_DIR", filepath.Join(homeDir, ".local", "share", "pagebuilder"))

	cfg := &Config{
		DataDir:            dataDir,
		DBPath:             get("PAGEBUILDER_DB_PATH", filepath.Join(dataDir, "pagebuilder.db")),
		ManifestPath:       get("PAGEBUILDER_MANIFEST_PATH", ""),
		SiteID:             get("PAGEBUILDER_SITE_ID", "default"),
		PageID:             get("PAGEBUILDER_PAGE_ID", "home"),
		AutosaveDelay:      autosave.DefaultDelay,
		HistoryLimit:       history.DefaultLimit,
		CheckpointSchedule: defaultCheckpointSchedule,
		CheckpointKeep:     storage.DefaultCheckpointKeep,
		LogLevel:           slog.LevelInfo,
	}

	if raw := get("AUTOSAVE_DEBOUNCE", ""); raw != "" {
		if d, err := time.ParseDuration(raw); err != nil || d <= 0 {
			warn("invalid AUTOSAVE_DEBOUNCE %q, using %s", raw, cfg.AutosaveDelay)
		} else {
			cfg.AutosaveDelay = d
		}
	}
	if raw := get("HISTORY_LIMIT", ""); raw != "" {
		if n, err := strconv.Atoi(raw); err != nil || n <= 0 {
			warn("invalid HISTORY_LIMIT %q, using %d", raw, cfg.HistoryLimit)
		} else {
			cfg.HistoryLimit = n
		}
	}
	if raw := get("CHECKPOINT_KEEP", ""); raw != "" {
		if n, err := strconv.Atoi(raw); err != nil || n <= 0 {
			warn("invalid CHECKPOINT_KEEP %q, using %d", raw, cfg.CheckpointKeep)
		} else {
			cfg.CheckpointKeep = n
		}
	}

	if raw, set := lookup(getenv, "CHECKPOINT_SCHEDULE"); set {
		cfg.CheckpointSchedule = raw
	}
	if cfg.CheckpointSchedule != "" {
		if _, err := cron.ParseStandard(cfg.CheckpointSchedule); err != nil {
			warn("invalid CHECKPOINT_SCHEDULE %q (%v), using %s", cfg.CheckpointSchedule, err, defaultCheckpointSchedule)
			cfg.CheckpointSchedule = defaultCheckpointSchedule
		}
	}

	if raw := get("LOG_LEVEL", ""); raw != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(raw)); err != nil {
			warn("invalid LOG_LEVEL %q, using info", raw)
			cfg.LogLevel = slog.LevelInfo
		}
	}

	return cfg, warnings
}

// lookup reports an unset key as not set, and "off" or "none" as set to
// empty.
func lookup(getenv func(string) string, key string) (string, bool) {
	v := strings.TrimSpace(getenv(key))
	switch strings.ToLower(v) {
	case "":
		return "", false
	case "off", "none":
		return "", true
	}
	return v, true
}
