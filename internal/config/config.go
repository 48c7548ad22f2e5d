package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"lifetiles/internal/schedule"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	DatabaseURL   string
	OffsetMinutes int    // evaluation frame offset east of UTC
	RecomputeTime string // HH:MM, daily status recompute in the frame
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:   strings.TrimSpace(os.Getenv("LIFETILES_DB")),
		OffsetMinutes: parseOffset(strings.TrimSpace(os.Getenv("LIFETILES_UTC_OFFSET_MIN"))),
		RecomputeTime: strings.TrimSpace(os.Getenv("LIFETILES_RECOMPUTE_TIME")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "lifetiles.db"
	}

	if cfg.RecomputeTime == "" {
		cfg.RecomputeTime = "00:00"
	}
	if err := validateTime(cfg.RecomputeTime); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func parseOffset(raw string) int {
	if raw == "" {
		return schedule.DefaultOffsetMinutes
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil {
		return schedule.DefaultOffsetMinutes
	}
	return minutes
}

func validateTime(timeStr string) error {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return fmt.Errorf("LIFETILES_RECOMPUTE_TIME %q: expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return fmt.Errorf("LIFETILES_RECOMPUTE_TIME %q: invalid hour", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return fmt.Errorf("LIFETILES_RECOMPUTE_TIME %q: invalid minute", timeStr)
	}
	return nil
}
