package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is read from the environment (and .env when present); CLI flags override it.
type Config struct {
	ModelPath string
	Port      int
	Clock     Clock
	Location  *time.Location
	LogLevel  slog.Level
}

// LoadConfig reads BETTERREST_* variables. Bad values fall back to defaults
// and are returned as warnings so the caller can log them once a logger exists.
func LoadConfig() (Config, []string) {
	_ = godotenv.Load()

	var warn []string
	c := Config{
		ModelPath: strings.TrimSpace(os.Getenv("BETTERREST_MODEL")),
		Clock:     Clock12,
		Location:  time.Local,
		LogLevel:  slog.LevelInfo,
	}

	if v := strings.TrimSpace(os.Getenv("BETTERREST_PORT")); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 0 || p > 65535 {
			warn = append(warn, "ignoring BETTERREST_PORT="+v)
		} else {
			c.Port = p
		}
	}
	if v := strings.TrimSpace(os.Getenv("BETTERREST_CLOCK")); v != "" {
		clk, err := parseClock(v)
		if err != nil {
			warn = append(warn, "ignoring BETTERREST_CLOCK="+v)
		} else {
			c.Clock = clk
		}
	}
	if v := strings.TrimSpace(os.Getenv("BETTERREST_TZ")); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			warn = append(warn, "ignoring BETTERREST_TZ="+v)
		} else {
			c.Location = loc
		}
	}
	if v := strings.TrimSpace(os.Getenv("BETTERREST_LOG_LEVEL")); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			warn = append(warn, "ignoring BETTERREST_LOG_LEVEL="+v)
			c.LogLevel = slog.LevelInfo
		}
	}
	return c, warn
}
