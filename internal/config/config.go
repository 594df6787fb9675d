package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr            string
	Env                 string
	PatternDir          string
	Output              string
	AdminToken          string
	TickInterval        time.Duration
	GenerateLimitPerMin int
}

func Load() Config {
	return Config{
		HTTPAddr:            getenv("HTTP_ADDR", ":8080"),
		Env:                 getenv("ENV", "dev"),
		PatternDir:          getenv("PATTERN_DIR", "./patterns"),
		Output:              getenv("OUTPUT", "stdout"),
		AdminToken:          os.Getenv("ADMIN_TOKEN"),
		TickInterval:        time.Duration(getenvInt("TICK_MS", 1000)) * time.Millisecond,
		GenerateLimitPerMin: getenvInt("GENERATE_RATE_LIMIT_PER_MIN", 60),
	}
}

func getenv(key, defaultValue string) string {
	v := os.Getenv(key)
	if v != "" {
		return v
	}
	return defaultValue
}

func getenvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}
