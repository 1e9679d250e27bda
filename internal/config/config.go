package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Mode string

const (
	ModeDemo Mode = "demo"
	ModeLive Mode = "live"
)

type Config struct {
	AppPort           string
	Mode              Mode
	APIBaseURL        string
	APITimeout        time.Duration
	SessionSecret     string
	SessionExpiresMin int
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	EmailDomain       string
	LogLevel          string
	AlertTTL          time.Duration
	DemoSeedFile      string
	CookieSecure      bool
}

func Load() Config {
	expires, _ := strconv.Atoi(get("SESSION_EXPIRES_MIN", "10080"))
	redisDB, _ := strconv.Atoi(get("REDIS_DB", "0"))
	return Config{
		AppPort:           get("APP_PORT", "3000"),
		Mode:              parseMode(get("APP_MODE", string(ModeDemo))),
		APIBaseURL:        strings.TrimRight(get("API_BASE_URL", "http://localhost:8080/api"), "/"),
		APITimeout:        duration("API_TIMEOUT", 10*time.Second),
		SessionSecret:     must("SESSION_SECRET"),
		SessionExpiresMin: expires,
		RedisAddr:         get("REDIS_ADDR", ""),
		RedisPassword:     get("REDIS_PASSWORD", ""),
		RedisDB:           redisDB,
		EmailDomain:       get("EMAIL_DOMAIN", "@uep.edu.ph"),
		LogLevel:          get("LOG_LEVEL", "info"),
		AlertTTL:          duration("ALERT_TTL", 5*time.Second),
		DemoSeedFile:      get("DEMO_SEED_FILE", ""),
		CookieSecure:      flag("COOKIE_SECURE"),
	}
}

func parseMode(v string) Mode {
	if strings.EqualFold(strings.TrimSpace(v), string(ModeLive)) {
		return ModeLive
	}
	return ModeDemo
}

func duration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func flag(k string) bool {
	b, err := strconv.ParseBool(os.Getenv(k))
	return err == nil && b
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
