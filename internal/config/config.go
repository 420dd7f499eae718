package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultOverlay = 0.86

// Board holds the per-deployment display settings and partition key.
type Board struct {
	Title      string  `json:"title"`
	Slug       string  `json:"slug"`
	BGImage    string  `json:"bg_image"`
	BGPosition string  `json:"bg_position"`
	BGOverlay  float64 `json:"bg_overlay"`
}

type Config struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPass         string
	DBName         string
	ServerPort     string
	RedisURL       string
	RedisTTL       time.Duration
	RedisChannel   string
	Env            string
	FrontendOrigin []string
	SeedDemo       bool
	APIURL         string
	Board          Board
}

func LoadConfig() Config {
	ttlStr := getEnv("REDIS_TTL", "5m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		ttl = 5 * time.Minute
	}

	return Config{
		DBHost:         getEnv("DB_HOST", "postgres"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPass:         getEnv("DB_PASSWORD", "password"),
		DBName:         getEnv("DB_NAME", "db_wishboard"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		RedisURL:       getEnv("REDIS_URL", "redis:6379"),
		RedisTTL:       ttl,
		RedisChannel:   getEnv("REDIS_CHANNEL", "plans:changes"),
		Env:            getEnv("ENV", "dev"),
		FrontendOrigin: splitList(getEnv("FRONTEND_URL", "")),
		SeedDemo:       getEnvAsBool("SEED_DEMO", false),
		APIURL:         strings.TrimRight(getEnv("API_URL", "http://localhost:8080"), "/"),
		Board: Board{
			Title:      getEnvWithLegacy("BOARD_TITLE", "NEXT_PUBLIC_BOARD_TITLE", "Plans Board"),
			Slug:       getEnvWithLegacy("BOARD_SLUG", "NEXT_PUBLIC_BOARD_SLUG", "default-board"),
			BGImage:    getEnvWithLegacy("BG_IMAGE", "NEXT_PUBLIC_BG_IMAGE", ""),
			BGPosition: getEnvWithLegacy("BG_POSITION", "NEXT_PUBLIC_BG_POSITION", "center"),
			BGOverlay:  ParseOverlay(getEnvWithLegacy("BG_OVERLAY", "NEXT_PUBLIC_BG_OVERLAY", "")),
		},
	}
}

// ParseOverlay returns DefaultOverlay for empty, unparsable or non-finite input.
func ParseOverlay(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultOverlay
	}
	return v
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort,
	)
}

// WebSocketURL derives the change stream endpoint from APIURL.
func (c *Config) WebSocketURL() string {
	u := c.APIURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvWithLegacy(key, legacy, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return getEnv(legacy, fallback)
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return fallback
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
