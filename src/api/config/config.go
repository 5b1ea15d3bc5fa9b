package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	MySQLDSN       string
	RedisURL       string
	JWTSecret      string
	Port           string
	TokenTTLHours  int
	SearchCacheTTL int // minutes
	ChatRatePerMin int
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func Load() Config {
	tokenTTL, _ := strconv.Atoi(getenv("TOKEN_TTL_HOURS", "24"))
	cacheTTL, _ := strconv.Atoi(getenv("SEARCH_CACHE_TTL_MIN", "10"))
	chatRate, _ := strconv.Atoi(getenv("CHAT_RATE_PER_MIN", "20"))
	return Config{
		MySQLDSN:       getenv("MYSQL_DSN", "gemini:gemini@tcp(localhost:3306)/gemini_chat?parseTime=true"),
		RedisURL:       getenv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:      getenv("JWT_SECRET", ""),
		Port:           getenv("PORT", "8080"),
		TokenTTLHours:  tokenTTL,
		SearchCacheTTL: cacheTTL,
		ChatRatePerMin: chatRate,
	}
}
