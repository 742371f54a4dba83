package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the server. It is built once in main
// and handed to the packages that need it.
type Config struct {
	Port string

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret []byte

	QRSize int

	RateLimitPerMin int
	RateLimitBurst  int

	HotelCacheTTL      time.Duration
	SpoolFlushInterval time.Duration

	GeminiAPIKey string
	GeminiModel  string

	CORSOrigins []string
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := getenv("PORT", ":5000")
	if port[0] != ':' {
		port = ":" + port
	}

	return Config{
		Port:               port,
		MongoURI:           getenv("MONGO_CONN", "mongodb://localhost:27017"),
		MongoDB:            getenv("MONGO_DB", "tourguide"),
		RedisAddr:          getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            atoi(getenv("REDIS_DB", "0"), 0),
		JWTSecret:          []byte(getenv("JWT_SECRET", "your_secret_key")),
		QRSize:             atoi(getenv("QR_SIZE", "256"), 256),
		RateLimitPerMin:    atoi(getenv("RATE_LIMIT_PER_MIN", "60"), 60),
		RateLimitBurst:     atoi(getenv("RATE_LIMIT_BURST", "10"), 10),
		HotelCacheTTL:      parseDur(getenv("HOTEL_CACHE_TTL", "5m"), 5*time.Minute),
		SpoolFlushInterval: parseDur(getenv("SPOOL_FLUSH_INTERVAL", "30s"), 30*time.Second),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getenv("GEMINI_MODEL", "gemini-pro"),
		CORSOrigins:        splitList(getenv("CORS_ORIGINS", "*")),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDur(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
