package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	StoreDriver    string
	RequestTimeout time.Duration
	CORSOrigins    []string

	MongoURI          string
	DBName            string
	MongoTransactions bool

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	IdempotencyTTL time.Duration

	AdminEmail    string
	AdminPassword string
	AdminUsername string
}

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// LoadEnv reads a .env file if one exists. A missing file is not an error.
func LoadEnv() {
	_ = godotenv.Load()
}

func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	v := GetEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func GetBool(key string, fallback bool) bool {
	v := GetEnv(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func GetInt(key string, fallback int) int {
	v := GetEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// Load builds the service configuration from the environment.
func Load() (*Config, error) {
	LoadEnv()

	cfg := &Config{
		Port:           GetEnv("PORT", "8080"),
		GinMode:        GetEnv("GIN_MODE", "release"),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
		StoreDriver:    strings.ToLower(GetEnv("STORE_DRIVER", StoreMongo)),
		RequestTimeout: GetDuration("REQUEST_TIMEOUT", 5*time.Second),
		CORSOrigins:    splitList(GetEnv("CORS_ORIGINS", "*")),

		MongoURI:          GetEnv("MONGO_URI", ""),
		DBName:            GetEnv("DB_NAME", "shopEZ"),
		MongoTransactions: GetBool("MONGO_TRANSACTIONS", true),

		JWTSecret: GetEnv("JWT_SECRET", ""),
		JWTTTL:    GetDuration("JWT_TTL", 24*time.Hour),

		RedisAddr:      GetEnv("REDIS_ADDR", ""),
		RedisPassword:  GetEnv("REDIS_PASSWORD", ""),
		RedisDB:        GetInt("REDIS_DB", 0),
		IdempotencyTTL: GetDuration("IDEMPOTENCY_TTL", 24*time.Hour),

		AdminEmail:    GetEnv("ADMIN_EMAIL", ""),
		AdminPassword: GetEnv("ADMIN_PASSWORD", ""),
		AdminUsername: GetEnv("ADMIN_USERNAME", "admin"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required when STORE_DRIVER=mongo"))
		}
	case StoreMemory:
	default:
		errs = append(errs, errors.New("STORE_DRIVER must be mongo or memory"))
	}
	if c.AdminEmail != "" && len(c.AdminPassword) < 6 {
		errs = append(errs, errors.New("ADMIN_PASSWORD must be at least 6 characters"))
	}
	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
