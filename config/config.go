package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	DataPath     string
	ArtifactPath string
	CleanCSVPath string

	RidgeAlpha  float64
	TestSize    float64
	RandomSeed  int64
	MaxPriceUSD float64
	AreaTrimPct float64

	WidgetHost string
	WidgetPort int

	StoreEnabled bool
	LogDebug     bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "pricer"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "pricer123"),
		PostgresDB:       getEnv("POSTGRES_DB", "properati_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		DataPath:     getEnv("DATA_PATH", "./data/buenos-aires-real-estate.csv"),
		ArtifactPath: getEnv("ARTIFACT_PATH", "./output/apartment-price-model.json"),
		CleanCSVPath: getEnv("CLEAN_CSV_PATH", "./output/clean_listings.csv"),

		RidgeAlpha:  getEnvFloat("RIDGE_ALPHA", 1.0),
		TestSize:    getEnvFloat("TEST_SIZE", 0.2),
		RandomSeed:  int64(getEnvInt("RANDOM_SEED", 42)),
		MaxPriceUSD: getEnvFloat("MAX_PRICE_USD", 400000),
		AreaTrimPct: getEnvFloat("AREA_TRIM_PCT", 10),

		WidgetHost: getEnv("WIDGET_HOST", "localhost"),
		WidgetPort: getEnvInt("WIDGET_PORT", 8080),

		StoreEnabled: getEnvBool("STORE_ENABLED", false),
		LogDebug:     getEnvBool("LOG_DEBUG", false),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
