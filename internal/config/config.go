package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	AppPort         string
	DatabaseURL     string
	AppSecret       string
	ValidationToken string
	PageAccessToken string
	GoogleAPIKey    string
	GraphBaseURL    string
	GeocodeBaseURL  string
	GBFSBaseURL     string
}

// Load reads environment variables and returns a populated Config.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:         getEnv("APP_PORT", "5000"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		AppSecret:       getEnv("MESSENGER_APP_SECRET", ""),
		ValidationToken: getEnv("MESSENGER_VALIDATION_TOKEN", ""),
		PageAccessToken: getEnv("MESSENGER_PAGE_ACCESS_TOKEN", ""),
		GoogleAPIKey:    getEnv("GOOGLE_API_KEY", ""),
		GraphBaseURL:    getEnv("GRAPH_BASE_URL", "https://graph.facebook.com/v2.6"),
		GeocodeBaseURL:  getEnv("GEOCODE_BASE_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
		GBFSBaseURL:     getEnv("GBFS_BASE_URL", "https://gbfs.citibikenyc.com/gbfs/en"),
	}

	if cfg.AppSecret == "" || cfg.ValidationToken == "" || cfg.PageAccessToken == "" {
		log.Fatal("Missing config values: MESSENGER_APP_SECRET, MESSENGER_VALIDATION_TOKEN and MESSENGER_PAGE_ACCESS_TOKEN must be set")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
