package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ConfigService exposes the settings the API layer needs. Route tests
// mock it; EnvConfig is the env-backed implementation used in main.
type ConfigService interface {
	GetJWTSecret() string
	GetServerPort() string
	GetAllowedOrigins() []string
}

// EnvConfig reads configuration from the environment, loading a .env file
// first when one is present.
type EnvConfig struct {
	databaseURL    string
	jwtSecret      string
	serverPort     string
	allowedOrigins []string
	catalogToken   string
	catalogBaseURL string
}

func NewEnvConfig() *EnvConfig {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := &EnvConfig{
		databaseURL:    os.Getenv("DATABASE_URL"),
		jwtSecret:      os.Getenv("JWT_SECRET"),
		serverPort:     getenvDefault("PORT", "8080"),
		catalogToken:   os.Getenv("MOVIE_DB_ACCESS_TOKEN"),
		catalogBaseURL: os.Getenv("MOVIE_DB_BASE_URL"),
	}

	origins := getenvDefault("ALLOWED_ORIGINS", "http://localhost:4200")
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.allowedOrigins = append(cfg.allowedOrigins, origin)
		}
	}
	return cfg
}

func (c *EnvConfig) GetDatabaseURL() string      { return c.databaseURL }
func (c *EnvConfig) GetJWTSecret() string        { return c.jwtSecret }
func (c *EnvConfig) GetServerPort() string       { return c.serverPort }
func (c *EnvConfig) GetAllowedOrigins() []string { return c.allowedOrigins }
func (c *EnvConfig) GetCatalogToken() string     { return c.catalogToken }
func (c *EnvConfig) GetCatalogBaseURL() string   { return c.catalogBaseURL }

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
