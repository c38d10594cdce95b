package config

import (
	"fmt"
	"os"
	"strings"
)

const EnvDevelopment = "development"

type Config struct {
	Env            string
	HTTPAddr       string
	AllowedOrigins []string
	Auth           AuthConfig
	Email          EmailConfig
	Proxy          ProxyConfig
	Postgres       PostgresConfig
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  string
	Env       string
}

type EmailConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	Disabled string
}

type ProxyConfig struct {
	AllowedHosts []string
	FetchTimeout string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

func Load() Config {
	env := getenv("APP_ENV", EnvDevelopment)
	return Config{
		Env:            env,
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		Auth: AuthConfig{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
			TokenTTL:  getenv("AUTH_TOKEN_TTL", "168h"),
			Env:       env,
		},
		Email: EmailConfig{
			Host:     os.Getenv("EMAIL_HOST"),
			Port:     getenv("EMAIL_PORT", "587"),
			User:     os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASS"),
			From:     os.Getenv("EMAIL_FROM"),
			Disabled: os.Getenv("EMAIL_DISABLED"),
		},
		Proxy: ProxyConfig{
			AllowedHosts: splitList(getenv("PROXY_ALLOWED_HOSTS", "public.blob.vercel-storage.com")),
			FetchTimeout: getenv("PROXY_FETCH_TIMEOUT", "5m"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
	}
}

// Validate rejects configurations that would silently weaken auth. A missing
// signing secret is only tolerated in development, where the auth service
// substitutes an explicit throwaway secret.
func (c Config) Validate() error {
	if c.Auth.JWTSecret == "" && c.Env != EnvDevelopment {
		return fmt.Errorf("AUTH_JWT_SECRET is required when APP_ENV=%q", c.Env)
	}
	if len(c.Proxy.AllowedHosts) == 0 {
		return fmt.Errorf("PROXY_ALLOWED_HOSTS must list at least one host")
	}
	return nil
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
