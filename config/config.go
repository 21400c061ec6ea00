package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultURL           = "https://datagateway.diamond.ac.uk"
	DefaultAuthenticator = "ldap"
)

type Config struct {
	GatewayURL    string
	Authenticator string
	Username      string
	PasswordFile  string
	Email         string
	// NonTerminalStatuses overrides the set of Download statuses treated as
	// still in progress. Empty means the built-in default set.
	NonTerminalStatuses []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables only")
	}

	config := &Config{
		GatewayURL:    getEnv("DG_URL", DefaultURL),
		Authenticator: getEnv("DG_AUTHENTICATOR", DefaultAuthenticator),
		Username:      getEnv("DG_USERNAME", ""),
		PasswordFile:  getEnv("DG_PASSWORD_FILE", ""),
		Email:         getEnv("DG_EMAIL", ""),
	}

	if raw := getEnv("DG_NONTERMINAL_STATUSES", ""); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				config.NonTerminalStatuses = append(config.NonTerminalStatuses, s)
			}
		}
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
