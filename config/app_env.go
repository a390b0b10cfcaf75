package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/akeren/innr-waitlist/internal/log"
	"github.com/joho/godotenv"
)

const (
	AppEnvKey  = "APP_ENV"
	EnvFileKey = "ENV_FILE"
)

// Environment is the normalized value of APP_ENV.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentTest        Environment = "test"
	EnvironmentStaging     Environment = "staging"
	EnvironmentProduction  Environment = "production"
)

var environmentAliases = map[string]Environment{
	"":            EnvironmentDevelopment,
	"dev":         EnvironmentDevelopment,
	"development": EnvironmentDevelopment,
	"local":       EnvironmentDevelopment,
	"test":        EnvironmentTest,
	"testing":     EnvironmentTest,
	"staging":     EnvironmentStaging,
	"stage":       EnvironmentStaging,
	"prod":        EnvironmentProduction,
	"production":  EnvironmentProduction,
}

// ParseEnvironment maps APP_ENV spellings onto an Environment. Unknown values are kept as-is
// and treated like production by the callers that care.
func ParseEnvironment(raw string) Environment {
	key := strings.ToLower(strings.TrimSpace(raw))
	if env, ok := environmentAliases[key]; ok {
		return env
	}
	return Environment(key)
}

// AllowsSchemaShortcuts reports whether gorm auto-migration may touch the schema.
func (e Environment) AllowsSchemaShortcuts() bool {
	return e == EnvironmentDevelopment || e == EnvironmentTest
}

func CurrentEnvironment() Environment {
	return ParseEnvironment(os.Getenv(AppEnvKey))
}

// InitializeEnvFile loads ENV_FILE (default .env) without overriding variables already set.
func InitializeEnvFile(logger *log.Logger) {
	if os.Getenv("SKIP_DOTENV") == "true" {
		logger.Info("Skipping env file load (SKIP_DOTENV=true)")
		return
	}

	path := sanitizeEnv(os.Getenv(EnvFileKey))
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		logger.Warn("Env file not loaded", "path", path, "error", err.Error())
		return
	}

	logger.Info("Environment variables loaded", "path", path)
}

func ValidateAutoMigrateAllowed(appEnv string) error {
	env := ParseEnvironment(appEnv)
	if env.AllowsSchemaShortcuts() {
		return nil
	}
	return fmt.Errorf("--auto-migrate is not allowed when %s=%q; run `cli migrate` against %s databases", AppEnvKey, string(env), env)
}

// sanitizeEnv trims whitespace and one pair of matching surrounding quotes.
func sanitizeEnv(v string) string {
	s := strings.TrimSpace(v)

	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}

	return s
}
