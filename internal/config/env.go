package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvRedisAddr   = "CERTQUEST_REDIS_ADDR"
	EnvSQLitePath  = "CERTQUEST_SQLITE_PATH"
	EnvBalanceFile = "CERTQUEST_BALANCE_FILE"
	EnvLocaleDir   = "CERTQUEST_LOCALE_DIR"
	EnvMapDir      = "CERTQUEST_MAP_DIR"
	EnvLang        = "CERTQUEST_LANG"
	EnvGRPCPort    = "CERTQUEST_GRPC_PORT"
	EnvHTTPPort    = "CERTQUEST_HTTP_PORT"
)

// LoadDotEnv loads variables from the given files, or .env when none are
// given. Variables already set in the process environment win. A missing
// file is not an error.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Warn("Failed to load env file", "file", f, "error", err)
		}
	}
}

// EnvString returns the value of key or def when unset
func EnvString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// EnvInt returns the integer value of key or def when unset or malformed
func EnvInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Ignoring malformed integer env var", "key", key, "value", v)
		return def
	}
	return n
}
