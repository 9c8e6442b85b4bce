package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	// Iterations is the default Monte Carlo run size when the CLI flag
	// is not given.
	Iterations int
	// Workers bounds concurrent iterations.
	Workers int
	// LogDir is where rotating log files are written.
	LogDir string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	logDir := os.Getenv("LOGS_FOLDER")
	if logDir == "" {
		if exeDir != "" {
			logDir = filepath.Join(exeDir, "logs")
		} else {
			logDir = "logs"
		}
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	cfg := &AppConfig{
		Iterations: getEnvInt("SHIPDATE_ITERATIONS", 10_000),
		Workers:    getEnvInt("SHIPDATE_WORKERS", runtime.NumCPU()),
		LogDir:     logDir,
	}
	if cfg.Iterations < 1 {
		cfg.Iterations = 10_000
	}
	if cfg.Workers < 1 {
		cfg.Workers = runtime.NumCPU()
	}

	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
