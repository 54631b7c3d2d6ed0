package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// envPaths are tried in order; the first file that exists is loaded
var envPaths = []string{".env", "../.env", "../../.env"}

// LoadConfig loads configuration from file - alias for LoadEnv when the
// default search path is wanted
func LoadConfig(configFile string) error {
	if configFile == "" {
		return LoadEnv()
	}
	return loadFile(configFile)
}

// LoadEnv loads environment variables from the first .env file found.
// Variables already set in the environment are left untouched. No .env file
// at all is not an error.
func LoadEnv() error {
	for _, envPath := range envPaths {
		err := loadFile(envPath)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return err
	}
	return nil
}

func loadFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return godotenv.Load(path)
}

// GetEnv gets environment variable with default
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets integer environment variable with default
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvFloat gets float environment variable with default
func GetEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// GetEnvBool gets boolean environment variable with default
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}

// LexiconPath returns the location of the parsing lists document
func LexiconPath() string {
	return GetEnv("LEXICON_PATH", "data/parsing_lists.json")
}
