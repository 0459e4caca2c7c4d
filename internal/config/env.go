package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are tried in order. godotenv never overrides variables that are
// already set, so earlier files win.
var envFiles = []string{".env.local", ".env"}

// loadEnvFiles loads every env file that exists and returns the ones loaded.
func loadEnvFiles() ([]string, error) {
	loaded := make([]string, 0, len(envFiles))
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, err
		}
		loaded = append(loaded, path)
	}
	if len(loaded) == 0 {
		return nil, errors.New("no .env file found")
	}
	return loaded, nil
}
