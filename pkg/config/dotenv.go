package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// DefaultDotEnvPath is read from the working directory when present.
const DefaultDotEnvPath = ".env"

// LoadDotEnv reads KEY=VALUE pairs from path. Comments, blank lines, quotes
// and "export" prefixes are handled by godotenv. A missing file yields an
// empty map. The process environment is never modified; Resolve gives real
// environment variables precedence over these values.
func LoadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return values, nil
}
