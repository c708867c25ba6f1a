package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// dotEnvFile is read from the working directory; process variables win over it.
var dotEnvFile = ".env"

type envLookup map[string]string

func readDotEnv(path string) (envLookup, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return envLookup{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return envLookup(values), nil
}

func (e envLookup) get(key string) (string, bool) {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), true
	}
	if value, ok := e[key]; ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), true
	}
	return "", false
}

func (e envLookup) setString(key string, dst *string) {
	if value, ok := e.get(key); ok {
		*dst = value
	}
}

func (e envLookup) setInt64(key string, dst *int64) {
	value, ok := e.get(key)
	if !ok {
		return
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return
	}
	*dst = parsed
}

// applyEnv overlays environment variables (and .env entries) onto the file
// configuration. Set variables win so credentials never need to live in TOML.
func (c *Config) applyEnv(env envLookup) {
	env.setString("SOURCE_ROOT", &c.Paths.SourceRoot)
	env.setString("PROGRESS_LOG", &c.Paths.ProgressLog)
	env.setString("WP_BASE", &c.WordPress.BaseURL)
	env.setString("WP_USERNAME", &c.WordPress.Username)
	env.setString("WP_APP_PASSWORD", &c.WordPress.AppPassword)
	env.setString("WP_AUTHOR_NAME", &c.WordPress.AuthorName)
	env.setString("WP_CATEGORY_NAME", &c.WordPress.CategoryName)
	env.setString("WP_CATEGORY_SLUG", &c.WordPress.CategorySlug)
	env.setInt64("WP_CATEGORY_ID", &c.WordPress.CategoryID)
	env.setInt64("WP_FEATURED_IMAGE_ID", &c.WordPress.FeaturedMediaID)
}
