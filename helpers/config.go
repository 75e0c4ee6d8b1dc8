package helpers

import (
	"os"

	"github.com/Jeffail/gabs"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// environment variables that override config.json paths, secrets mostly
var envOverrides = map[string]string{
	"DISCORD_TOKEN":      "discord.token",
	"MONGODB_URL":        "mongodb.url",
	"REDIS_ADDRESS":      "redis.address",
	"SENTRY_DSN":         "sentry",
	"WOLFRAMALPHA_APPID": "wolframalpha.appid",
	"ALPHAVANTAGE_KEY":   "currency.alphavantage_key",
}

// Config wraps the parsed config.json
type Config struct {
	container *gabs.Container
}

// LoadConfig loads the config from $path and applies environment overrides.
// A .env file next to the binary is read if present.
func LoadConfig(path string) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "loading .env failed")
	}

	json, err := gabs.ParseJSONFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "parsing "+path+" failed")
	}

	config := NewConfig(json)
	config.applyEnv(os.LookupEnv)
	return config, nil
}

// NewConfig wraps an already parsed container
func NewConfig(container *gabs.Container) *Config {
	if container == nil {
		container = gabs.New()
	}
	return &Config{container: container}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	for key, path := range envOverrides {
		value, ok := lookup(key)
		if !ok || value == "" {
			continue
		}
		c.container.SetP(value, path)
	}
}

// String returns the string at $path or $fallback if it is missing or not a string
func (c *Config) String(path string, fallback string) string {
	if !c.container.ExistsP(path) {
		return fallback
	}
	value, ok := c.container.Path(path).Data().(string)
	if !ok {
		return fallback
	}
	return value
}

// Bool returns the bool at $path or false
func (c *Config) Bool(path string) bool {
	value, _ := c.container.Path(path).Data().(bool)
	return value
}

// Int returns the number at $path or $fallback
func (c *Config) Int(path string, fallback int) int {
	if !c.container.ExistsP(path) {
		return fallback
	}
	switch value := c.container.Path(path).Data().(type) {
	case float64:
		return int(value)
	case int:
		return value
	}
	return fallback
}
