// Package config loads client configuration from STOCKLOT_* environment
// variables using github.com/caarlos0/env.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

const (
	// Hosted API used in production when no override is set.
	hostedAPIBaseURL = "http://136.118.5.61"
	// Dev hits the API directly on port 8080.
	localAPIBaseURL = "http://localhost:8080"

	defaultSessionDir  = ".stock-your-lot"
	defaultSessionFile = "session.json"
)

// Config is the environment-driven configuration for the client and CLI.
type Config struct {
	// APIBaseURL overrides the backend base URL when set.
	APIBaseURL string `env:"STOCKLOT_API_BASE_URL"`

	// Env selects the default base URL when no override is set:
	// "production" uses the hosted API, anything else local development.
	Env string `env:"STOCKLOT_ENV" envDefault:"development"`

	// SessionFile is where the identity session is persisted. Defaults to
	// ~/.stock-your-lot/session.json.
	SessionFile string `env:"STOCKLOT_SESSION_FILE"`

	// SessionPassphrase, when set, seals the session file at rest.
	SessionPassphrase string `env:"STOCKLOT_SESSION_PASSPHRASE"`

	// AppName is used for the CLI banner.
	AppName string `env:"STOCKLOT_APP_NAME" envDefault:"Stock Your Lot"`
}

// New loads configuration from the environment.
func New() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, errors.Wrap(err, "[config.New] env.Parse")
	}
	return c, nil
}

// APIBase resolves the backend base URL with fixed precedence: explicit
// override, then the production default, then local development. Any
// trailing slash is stripped so callers can join paths naively.
func (c Config) APIBase() string {
	if c.APIBaseURL != "" {
		return strings.TrimRight(c.APIBaseURL, "/")
	}
	if c.IsProduction() {
		return hostedAPIBaseURL
	}
	return localAPIBaseURL
}

// IsProduction reports whether the environment is production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

// SessionPath resolves the session file location, falling back to
// ~/.stock-your-lot/session.json (or the working directory when the home
// directory cannot be determined).
func (c Config) SessionPath() string {
	if c.SessionFile != "" {
		return c.SessionFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(defaultSessionDir, defaultSessionFile)
	}
	return filepath.Join(home, defaultSessionDir, defaultSessionFile)
}
