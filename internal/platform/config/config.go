// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Server holds the HTTP server settings.
type Server struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	DocsPath        string        `envconfig:"DOCS_PATH" default:"/api-docs"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Addr returns the listen address for http.Server.
func (s Server) Addr() string {
	return ":" + s.Port
}

// LoadDotEnv reads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are ignored so
// the same binary runs unchanged inside the container, where .env is absent.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// LoadServer reads Server from the environment, applying defaults.
func LoadServer() (Server, error) {
	var cfg Server
	if err := envconfig.Process("", &cfg); err != nil {
		return Server{}, fmt.Errorf("load server config: %w", err)
	}
	if cfg.Port == "" {
		return Server{}, errors.New("load server config: PORT must not be empty")
	}
	return cfg, nil
}
