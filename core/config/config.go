// Package config loads the ambient environment-derived settings the shell
// is allowed to consult: PATH, HOME and HISTFILE (see spec.md §6). It is
// deliberately not a file-based configuration system — prompt strings and
// HISTFILE placement are treated as owned by the enclosing environment, not
// by this package.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds the environment-derived settings consulted by the shell.
type Config struct {
	// Path holds the PATH directories in search order, empty entries
	// removed.
	Path []string

	// Home is $HOME, consulted by cd with no argument and by cd ~.
	Home string `validate:"omitempty"`

	// HistFile is $HISTFILE, consulted on startup/shutdown for history
	// persistence. Empty means history is not persisted to disk.
	HistFile string `validate:"omitempty,absolutepath"`
}

// Load reads PATH, HOME and HISTFILE from the process environment.
func Load() (*Config, error) {
	cfg := &Config{
		Path:     splitPath(os.Getenv("PATH")),
		Home:     os.Getenv("HOME"),
		HistFile: os.Getenv("HISTFILE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the loaded settings are self-consistent.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("absolutepath", validateAbsolutePath); err != nil {
		return err
	}

	return validate.Struct(c)
}

func validateAbsolutePath(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return filepath.IsAbs(value)
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}

	var dirs []string
	for _, dir := range strings.Split(path, string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}
		dirs = append(dirs, dir)
	}
	return dirs
}
