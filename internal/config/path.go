// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DefaultDatabasePath is where the SQLite medium lives unless configured.
func DefaultDatabasePath() string {
	return ExpandPath("~/.local/share/expense/expense.db")
}

// DefaultConfigDir holds config.yaml and the Sheets OAuth token.
func DefaultConfigDir() string {
	return ExpandPath("~/.config/expense")
}
