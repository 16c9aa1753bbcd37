package tui

import (
	"time"

	"github.com/Veraticus/expense-tracker/internal/aggregate"
	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme       themes.Theme
	Store       DataSource
	Money       *cli.Money
	Now         func() time.Time
	Width       int
	Height      int
	RecentLimit int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:       themes.Default,
		Money:       cli.MustMoney(cli.DefaultCurrency),
		Now:         time.Now,
		Width:       80,
		Height:      24,
		RecentLimit: aggregate.RecentLimit,
	}
}

// WithStore sets where the dashboard reads its data.
func WithStore(s DataSource) Option {
	return func(c *Config) {
		c.Store = s
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithMoney sets the currency formatter.
func WithMoney(m *cli.Money) Option {
	return func(c *Config) {
		if m != nil {
			c.Money = m
		}
	}
}

// WithClock sets the time source used for goal windows.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		if now != nil {
			c.Now = now
		}
	}
}

// WithRecentLimit sets how many transactions the dashboard lists.
func WithRecentLimit(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.RecentLimit = n
		}
	}
}
