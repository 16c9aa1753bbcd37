package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/config"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/storage"
	"github.com/Veraticus/expense-tracker/internal/store"
)

// now is the clock used for new ids, goal windows and export dates.
var now = time.Now

var (
	ephemeralOnce   sync.Once
	ephemeralMedium *storage.MemoryStorage
)

// memoryMedium is shared by every command in the process when --ephemeral is set.
func memoryMedium() *storage.MemoryStorage {
	ephemeralOnce.Do(func() {
		ephemeralMedium = storage.NewMemoryStorage(storage.WithQuota(viper.GetInt("database.quota_bytes")))
	})
	return ephemeralMedium
}

// session bundles an open store with the medium behind it.
type session struct {
	store  *store.Store
	medium storage.Medium
	money  *cli.Money
	close  func() error
}

// openSession opens the configured medium, migrating SQLite on the way.
func openSession(ctx context.Context) (*session, error) {
	money, err := cli.NewMoney(viper.GetString("display.currency"))
	if err != nil {
		return nil, common.NewUserError("Invalid display.currency", err)
	}

	var (
		medium storage.Medium
		closer = func() error { return nil }
	)

	if viper.GetBool("database.ephemeral") {
		medium = memoryMedium()
	} else {
		dbPath := viper.GetString("database.path")
		if dbPath == "" {
			dbPath = config.DefaultDatabasePath()
		}
		dbPath = config.ExpandPath(dbPath)

		db, err := storage.NewSQLiteStorage(dbPath, storage.WithQuota(viper.GetInt("database.quota_bytes")))
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		medium = db
		closer = db.Close
	}

	return &session{
		store:  store.New(medium, store.WithLogger(slog.Default()), store.WithClock(now)),
		medium: medium,
		money:  money,
		close:  closer,
	}, nil
}

// Close releases the medium, logging instead of failing.
func (s *session) Close() {
	if err := s.close(); err != nil {
		common.LogError(err, "Failed to close storage", nil)
	}
}

// checkSaved turns a swallowed store write failure into a command error.
func (s *session) checkSaved(what string) error {
	if err := s.store.LastWriteError(); err != nil {
		return common.NewUserError("Could not save "+what, err)
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	current := now()
	if value == "" {
		return current, nil
	}
	t, err := model.ParseTimestampIn(value, current.Location())
	if err != nil {
		return time.Time{}, common.NewUserError("Invalid date "+value, err)
	}
	return t, nil
}

// resolveCategory finds ref by id or name and checks it accepts txType.
func resolveCategory(cats []model.Category, ref string, txType model.TransactionType) (model.Category, error) {
	c, ok := store.ResolveCategory(cats, ref)
	if !ok {
		return model.Category{}, common.NewUserError(fmt.Sprintf("Unknown category %q", ref), model.ErrInvalidCategory)
	}
	if txType != "" && c.Type != txType {
		return model.Category{}, common.NewUserError(
			fmt.Sprintf("%s is an %s category", c.Name, c.Type), model.ErrCategoryType)
	}
	return c, nil
}
