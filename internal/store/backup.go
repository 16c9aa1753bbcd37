package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// BackupVersion is written into every export.
const BackupVersion = "1.0"

// Import result messages.
const (
	MsgImportSuccess = "Data imported successfully"
	MsgInvalidBackup = "Invalid backup file format"
	MsgImportFailed  = "Failed to import data. Please check the file format."
)

// Backup is the document produced by ExportData.
type Backup struct {
	ExportDate   string              `json:"exportDate"`
	Version      string              `json:"version"`
	Transactions []model.Transaction `json:"transactions"`
	Categories   []model.Category    `json:"categories"`
}

// backupOrdered fixes the key order of the exported document.
type backupOrdered struct {
	Transactions []model.Transaction `json:"transactions"`
	Categories   []model.Category    `json:"categories"`
	ExportDate   string              `json:"exportDate"`
	Version      string              `json:"version"`
}

// ImportResult reports the outcome of ImportData.
type ImportResult struct {
	Message string
	Success bool
}

// ExportData renders the current transactions and categories as indented JSON.
// Goals are not part of the backup document.
func (s *Store) ExportData(ctx context.Context) (string, error) {
	doc := backupOrdered{
		Transactions: s.GetTransactions(ctx),
		Categories:   s.GetCategories(ctx),
		ExportDate:   model.FormatTimestamp(s.now()),
		Version:      BackupVersion,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}
	return string(data), nil
}

// ParseBackup validates a backup document without touching storage.
// The returned result is non-nil only on failure.
func ParseBackup(text string) (*Backup, *ImportResult) {
	trimmed := bytes.TrimSpace([]byte(text))
	if !json.Valid(trimmed) || isNull(trimmed) {
		return nil, &ImportResult{Message: MsgImportFailed}
	}

	// Well-formed JSON that is not an object has neither key.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, &ImportResult{Message: MsgInvalidBackup}
	}

	rawTxns, okTxns := fields["transactions"]
	rawCats, okCats := fields["categories"]
	if !okTxns || !okCats || isFalsy(rawTxns) || isFalsy(rawCats) {
		return nil, &ImportResult{Message: MsgInvalidBackup}
	}

	txns, err := decodeList[model.Transaction](rawTxns)
	if err != nil {
		return nil, &ImportResult{Message: MsgImportFailed}
	}
	cats, err := decodeList[model.Category](rawCats)
	if err != nil {
		return nil, &ImportResult{Message: MsgImportFailed}
	}

	b := &Backup{Transactions: txns, Categories: cats}
	_ = json.Unmarshal(fields["exportDate"], &b.ExportDate)
	_ = json.Unmarshal(fields["version"], &b.Version)
	return b, nil
}

// ImportData replaces transactions and categories with the contents of a
// backup document. Nothing is written unless the whole document is valid.
func (s *Store) ImportData(ctx context.Context, text string) ImportResult {
	backup, failure := ParseBackup(text)
	if failure != nil {
		s.logger.Warn("Rejected backup import", "reason", failure.Message)
		return *failure
	}

	previous, hadPrevious, readErr := s.medium.Read(ctx, TransactionsKey)

	if err := s.encode(ctx, TransactionsKey, backup.Transactions); err != nil {
		s.recordWrite(err)
		s.logger.Error("Failed to import transactions", "error", err)
		return ImportResult{Message: MsgImportFailed}
	}

	if err := s.encode(ctx, CategoriesKey, backup.Categories); err != nil {
		s.recordWrite(err)
		s.logger.Error("Failed to import categories", "error", err)
		s.restoreTransactions(ctx, previous, hadPrevious && readErr == nil)
		return ImportResult{Message: MsgImportFailed}
	}

	s.recordWrite(nil)
	s.logger.Info("Imported backup",
		"transactions", len(backup.Transactions),
		"categories", len(backup.Categories),
		"version", backup.Version)
	return ImportResult{Success: true, Message: MsgImportSuccess}
}

// restoreTransactions puts back the transactions document replaced by a
// partially failed import.
func (s *Store) restoreTransactions(ctx context.Context, previous string, had bool) {
	var err error
	if had {
		err = s.medium.Write(ctx, TransactionsKey, previous)
	} else {
		err = s.medium.Remove(ctx, TransactionsKey)
	}
	if err != nil {
		s.logger.Error("Failed to roll back transactions after import failure", "error", err)
	}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// isFalsy reports whether raw is null, false, zero or the empty string.
// Such a value counts as a missing key.
func isFalsy(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return !v
	case float64:
		return v == 0
	case string:
		return v == ""
	}
	return false
}
