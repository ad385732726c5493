package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lu-zhengda/aliaskit/internal/domain"
	"github.com/lu-zhengda/aliaskit/internal/store"
)

const settingsKey = "settings"

// Settings returns the persisted settings record, or defaults if nothing
// has been saved yet.
func (s *DB) Settings(ctx context.Context) (domain.Settings, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, settingsKey,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, &store.StorageError{Op: "settings read", Err: err}
	}

	// Decode over defaults so fields added after the record was written
	// keep their default values.
	settings := domain.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return domain.Settings{}, &store.StorageError{
			Op:  "settings read",
			Err: fmt.Errorf("failed to decode settings: %w", err),
		}
	}
	return settings, nil
}

// SaveSettings fetches the current record, applies the patch, and persists
// the whole record. Last writer wins.
func (s *DB) SaveSettings(ctx context.Context, patch domain.SettingsPatch) error {
	settings, err := s.Settings(ctx)
	if err != nil {
		return err
	}
	patch.Apply(&settings)
	return s.writeSettings(ctx, settings)
}

// ResetSettings replaces the persisted record with defaults.
func (s *DB) ResetSettings(ctx context.Context) error {
	return s.writeSettings(ctx, domain.DefaultSettings())
}

func (s *DB) writeSettings(ctx context.Context, settings domain.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return &store.StorageError{
			Op:  "settings write",
			Err: fmt.Errorf("failed to encode settings: %w", err),
		}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		settingsKey, string(data),
	)
	if err != nil {
		return &store.StorageError{Op: "settings write", Err: err}
	}
	return nil
}

// IsFirstRun reports whether first-run setup has not completed yet.
func (s *DB) IsFirstRun(ctx context.Context) (bool, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return false, err
	}
	return settings.IsFirstRun, nil
}

// SetFirstRunComplete marks first-run setup as done.
func (s *DB) SetFirstRunComplete(ctx context.Context) error {
	return s.SaveSettings(ctx, domain.SettingsPatch{IsFirstRun: domain.Ptr(false)})
}
