package store

import (
	"context"
	"fmt"

	"github.com/lu-zhengda/aliaskit/internal/domain"
)

// Store defines the persistence interface for settings and created-alias
// history. Saves are read-merge-write with last-writer-wins semantics; there
// is no optimistic concurrency.
type Store interface {
	// Settings
	Settings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, patch domain.SettingsPatch) error
	ResetSettings(ctx context.Context) error
	IsFirstRun(ctx context.Context) (bool, error)
	SetFirstRunComplete(ctx context.Context) error

	// Created-alias history
	ListCreatedAliases(ctx context.Context) ([]domain.CreatedAlias, error)
	AppendCreatedAlias(ctx context.Context, rec domain.CreatedAlias) error
	RemoveCreatedAliasByAddress(ctx context.Context, address string) error

	// Lifecycle
	Close() error
}

// StorageError marks a persistence failure. Best-effort callers log and
// swallow it rather than failing the primary operation it accompanies.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
