package sqlite

import (
	"context"

	"github.com/lu-zhengda/aliaskit/internal/domain"
	"github.com/lu-zhengda/aliaskit/internal/store"
)

// ListCreatedAliases returns the full created-alias history, newest first.
// Stale entries are filtered at display time, not purged from storage.
func (s *DB) ListCreatedAliases(ctx context.Context) ([]domain.CreatedAlias, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT alias, target_address, created_at, created_for
		 FROM created_aliases ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, &store.StorageError{Op: "history list", Err: err}
	}
	defer rows.Close()

	var records []domain.CreatedAlias
	for rows.Next() {
		var rec domain.CreatedAlias
		if err := rows.Scan(&rec.Alias, &rec.TargetAddress, &rec.CreatedAt, &rec.CreatedFor); err != nil {
			return nil, &store.StorageError{Op: "history list", Err: err}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &store.StorageError{Op: "history list", Err: err}
	}
	return records, nil
}

// AppendCreatedAlias records a newly created alias.
func (s *DB) AppendCreatedAlias(ctx context.Context, rec domain.CreatedAlias) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO created_aliases (alias, target_address, created_at, created_for)
		 VALUES (?, ?, ?, ?)`,
		rec.Alias, rec.TargetAddress, rec.CreatedAt, rec.CreatedFor,
	)
	if err != nil {
		return &store.StorageError{Op: "history append", Err: err}
	}
	return nil
}

// RemoveCreatedAliasByAddress removes every history record whose alias
// equals address exactly. Removing an absent address is a no-op, so the
// operation is idempotent.
func (s *DB) RemoveCreatedAliasByAddress(ctx context.Context, address string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM created_aliases WHERE alias = ?`, address,
	)
	if err != nil {
		return &store.StorageError{Op: "history remove", Err: err}
	}
	return nil
}
