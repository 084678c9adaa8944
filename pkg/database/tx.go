package database

import (
	"context"

	"gorm.io/gorm"
)

// Transaction runs fn inside a single database transaction. The transaction
// commits once on success; any error (or panic) rolls it back before the
// translated error is surfaced, so no partial writes are ever visible.
func Transaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if err := db.WithContext(ctx).Transaction(fn); err != nil {
		return Translate(err)
	}
	return nil
}
