package service

import (
	"context"

	"gorm.io/gorm"
)

// runInTx executes fn inside a transaction. If the caller already holds one
// (outer workflows like product intake pass theirs down), it is reused and
// commit/rollback stays with the caller. db == nil runs fn directly — unit
// test mode with stub repositories.
func runInTx(ctx context.Context, db, tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx != nil {
		return fn(tx)
	}
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
