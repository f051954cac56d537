package service

import (
	"context"

	"gorm.io/gorm"
)

// defaultLockTimeout bounds FOR UPDATE waits so a busy row surfaces as
// ErrBusy instead of stalling the request.
const defaultLockTimeout = "3s"

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// setLockTimeout bounds every row-lock wait inside the transaction. A wait
// exceeding the timeout raises SQLSTATE 55P03, surfaced as ErrBusy.
func setLockTimeout(tx *gorm.DB, timeout string) error {
	if tx == nil {
		return nil
	}
	return tx.Exec("SET LOCAL lock_timeout = '" + timeout + "'").Error
}
