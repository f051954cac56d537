package infra

import (
	"fmt"

	"retailcore/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// to create / update all tables, then applies the idempotent SQL patches GORM
// cannot express (extensions, sequences).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := applyPreMigrationPatches(db); err != nil {
		return nil, fmt.Errorf("pre-migration patches: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Promotion{},
		&model.PriceTable{},
		&model.PriceRule{},
		&model.StockLedger{},
		&model.StockMovement{},
		&model.Customer{},
		&model.PaymentMethod{},
		&model.Sale{},
		&model.SaleLineItem{},
		&model.CommissionRule{},
		&model.CommissionEntry{},
		&model.Debtor{},
		&model.ReceivableAccount{},
		&model.Installment{},
		&model.FiscalDocument{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applyPreMigrationPatches runs before AutoMigrate: uuid defaults need
// pgcrypto in place before the first CREATE TABLE.
func applyPreMigrationPatches(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error
}

// applySchemaPatches runs after AutoMigrate. Each statement is idempotent so
// re-running on an already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Sale numbering is allocated from a sequence so concurrent creates
		// never collide.
		{"create sales number sequence",
			`CREATE SEQUENCE IF NOT EXISTS sales_number_seq START 1`},

		// A sale gets at most one receivable account.
		{"unique receivable per sale", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_receivable_accounts_sale_id') THEN
    CREATE UNIQUE INDEX uni_receivable_accounts_sale_id
      ON receivable_accounts (sale_id) WHERE sale_id IS NOT NULL;
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("%s: %w", p.descr, err)
		}
		log.Debug().Str("patch", p.descr).Msg("schema patch applied")
	}
	return nil
}
