package repository

import (
	"context"
	"errors"

	"retailcore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockMovementFilter narrows movement listings.
type StockMovementFilter struct {
	ProductID *uuid.UUID
	Kind      string
	Page      int
	Limit     int
}

// LowStockRow pairs a ledger with its product's notification threshold.
type LowStockRow struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	MinStock    int
}

// StockRepository persists the ledger and its movement audit trail. The
// ledger row is only ever written while held under LedgerForUpdateTx.
type StockRepository interface {
	LedgerFor(ctx context.Context, productID uuid.UUID) (*model.StockLedger, error)
	// LedgerForUpdateTx gets or creates the product's ledger row under an
	// exclusive lock. The lock serializes all movements for that product
	// until the surrounding transaction ends.
	LedgerForUpdateTx(tx *gorm.DB, productID uuid.UUID) (*model.StockLedger, error)
	SaveLedgerTx(tx *gorm.DB, l *model.StockLedger) error
	CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error
	ListMovements(ctx context.Context, filter StockMovementFilter) ([]model.StockMovement, int64, error)
	LowStock(ctx context.Context) ([]LowStockRow, error)
	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) DB() *gorm.DB { return r.db }

func (r *stockRepo) LedgerFor(ctx context.Context, productID uuid.UUID) (*model.StockLedger, error) {
	var l model.StockLedger
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&l).Error
	return &l, err
}

func (r *stockRepo) LedgerForUpdateTx(tx *gorm.DB, productID uuid.UUID) (*model.StockLedger, error) {
	var l model.StockLedger
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		l = model.StockLedger{ProductID: productID}
		if err := tx.Create(&l).Error; err != nil {
			return nil, err
		}
		// Re-read under the lock: a concurrent creator may have won the race.
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ?", productID).First(&l).Error
	}
	return &l, err
}

func (r *stockRepo) SaveLedgerTx(tx *gorm.DB, l *model.StockLedger) error {
	return tx.Save(l).Error
}

func (r *stockRepo) CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockRepo) ListMovements(ctx context.Context, filter StockMovementFilter) ([]model.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).Preload("Product")
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var movements []model.StockMovement
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&movements).Error
	return movements, total, err
}

func (r *stockRepo) LowStock(ctx context.Context) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := r.db.WithContext(ctx).
		Table("stock_ledgers").
		Select("stock_ledgers.product_id, products.name AS product_name, stock_ledgers.quantity, products.min_stock").
		Joins("JOIN products ON products.id = stock_ledgers.product_id AND products.active = true").
		Where("stock_ledgers.quantity <= products.min_stock").
		Order("stock_ledgers.quantity ASC").
		Scan(&rows).Error
	return rows, err
}
