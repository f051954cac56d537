package repository

import (
	"context"
	"time"

	"retailcore/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesSummaryRow aggregates sale count and revenue over a period.
type SalesSummaryRow struct {
	Count int64
	Total decimal.Decimal
}

// StockValuationRow is one ledger line priced at its weighted average cost.
type StockValuationRow struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	AvgUnitCost decimal.Decimal
}

// ReportRepository runs the read-only aggregation queries behind the
// reporting endpoints.
type ReportRepository interface {
	// SalesSummary counts open and invoiced sales created in [from, to)
	// and sums their totals.
	SalesSummary(ctx context.Context, from, to time.Time) (SalesSummaryRow, error)
	StockValuation(ctx context.Context) ([]StockValuationRow, error)
	// InvoicedCost sums quantity * cost snapshot over the line items of
	// invoiced sales created in [from, to).
	InvoicedCost(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) SalesSummary(ctx context.Context, from, to time.Time) (SalesSummaryRow, error) {
	var row SalesSummaryRow
	err := r.db.WithContext(ctx).
		Model(&model.Sale{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Where("status IN ?", []string{model.SaleOpen, model.SaleInvoiced}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&row).Error
	return row, err
}

func (r *reportRepo) StockValuation(ctx context.Context) ([]StockValuationRow, error) {
	var rows []StockValuationRow
	err := r.db.WithContext(ctx).
		Table("stock_ledgers").
		Select("stock_ledgers.product_id, products.name AS product_name, stock_ledgers.quantity, stock_ledgers.avg_unit_cost").
		Joins("JOIN products ON products.id = stock_ledgers.product_id").
		Order("products.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) InvoicedCost(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).
		Table("sale_line_items").
		Select("COALESCE(SUM(sale_line_items.quantity * sale_line_items.unit_cost_snapshot), 0) AS total").
		Joins("JOIN sales ON sales.id = sale_line_items.sale_id").
		Where("sales.status = ?", model.SaleInvoiced).
		Where("sales.created_at >= ? AND sales.created_at < ?", from, to).
		Scan(&row).Error
	return row.Total, err
}
