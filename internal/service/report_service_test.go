package service

import (
	"context"
	"testing"
	"time"

	"retailcore/internal/dto"
	"retailcore/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReportRepo struct {
	summary   repository.SalesSummaryRow
	valuation []repository.StockValuationRow
	invoiced  decimal.Decimal

	from, to time.Time
}

var _ repository.ReportRepository = (*stubReportRepo)(nil)

func (r *stubReportRepo) SalesSummary(_ context.Context, from, to time.Time) (repository.SalesSummaryRow, error) {
	r.from, r.to = from, to
	return r.summary, nil
}

func (r *stubReportRepo) StockValuation(_ context.Context) ([]repository.StockValuationRow, error) {
	return r.valuation, nil
}

func (r *stubReportRepo) InvoicedCost(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	r.from, r.to = from, to
	return r.invoiced, nil
}

func reportServiceAt(repo *stubReportRepo, now time.Time) ReportService {
	svc := NewReportService(repo).(*reportService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestDailySalesReport(t *testing.T) {
	repo := &stubReportRepo{summary: repository.SalesSummaryRow{Count: 3, Total: dec("150.00")}}
	now := time.Date(2026, time.August, 30, 15, 4, 5, 0, time.Local)

	resp, err := reportServiceAt(repo, now).DailySales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30", resp.Date)
	assert.Equal(t, int64(3), resp.SaleCount)
	assert.True(t, resp.TotalSales.Equal(dec("150.00")), "got %s", resp.TotalSales)

	// The query window is the calendar day.
	assert.Equal(t, time.Date(2026, time.August, 30, 0, 0, 0, 0, time.Local), repo.from)
	assert.Equal(t, time.Date(2026, time.August, 31, 0, 0, 0, 0, time.Local), repo.to)
}

func TestMonthlySalesReport(t *testing.T) {
	repo := &stubReportRepo{summary: repository.SalesSummaryRow{Count: 40, Total: dec("1999.90")}}
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.Local)

	resp, err := reportServiceAt(repo, now).MonthlySales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2026, resp.Year)
	assert.Equal(t, 8, resp.Month)
	assert.Equal(t, int64(40), resp.SaleCount)

	assert.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.Local), repo.from)
	assert.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.Local), repo.to)
}

func TestStockValuationReport(t *testing.T) {
	repo := &stubReportRepo{valuation: []repository.StockValuationRow{
		{ProductID: uuid.New(), ProductName: "Espresso Beans 1kg", Quantity: 2, AvgUnitCost: dec("3.50")},
		{ProductID: uuid.New(), ProductName: "Grinder", Quantity: 5, AvgUnitCost: dec("10.00")},
	}}

	resp, err := NewReportService(repo).StockValuation(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	// 2*3.50 + 5*10.00
	assert.True(t, resp.TotalCost.Equal(dec("57.00")), "got %s", resp.TotalCost)
}

func TestInvoicedCostReport(t *testing.T) {
	repo := &stubReportRepo{invoiced: dec("321.00")}
	svc := NewReportService(repo)

	resp, err := svc.InvoicedCost(context.Background(), dto.InvoicedCostReportRequest{
		From: "2026-08-01", To: "2026-08-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-08-01", resp.From)
	assert.Equal(t, "2026-08-31", resp.To)
	assert.True(t, resp.InvoicedCost.Equal(dec("321.00")), "got %s", resp.InvoicedCost)

	// The to date is inclusive, so the repo bound is the next midnight.
	assert.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.Local), repo.from)
	assert.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.Local), repo.to)
}

func TestInvoicedCostReport_RejectsBadPeriod(t *testing.T) {
	svc := NewReportService(&stubReportRepo{})
	var verr *ValidationError

	_, err := svc.InvoicedCost(context.Background(), dto.InvoicedCostReportRequest{From: "bogus", To: "2026-08-31"})
	require.ErrorAs(t, err, &verr)

	_, err = svc.InvoicedCost(context.Background(), dto.InvoicedCostReportRequest{From: "2026-08-31", To: "2026-08-01"})
	require.ErrorAs(t, err, &verr)
}
