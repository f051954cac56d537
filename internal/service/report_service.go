package service

import (
	"context"
	"time"

	"retailcore/internal/dto"
	"retailcore/internal/repository"

	"github.com/shopspring/decimal"
)

const reportDateLayout = "2006-01-02"

// ReportService serves the read-only management reports: sales summaries,
// the current stock valuation and the invoiced stock cost of a period.
type ReportService interface {
	DailySales(ctx context.Context) (*dto.DailySalesReportResponse, error)
	MonthlySales(ctx context.Context) (*dto.MonthlySalesReportResponse, error)
	StockValuation(ctx context.Context) (*dto.StockValuationResponse, error)
	InvoicedCost(ctx context.Context, req dto.InvoicedCostReportRequest) (*dto.InvoicedCostReportResponse, error)
}

type reportService struct {
	repo repository.ReportRepository
	now  func() time.Time
}

func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo, now: time.Now}
}

func (s *reportService) DailySales(ctx context.Context) (*dto.DailySalesReportResponse, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	row, err := s.repo.SalesSummary(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return &dto.DailySalesReportResponse{
		Date:       from.Format(reportDateLayout),
		SaleCount:  row.Count,
		TotalSales: row.Total,
	}, nil
}

func (s *reportService) MonthlySales(ctx context.Context) (*dto.MonthlySalesReportResponse, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	row, err := s.repo.SalesSummary(ctx, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	return &dto.MonthlySalesReportResponse{
		Year:       from.Year(),
		Month:      int(from.Month()),
		SaleCount:  row.Count,
		TotalSales: row.Total,
	}, nil
}

func (s *reportService) StockValuation(ctx context.Context) (*dto.StockValuationResponse, error) {
	rows, err := s.repo.StockValuation(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.StockValuationItemResponse, 0, len(rows))
	total := decimal.Zero
	for _, row := range rows {
		items = append(items, dto.StockValuationItemResponse{
			ProductID:   row.ProductID.String(),
			Product:     row.ProductName,
			Quantity:    row.Quantity,
			AvgUnitCost: row.AvgUnitCost,
		})
		total = total.Add(row.AvgUnitCost.Mul(decimal.NewFromInt(int64(row.Quantity))))
	}
	return &dto.StockValuationResponse{Items: items, TotalCost: total}, nil
}

func (s *reportService) InvoicedCost(ctx context.Context, req dto.InvoicedCostReportRequest) (*dto.InvoicedCostReportResponse, error) {
	from, err := time.ParseInLocation(reportDateLayout, req.From, time.Local)
	if err != nil {
		return nil, newValidationError("invalid from date")
	}
	to, err := time.ParseInLocation(reportDateLayout, req.To, time.Local)
	if err != nil {
		return nil, newValidationError("invalid to date")
	}
	if to.Before(from) {
		return nil, newValidationError("to must not precede from")
	}

	// The to date is inclusive: push the query bound past its last instant.
	cost, err := s.repo.InvoicedCost(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return &dto.InvoicedCostReportResponse{
		From:         req.From,
		To:           req.To,
		InvoicedCost: cost,
	}, nil
}
