package service

import (
	"context"
	"time"

	"retailcore/internal/dto"
	"retailcore/internal/model"
	"retailcore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FiscalService exposes the state of fiscal documents and lets operators
// force a retry of a stuck emission. Emission itself runs in the workers.
type FiscalService interface {
	GetBySaleID(ctx context.Context, saleID uuid.UUID) (*dto.FiscalDocumentResponse, error)
	// Retry reschedules a pending or errored document for immediate pickup
	// by the retry cron.
	Retry(ctx context.Context, id uuid.UUID) (*dto.FiscalDocumentResponse, error)
}

type fiscalService struct {
	repo repository.FiscalRepository
}

func NewFiscalService(repo repository.FiscalRepository) FiscalService {
	return &fiscalService{repo: repo}
}

func (s *fiscalService) GetBySaleID(ctx context.Context, saleID uuid.UUID) (*dto.FiscalDocumentResponse, error) {
	doc, err := s.repo.FindBySaleID(ctx, saleID)
	if err != nil {
		return nil, newValidationError("no fiscal document for this sale")
	}
	resp := fiscalResponse(doc)
	return &resp, nil
}

func (s *fiscalService) Retry(ctx context.Context, id uuid.UUID) (*dto.FiscalDocumentResponse, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, newValidationError("fiscal document not found")
	}
	if doc.Status == "issued" {
		return nil, newValidationError("fiscal document is already issued")
	}

	now := time.Now()
	doc.Status = "pending"
	doc.RetryCount = 0
	doc.NextRetryAt = &now
	doc.LastError = nil
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}

	log.Info().
		Str("document_id", id.String()).
		Str("sale_id", doc.SaleID.String()).
		Msg("fiscal document rescheduled for retry")

	resp := fiscalResponse(doc)
	return &resp, nil
}

func fiscalResponse(d *model.FiscalDocument) dto.FiscalDocumentResponse {
	resp := dto.FiscalDocumentResponse{
		ID:        d.ID.String(),
		SaleID:    d.SaleID.String(),
		Number:    d.Number,
		AuthCode:  d.AuthCode,
		Total:     d.Total,
		Status:    d.Status,
		PDFUrl:    d.PDFPath,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
	if d.AuthExpiration != nil {
		exp := d.AuthExpiration.Format("2006-01-02")
		resp.AuthExpiration = &exp
	}
	return resp
}
