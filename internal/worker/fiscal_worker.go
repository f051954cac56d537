package worker

// fiscal_worker.go
// Processes fiscal emission jobs from QueueFiscal.
// Sends the invoiced sale to the fiscal gateway sidecar and stores the
// authorization result. Implements exponential backoff (max 3 attempts);
// a sale left unauthorized stays pending for the retry cron.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"retailcore/internal/infra"
	"retailcore/internal/model"
	"retailcore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FiscalWorker processes fiscal emission jobs from QueueFiscal. It calls the
// fiscal gateway, stores the authorization, generates the PDF receipt and
// optionally enqueues a receipt email for the customer.
type FiscalWorker struct {
	fiscalClient   *infra.FiscalClient
	fiscalRepo     repository.FiscalRepository
	saleRepo       repository.SaleRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
	taxID          string
}

// NewFiscalWorker wires all dependencies for the emission worker.
func NewFiscalWorker(
	fiscalClient *infra.FiscalClient,
	fiscalRepo repository.FiscalRepository,
	saleRepo repository.SaleRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
	taxID string,
) *FiscalWorker {
	return &FiscalWorker{
		fiscalClient:   fiscalClient,
		fiscalRepo:     fiscalRepo,
		saleRepo:       saleRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
		taxID:          taxID,
	}
}

// Process handles a single emission job:
//  1. Parse FiscalJobPayload from the job envelope
//  2. Fetch the sale (with items and customer) from DB
//  3. Create the FiscalDocument record with status="pending"
//  4. Call the gateway with exponential backoff (max 3 attempts)
//  5. Update the document (auth code / status / notes)
//  6. Generate the PDF receipt
//  7. Enqueue a receipt email when the customer has one
func (w *FiscalWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload FiscalJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("fiscal_worker: invalid payload")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("fiscal_worker: invalid sale_id")
		return
	}

	sale, err := w.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("fiscal_worker: sale not found")
		return
	}

	doc := &model.FiscalDocument{
		SaleID: saleID,
		Total:  sale.Total,
		Status: "pending",
	}
	if err := w.fiscalRepo.Create(ctx, doc); err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("fiscal_worker: failed to create fiscal document")
		return
	}

	var emitResp *infra.EmitResponse
	emitErr := withRetry(ctx, 3, func(attempt int) error {
		resp, err := w.fiscalClient.Emit(ctx, emitPayload(w.taxID, doc, sale))
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("sale_id", payload.SaleID).
				Msg("fiscal_worker: gateway attempt failed, retrying")
			return err
		}
		emitResp = resp
		return nil
	})

	applyEmitResult(doc, emitResp, emitErr)
	_ = w.fiscalRepo.Update(ctx, doc)

	switch doc.Status {
	case "issued":
		log.Info().Str("auth_code", *doc.AuthCode).Str("sale_id", payload.SaleID).Msg("fiscal_worker: authorization obtained")
	case "rejected":
		log.Warn().Str("sale_id", payload.SaleID).Msg("fiscal_worker: gateway rejected the document")
	default:
		log.Error().Err(emitErr).Str("sale_id", payload.SaleID).Msg("fiscal_worker: gateway failed after all attempts")
	}

	pdfPath, pdfErr := infra.GenerateReceiptPDF(sale, w.pdfStoragePath)
	if pdfErr != nil {
		log.Warn().Err(pdfErr).Str("sale_id", payload.SaleID).Msg("fiscal_worker: PDF generation failed")
	} else {
		doc.PDFPath = &pdfPath
		_ = w.fiscalRepo.Update(ctx, doc)
	}

	if sale.Customer != nil && sale.Customer.Email != nil && *sale.Customer.Email != "" && pdfPath != "" {
		job := NotificationJobPayload{
			Kind:    NotifyReceipt,
			SaleID:  payload.SaleID,
			To:      *sale.Customer.Email,
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueNotification(ctx, job); err != nil {
			log.Warn().Err(err).Str("email", *sale.Customer.Email).Msg("fiscal_worker: failed to enqueue receipt email")
		}
	}
}

// emitPayload builds the gateway request for a sale.
func emitPayload(taxID string, doc *model.FiscalDocument, sale *model.Sale) infra.EmitPayload {
	return infra.EmitPayload{
		TaxID:    taxID,
		Terminal: 1,
		DocType:  1,
		Net:      sale.Total.InexactFloat64(),
		Tax:      0,
		Total:    sale.Total.InexactFloat64(),
		SaleID:   doc.SaleID.String(),
	}
}

// applyEmitResult folds the gateway outcome into the document. A transport
// failure keeps the document pending and schedules the retry cron.
func applyEmitResult(doc *model.FiscalDocument, resp *infra.EmitResponse, emitErr error) {
	if emitErr != nil {
		doc.Status = "pending"
		doc.RetryCount++
		errMsg := emitErr.Error()
		doc.LastError = &errMsg
		nextRetry := time.Now().Add(computeRetryBackoff(doc.RetryCount))
		doc.NextRetryAt = &nextRetry
		return
	}
	if resp == nil {
		return
	}
	if resp.Result == "A" {
		doc.Status = "issued"
		authCode := resp.AuthCode
		doc.AuthCode = &authCode
		if exp, err := parseAuthExpiration(resp.AuthExpiration); err == nil {
			doc.AuthExpiration = exp
		}
		doc.NextRetryAt = nil
		doc.LastError = nil
		return
	}
	doc.Status = "rejected"
	notes := fmt.Sprintf("gateway rejected the document: result=%s", resp.Result)
	doc.Notes = &notes
	doc.NextRetryAt = nil
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			// 1s, 2s … (exponential backoff)
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// parseAuthExpiration parses the date format returned by the authority
// ("YYYYMMDD").
func parseAuthExpiration(s string) (*time.Time, error) {
	t, err := time.Parse("20060102", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
