package worker

// retry_cron.go
// Background goroutine that periodically re-attempts gateway calls for
// fiscal documents stuck in status='pending' with a next_retry_at in the
// past. Uses the circuit breaker to avoid hammering a downed gateway.

import (
	"context"
	"fmt"
	"time"

	"retailcore/internal/infra"
	"retailcore/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10

	// MaxFiscalRetries is the total number of cron re-attempts before a
	// document is parked in status="error" and sent to the DLQ.
	MaxFiscalRetries = 5
)

// computeRetryBackoff doubles the wait per attempt: 1m, 2m, 4m…
func computeRetryBackoff(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	return time.Duration(1<<uint(retryCount-1)) * time.Minute
}

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	FiscalRepo   repository.FiscalRepository
	FiscalClient *infra.FiscalClient
	CB           *infra.CircuitBreaker
	RDB          *redis.Client
	TaxID        string
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries pending fiscal documents, and re-attempts gateway calls through
// the circuit breaker. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If the breaker is open, skip entirely — don't hammer a downed gateway
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	now := time.Now()
	docs, err := cfg.FiscalRepo.ListPendingRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(docs) == 0 {
		return
	}

	log.Info().Int("count", len(docs)).Msg("retry_cron: processing pending fiscal documents")

	for i := range docs {
		doc := &docs[i]

		// Check breaker state before each call — it may have tripped mid-batch
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			return
		}

		payload := infra.EmitPayload{
			TaxID:    cfg.TaxID,
			Terminal: 1,
			DocType:  1,
			Net:      doc.Total.InexactFloat64(),
			Tax:      0,
			Total:    doc.Total.InexactFloat64(),
			SaleID:   doc.SaleID.String(),
		}

		var emitResp *infra.EmitResponse
		cbErr := cfg.CB.Execute(func() error {
			resp, err := cfg.FiscalClient.Emit(ctx, payload)
			if err != nil {
				return err
			}
			emitResp = resp
			return nil
		})

		if cbErr != nil {
			doc.RetryCount++
			errMsg := cbErr.Error()
			doc.LastError = &errMsg
			nextRetry := time.Now().Add(computeRetryBackoff(doc.RetryCount))
			doc.NextRetryAt = &nextRetry

			if doc.RetryCount >= MaxFiscalRetries {
				doc.Status = "error"
				doc.NextRetryAt = nil
				log.Error().
					Str("document_id", doc.ID.String()).
					Str("sale_id", doc.SaleID.String()).
					Int("retries", doc.RetryCount).
					Msg("retry_cron: max retries exceeded, moving to error/DLQ")

				// Park in the DLQ for manual inspection
				raw := fmt.Sprintf(`{"sale_id":"%s","document_id":"%s"}`, doc.SaleID, doc.ID)
				SendToDLQ(ctx, cfg.RDB, QueueFiscal, "fiscal", []byte(raw),
					fmt.Sprintf("max retries (%d) exceeded: %s", MaxFiscalRetries, errMsg),
					doc.RetryCount)
			} else {
				log.Warn().
					Str("document_id", doc.ID.String()).
					Int("retry_count", doc.RetryCount).
					Time("next_retry_at", *doc.NextRetryAt).
					Msg("retry_cron: gateway retry failed, scheduled next attempt")
			}

			_ = cfg.FiscalRepo.Update(ctx, doc)
			continue
		}

		// Success path
		applyEmitResult(doc, emitResp, nil)
		_ = cfg.FiscalRepo.Update(ctx, doc)

		if doc.Status == "issued" {
			log.Info().
				Str("auth_code", *doc.AuthCode).
				Str("document_id", doc.ID.String()).
				Int("total_retries", doc.RetryCount).
				Msg("retry_cron: authorization obtained after retry")
		} else {
			log.Warn().
				Str("document_id", doc.ID.String()).
				Msg("retry_cron: gateway rejected on retry")
		}
	}
}
