package worker

// notify_worker.go
// Processes notification jobs from QueueNotify: customer receipt emails,
// low-stock alerts and sale-completed notices for the back office.

import (
	"context"
	"encoding/json"
	"fmt"

	"retailcore/internal/infra"

	"github.com/rs/zerolog/log"
)

// NotifyWorker delivers notification jobs via SMTP. Alerts without an
// explicit recipient go to the configured back-office address.
type NotifyWorker struct {
	mailer     *infra.Mailer
	alertEmail string
}

// NewNotifyWorker creates a NotifyWorker with the provided SMTP mailer.
func NewNotifyWorker(mailer *infra.Mailer, alertEmail string) *NotifyWorker {
	return &NotifyWorker{mailer: mailer, alertEmail: alertEmail}
}

// Process renders and sends one notification email.
func (w *NotifyWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload NotificationJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notify_worker: invalid payload")
		return
	}

	to := payload.To
	if to == "" {
		to = w.alertEmail
	}
	if to == "" {
		log.Warn().Str("kind", payload.Kind).Msg("notify_worker: no recipient configured — skipping")
		return
	}

	var subject, body, pdfPath string
	switch payload.Kind {
	case NotifyReceipt:
		subject = "Your purchase receipt"
		body = "Attached you will find the receipt for your purchase."
		pdfPath = payload.PDFPath
	case NotifyLowStock:
		subject = fmt.Sprintf("Low stock alert: %s", payload.Product)
		body = fmt.Sprintf("Product %s is down to %d units (threshold: %d).",
			payload.Product, payload.Quantity, payload.MinStock)
	case NotifySaleCompleted:
		subject = "Sale invoiced"
		body = fmt.Sprintf("Sale %s has been invoiced.", payload.SaleID)
	default:
		log.Warn().Str("kind", payload.Kind).Msg("notify_worker: unknown notification kind")
		return
	}

	if err := w.mailer.Send(to, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("to", to).Str("kind", payload.Kind).Msg("notify_worker: failed to send email")
		return
	}
	log.Info().Str("to", to).Str("kind", payload.Kind).Msg("notify_worker: notification sent")
}
