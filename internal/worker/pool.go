package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueFiscal = "jobs:fiscal"
	QueueNotify = "jobs:notify"
)

// Notification kinds routed by the notify worker.
const (
	NotifySaleCompleted = "sale_completed"
	NotifyLowStock      = "low_stock"
	NotifyReceipt       = "receipt"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// FiscalJobPayload is the job envelope sent to QueueFiscal.
type FiscalJobPayload struct {
	SaleID string `json:"sale_id"`
}

// NotificationJobPayload is the job envelope sent to QueueNotify.
type NotificationJobPayload struct {
	Kind      string `json:"kind"`
	SaleID    string `json:"sale_id,omitempty"`
	ProductID string `json:"product_id,omitempty"`
	Product   string `json:"product,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	MinStock  int    `json:"min_stock,omitempty"`
	// To overrides the configured alert recipient (customer receipts).
	To string `json:"to,omitempty"`
	// PDFPath, when set, is attached to the outgoing email.
	PDFPath string `json:"pdf_path,omitempty"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueFiscal pushes a fiscal emission job to Redis.
func (d *Dispatcher) EnqueueFiscal(ctx context.Context, payload FiscalJobPayload) error {
	return d.enqueue(ctx, QueueFiscal, "fiscal", payload)
}

// EnqueueNotification pushes a notification job to Redis.
func (d *Dispatcher) EnqueueNotification(ctx context.Context, payload NotificationJobPayload) error {
	return d.enqueue(ctx, QueueNotify, "notification", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handlers groups the queue consumers wired into the pool.
type Handlers struct {
	Fiscal *FiscalWorker
	Notify *NotifyWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers Handlers) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers Handlers) {
	queues := []string{QueueFiscal, QueueNotify}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, rdb, queue, "unknown", json.RawMessage(raw), "malformed envelope", 1)
		return
	}

	switch queue {
	case QueueFiscal:
		if handlers.Fiscal != nil {
			handlers.Fiscal.Process(ctx, job.Payload)
		}
	case QueueNotify:
		if handlers.Notify != nil {
			handlers.Notify.Process(ctx, job.Payload)
		}
	default:
		log.Warn().Str("queue", queue).Str("type", job.Type).Msg("no handler for queue")
	}
}
