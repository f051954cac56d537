package service

import (
	"context"
	"errors"
	"time"

	"retailcore/internal/dto"
	"retailcore/internal/model"
	"retailcore/internal/money"
	"retailcore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StockService owns the per-product ledger: quantity and weighted-average
// cost. Every change goes through an immutable movement applied under the
// ledger row lock.
type StockService interface {
	// RegisterMovement records an entry or a manual adjustment. Exits are
	// only ever produced by invoicing a sale.
	RegisterMovement(ctx context.Context, req dto.RegisterMovementRequest) (*dto.MovementResponse, error)
	ListMovements(ctx context.Context, req dto.MovementFilterRequest) (*dto.MovementListResponse, error)
	Ledger(ctx context.Context, productID uuid.UUID) (*dto.LedgerResponse, error)
	LowStockAlerts(ctx context.Context) ([]dto.LowStockAlertResponse, error)
	// LockLedgerTx acquires the product's ledger row lock and returns the
	// current balance. Callers locking several products must do so in
	// ascending product-id order to avoid deadlocks.
	LockLedgerTx(tx *gorm.DB, productID uuid.UUID) (*model.StockLedger, error)
	// AppendMovementTx locks the product's ledger row, applies the movement
	// and persists both. For exits the movement's UnitCost is stamped with
	// the ledger's average cost at the moment of the exit. Callers must hold
	// a transaction with lock_timeout already set.
	AppendMovementTx(tx *gorm.DB, m *model.StockMovement) (*model.StockLedger, error)
}

type stockService struct {
	repo repository.StockRepository
}

func NewStockService(repo repository.StockRepository) StockService {
	return &stockService{repo: repo}
}

func (s *stockService) RegisterMovement(ctx context.Context, req dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, newValidationError("invalid product_id")
	}
	switch req.Kind {
	case model.MovementEntry:
		if req.Quantity <= 0 {
			return nil, newValidationError("entry quantity must be greater than zero")
		}
		if req.UnitCost.IsNegative() {
			return nil, newValidationError("unit cost cannot be negative")
		}
	case model.MovementAdjustment:
		if req.Quantity == 0 {
			return nil, newValidationError("adjustment delta cannot be zero")
		}
	default:
		return nil, newValidationError("kind must be entry or adjustment")
	}

	movement := model.StockMovement{
		ProductID: productID,
		Kind:      req.Kind,
		Quantity:  req.Quantity,
		UnitCost:  req.UnitCost,
		Reason:    req.Reason,
		Reference: req.Reference,
	}

	var ledger *model.StockLedger
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := setLockTimeout(tx, defaultLockTimeout); err != nil {
			return err
		}
		ledger, err = s.AppendMovementTx(tx, &movement)
		return err
	})
	if txErr != nil {
		if isLockTimeout(txErr) {
			return nil, ErrBusy
		}
		return nil, txErr
	}

	log.Info().
		Str("product_id", productID.String()).
		Str("kind", movement.Kind).
		Int("quantity", movement.Quantity).
		Int("ledger_quantity", ledger.Quantity).
		Msg("stock movement registered")

	resp := movementResponse(&movement)
	return &resp, nil
}

func (s *stockService) LockLedgerTx(tx *gorm.DB, productID uuid.UUID) (*model.StockLedger, error) {
	return s.repo.LedgerForUpdateTx(tx, productID)
}

func (s *stockService) AppendMovementTx(tx *gorm.DB, m *model.StockMovement) (*model.StockLedger, error) {
	ledger, err := s.repo.LedgerForUpdateTx(tx, m.ProductID)
	if err != nil {
		return nil, err
	}
	if m.Kind == model.MovementExit {
		m.UnitCost = ledger.AvgUnitCost
	}
	applyMovement(ledger, m)
	if err := s.repo.SaveLedgerTx(tx, ledger); err != nil {
		return nil, err
	}
	if err := s.repo.CreateMovementTx(tx, m); err != nil {
		return nil, err
	}
	return ledger, nil
}

// applyMovement mutates the ledger for one movement. Entries and positive
// adjustments with a cost recompute the weighted-average; exits and negative
// adjustments leave the cost untouched. Quantity never drops below zero.
func applyMovement(l *model.StockLedger, m *model.StockMovement) {
	switch m.Kind {
	case model.MovementEntry:
		l.AvgUnitCost = money.WeightedAverage(l.Quantity, l.AvgUnitCost, m.Quantity, m.UnitCost)
		l.Quantity += m.Quantity
	case model.MovementExit:
		l.Quantity -= m.Quantity
	case model.MovementAdjustment:
		if m.Quantity > 0 && m.UnitCost.IsPositive() {
			l.AvgUnitCost = money.WeightedAverage(l.Quantity, l.AvgUnitCost, m.Quantity, m.UnitCost)
		}
		l.Quantity += m.Quantity
	}
	if l.Quantity < 0 {
		l.Quantity = 0
	}
}

func (s *stockService) ListMovements(ctx context.Context, req dto.MovementFilterRequest) (*dto.MovementListResponse, error) {
	filter := repository.StockMovementFilter{
		Kind:  req.Kind,
		Page:  req.Page,
		Limit: req.Limit,
	}
	if req.ProductID != "" {
		id, err := uuid.Parse(req.ProductID)
		if err != nil {
			return nil, newValidationError("invalid product_id")
		}
		filter.ProductID = &id
	}

	movements, total, err := s.repo.ListMovements(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		data = append(data, movementResponse(&movements[i]))
	}
	return &dto.MovementListResponse{
		Data:  data,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}

func (s *stockService) Ledger(ctx context.Context, productID uuid.UUID) (*dto.LedgerResponse, error) {
	ledger, err := s.repo.LedgerFor(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No movements yet: the product simply has zero on hand.
			return &dto.LedgerResponse{ProductID: productID.String()}, nil
		}
		return nil, err
	}
	return &dto.LedgerResponse{
		ProductID:   ledger.ProductID.String(),
		Quantity:    ledger.Quantity,
		AvgUnitCost: ledger.AvgUnitCost,
	}, nil
}

func (s *stockService) LowStockAlerts(ctx context.Context) ([]dto.LowStockAlertResponse, error) {
	rows, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.LowStockAlertResponse, 0, len(rows))
	for _, row := range rows {
		alerts = append(alerts, dto.LowStockAlertResponse{
			ProductID: row.ProductID.String(),
			Product:   row.ProductName,
			Quantity:  row.Quantity,
			MinStock:  row.MinStock,
		})
	}
	return alerts, nil
}

func movementResponse(m *model.StockMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:        m.ID.String(),
		ProductID: m.ProductID.String(),
		Kind:      m.Kind,
		Quantity:  m.Quantity,
		UnitCost:  m.UnitCost,
		Reason:    m.Reason,
		Reference: m.Reference,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
	if m.Product != nil {
		resp.Product = m.Product.Name
	}
	return resp
}
