package service

import (
	"bytes"
	"context"
	"sort"
	"strconv"
	"time"

	"retailcore/internal/dto"
	"retailcore/internal/model"
	"retailcore/internal/repository"
	"retailcore/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SaleService drives a sale from draft through invoicing. Invoicing is the
// atomic step: stock exits, the receivable and commissions all commit
// together or not at all; fiscal emission and notifications run after the
// commit and never roll it back.
type SaleService interface {
	CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	AddLineItem(ctx context.Context, saleID uuid.UUID, req dto.AddLineItemRequest) (*dto.SaleResponse, error)
	CloseSale(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error)
	InvoiceSale(ctx context.Context, saleID uuid.UUID, req dto.InvoiceSaleRequest) (*dto.SaleResponse, error)
	CancelSale(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error)
	Get(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, req dto.SaleFilterRequest) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo        repository.SaleRepository
	productRepo repository.ProductRepository
	pricing     PricingService
	stock       StockService
	commissions CommissionService
	receivables ReceivableService
	dispatcher  *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	pricing PricingService,
	stock StockService,
	commissions CommissionService,
	receivables ReceivableService,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:        repo,
		productRepo: productRepo,
		pricing:     pricing,
		stock:       stock,
		commissions: commissions,
		receivables: receivables,
		dispatcher:  dispatcher,
	}
}

func (s *saleService) CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	salespersonID, err := uuid.Parse(req.SalespersonID)
	if err != nil {
		return nil, newValidationError("invalid salesperson_id")
	}
	paymentMethodID, err := uuid.Parse(req.PaymentMethodID)
	if err != nil {
		return nil, newValidationError("invalid payment_method_id")
	}
	if _, err := s.productRepo.FindPaymentMethodByID(ctx, paymentMethodID); err != nil {
		return nil, newValidationError("payment method not found")
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil && *req.CustomerID != "" {
		id, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, newValidationError("invalid customer_id")
		}
		if _, err := s.productRepo.FindCustomerByID(ctx, id); err != nil {
			return nil, newValidationError("customer not found")
		}
		customerID = &id
	}

	number, err := s.repo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	sale := model.Sale{
		Number:          number,
		CustomerID:      customerID,
		SalespersonID:   salespersonID,
		PaymentMethodID: paymentMethodID,
		Status:          model.SaleDraft,
	}
	if err := s.repo.Create(ctx, &sale); err != nil {
		return nil, err
	}

	log.Info().
		Int64("number", sale.Number).
		Str("sale_id", sale.ID.String()).
		Msg("sale created")

	resp := saleResponse(&sale)
	return &resp, nil
}

func (s *saleService) AddLineItem(ctx context.Context, saleID uuid.UUID, req dto.AddLineItemRequest) (*dto.SaleResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, newValidationError("invalid product_id")
	}
	if req.Quantity <= 0 {
		return nil, newValidationError("quantity must be greater than zero")
	}
	if req.LineDiscount.IsNegative() {
		return nil, newValidationError("line discount cannot be negative")
	}

	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		return nil, newValidationError("sale not found")
	}
	if sale.Status != model.SaleDraft && sale.Status != model.SaleOpen {
		return nil, newValidationError("items can only be added to a draft or open sale")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, newValidationError("product not found")
	}

	unitPrice, err := s.pricing.ResolveUnitPrice(ctx, product, time.Now())
	if err != nil {
		return nil, err
	}

	// Snapshot the current average cost: margin commissions use the cost at
	// add time, not at invoicing.
	ledger, err := s.stock.Ledger(ctx, productID)
	if err != nil {
		return nil, err
	}

	item := model.SaleLineItem{
		SaleID:           sale.ID,
		ProductID:        productID,
		Quantity:         req.Quantity,
		UnitPrice:        unitPrice,
		LineDiscount:     req.LineDiscount,
		UnitCostSnapshot: ledger.AvgUnitCost,
	}
	if err := s.repo.CreateItem(ctx, &item); err != nil {
		return nil, err
	}

	sale.Items = append(sale.Items, item)
	sale.RecomputeTotals()
	if err := s.repo.Save(ctx, sale); err != nil {
		return nil, err
	}

	resp := saleResponse(sale)
	return &resp, nil
}

func (s *saleService) CloseSale(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		return nil, newValidationError("sale not found")
	}
	if sale.Status != model.SaleDraft {
		return nil, newValidationError("only a draft sale can be closed")
	}
	if len(sale.Items) == 0 {
		return nil, newValidationError("cannot close an empty sale")
	}

	sale.Status = model.SaleOpen
	sale.RecomputeTotals()
	if err := s.repo.Save(ctx, sale); err != nil {
		return nil, err
	}

	resp := saleResponse(sale)
	return &resp, nil
}

// InvoiceSale runs the invoicing saga in one transaction: lock the sale,
// lock every product ledger in ascending product-id order, verify
// availability, write the stock exits, generate the receivable and the
// commissions, and flip the sale to invoiced. Any failure rolls the whole
// thing back. Fiscal emission and notifications are enqueued after commit.
func (s *saleService) InvoiceSale(ctx context.Context, saleID uuid.UUID, req dto.InvoiceSaleRequest) (*dto.SaleResponse, error) {
	installments := req.Installments
	if installments < 1 {
		installments = 1
	}

	var sale *model.Sale
	products := make(map[uuid.UUID]*model.Product)
	finalQty := make(map[uuid.UUID]int)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := setLockTimeout(tx, defaultLockTimeout); err != nil {
			return err
		}

		var err error
		sale, err = s.repo.FindForUpdateTx(tx, saleID)
		if err != nil {
			if isLockTimeout(err) {
				return err
			}
			return newValidationError("sale not found")
		}
		switch sale.Status {
		case model.SaleInvoiced:
			return newValidationError("sale is already invoiced")
		case model.SaleCanceled:
			return newValidationError("cannot invoice a canceled sale")
		}
		if len(sale.Items) == 0 {
			return newValidationError("cannot invoice an empty sale")
		}

		// Aggregate requested quantities: the same product may appear on
		// several lines and must be checked as a whole.
		requested := make(map[uuid.UUID]int)
		for _, item := range sale.Items {
			requested[item.ProductID] += item.Quantity
		}

		for _, productID := range sortedProductIDs(requested) {
			ledger, err := s.stock.LockLedgerTx(tx, productID)
			if err != nil {
				return err
			}
			if ledger.Quantity < requested[productID] {
				return &InsufficientStockError{
					ProductID: productID,
					Available: ledger.Quantity,
					Requested: requested[productID],
				}
			}
			product, err := s.productRepo.FindByID(ctx, productID)
			if err != nil {
				return newValidationError("product no longer available")
			}
			products[productID] = product
		}

		for i := range sale.Items {
			item := &sale.Items[i]
			movement := model.StockMovement{
				ProductID: item.ProductID,
				Kind:      model.MovementExit,
				Quantity:  item.Quantity,
				Reason:    "sale invoiced",
				Reference: strconv.FormatInt(sale.Number, 10),
			}
			ledger, err := s.stock.AppendMovementTx(tx, &movement)
			if err != nil {
				return err
			}
			finalQty[item.ProductID] = ledger.Quantity
		}

		sale.RecomputeTotals()
		if err := s.repo.SaveTx(tx, sale); err != nil {
			return err
		}

		var customer *model.Customer
		if sale.CustomerID != nil {
			customer, err = s.productRepo.FindCustomerByID(ctx, *sale.CustomerID)
			if err != nil {
				return newValidationError("customer not found")
			}
		}
		if _, err := s.receivables.GenerateTx(tx, sale, customer, installments); err != nil {
			return err
		}

		if err := s.commissions.GenerateForSaleTx(ctx, tx, sale, products); err != nil {
			return err
		}

		sale.Status = model.SaleInvoiced
		return s.repo.UpdateStatusTx(tx, sale.ID, model.SaleInvoiced)
	})
	if txErr != nil {
		if isLockTimeout(txErr) {
			return nil, ErrBusy
		}
		return nil, txErr
	}

	log.Info().
		Int64("number", sale.Number).
		Str("sale_id", sale.ID.String()).
		Str("total", sale.Total.String()).
		Msg("sale invoiced")

	// Best-effort side effects. Failures here are logged by the dispatcher
	// and never surface to the caller — the invoice is already committed.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueFiscal(ctx, worker.FiscalJobPayload{SaleID: sale.ID.String()})
		_ = s.dispatcher.EnqueueNotification(ctx, worker.NotificationJobPayload{
			Kind:   worker.NotifySaleCompleted,
			SaleID: sale.ID.String(),
		})
		for productID, qty := range finalQty {
			product := products[productID]
			if product != nil && qty <= product.MinStock {
				_ = s.dispatcher.EnqueueNotification(ctx, worker.NotificationJobPayload{
					Kind:      worker.NotifyLowStock,
					ProductID: productID.String(),
					Product:   product.Name,
					Quantity:  qty,
					MinStock:  product.MinStock,
				})
			}
		}
	}

	resp := saleResponse(sale)
	return &resp, nil
}

func (s *saleService) CancelSale(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		return nil, newValidationError("sale not found")
	}
	switch sale.Status {
	case model.SaleInvoiced:
		return nil, newValidationError("an invoiced sale cannot be canceled")
	case model.SaleCanceled:
		return nil, newValidationError("sale is already canceled")
	}

	// Nothing to restore: stock only moves at invoicing.
	sale.Status = model.SaleCanceled
	if err := s.repo.Save(ctx, sale); err != nil {
		return nil, err
	}

	log.Info().
		Int64("number", sale.Number).
		Str("sale_id", sale.ID.String()).
		Msg("sale canceled")

	resp := saleResponse(sale)
	return &resp, nil
}

func (s *saleService) Get(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		return nil, newValidationError("sale not found")
	}
	resp := saleResponse(sale)
	return &resp, nil
}

func (s *saleService) List(ctx context.Context, req dto.SaleFilterRequest) (*dto.SaleListResponse, error) {
	filter := repository.SaleFilter{
		Status: req.Status,
		Page:   req.Page,
		Limit:  req.Limit,
	}
	if req.SalespersonID != "" {
		id, err := uuid.Parse(req.SalespersonID)
		if err != nil {
			return nil, newValidationError("invalid salesperson_id")
		}
		filter.SalespersonID = &id
	}

	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, saleResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  data,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}

// sortedProductIDs returns the map's keys in ascending byte order — the
// fixed lock acquisition order that keeps concurrent invoices deadlock-free.
func sortedProductIDs(m map[uuid.UUID]int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

func saleResponse(s *model.Sale) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:             s.ID.String(),
		Number:         s.Number,
		SalespersonID:  s.SalespersonID.String(),
		Status:         s.Status,
		Subtotal:       s.Subtotal,
		DiscountTotal:  s.DiscountTotal,
		SurchargeTotal: s.SurchargeTotal,
		Total:          s.Total,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
	if s.CustomerID != nil {
		customerID := s.CustomerID.String()
		resp.CustomerID = &customerID
	}
	for i := range s.Items {
		item := &s.Items[i]
		line := dto.LineItemResponse{
			ID:               item.ID.String(),
			ProductID:        item.ProductID.String(),
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			LineDiscount:     item.LineDiscount,
			UnitCostSnapshot: item.UnitCostSnapshot,
		}
		if item.Product != nil {
			line.Product = item.Product.Name
		}
		resp.Items = append(resp.Items, line)
	}
	return resp
}
