package service

import (
	"context"
	"testing"

	"retailcore/internal/dto"
	"retailcore/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleFixture struct {
	svc         SaleService
	sales       *stubSaleRepo
	products    *stubProductRepo
	stock       *stubStockRepo
	commissions *stubCommissionRepo
	finance     *stubFinanceRepo
	pricing     *stubPricingRepo
}

func newSaleFixture() *saleFixture {
	f := &saleFixture{
		sales:       newStubSaleRepo(),
		products:    newStubProductRepo(),
		stock:       newStubStockRepo(),
		commissions: newStubCommissionRepo(),
		finance:     newStubFinanceRepo(),
		pricing:     newStubPricingRepo(),
	}
	f.svc = NewSaleService(
		f.sales,
		f.products,
		NewPricingService(f.pricing, f.products),
		NewStockService(f.stock),
		NewCommissionService(f.commissions),
		NewReceivableService(f.finance),
		nil,
	)
	return f
}

func (f *saleFixture) addProduct(basePrice string, onHand int, avgCost string) *model.Product {
	p := &model.Product{
		ID:         uuid.New(),
		Name:       "Test Product",
		CategoryID: uuid.New(),
		BasePrice:  dec(basePrice),
		Active:     true,
	}
	f.products.products[p.ID] = p
	if onHand > 0 {
		f.stock.ledgers[p.ID] = &model.StockLedger{
			ID: uuid.New(), ProductID: p.ID, Quantity: onHand, AvgUnitCost: dec(avgCost),
		}
	}
	return p
}

func (f *saleFixture) addPaymentMethod() *model.PaymentMethod {
	pm := &model.PaymentMethod{ID: uuid.New(), Name: "cash"}
	f.products.paymentMethods[pm.ID] = pm
	return pm
}

func (f *saleFixture) newOpenSale(t *testing.T, product *model.Product, qty int) uuid.UUID {
	t.Helper()
	pm := f.addPaymentMethod()
	created, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		SalespersonID:   uuid.NewString(),
		PaymentMethodID: pm.ID.String(),
	})
	require.NoError(t, err)
	saleID := uuid.MustParse(created.ID)

	_, err = f.svc.AddLineItem(context.Background(), saleID, dto.AddLineItemRequest{
		ProductID: product.ID.String(),
		Quantity:  qty,
	})
	require.NoError(t, err)

	_, err = f.svc.CloseSale(context.Background(), saleID)
	require.NoError(t, err)
	return saleID
}

func TestAddLineItem_SnapshotsPriceAndCost(t *testing.T) {
	f := newSaleFixture()
	product := f.addProduct("25.00", 10, "14.00")
	pm := f.addPaymentMethod()

	created, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		SalespersonID:   uuid.NewString(),
		PaymentMethodID: pm.ID.String(),
	})
	require.NoError(t, err)
	saleID := uuid.MustParse(created.ID)

	resp, err := f.svc.AddLineItem(context.Background(), saleID, dto.AddLineItemRequest{
		ProductID: product.ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].UnitPrice.Equal(dec("25.00")))
	assert.True(t, resp.Items[0].UnitCostSnapshot.Equal(dec("14.00")))
	assert.True(t, resp.Subtotal.Equal(dec("50.00")))
	assert.True(t, resp.Total.Equal(dec("50.00")))
}

func TestInvoiceSale_HappyPath(t *testing.T) {
	f := newSaleFixture()
	product := f.addProduct("25.00", 10, "14.00")
	f.commissions.rules = []model.CommissionRule{{
		ID: uuid.New(), RatePct: dec("10"), Basis: model.BasisRevenue, Active: true,
	}}
	saleID := f.newOpenSale(t, product, 2)

	resp, err := f.svc.InvoiceSale(context.Background(), saleID, dto.InvoiceSaleRequest{Installments: 2})
	require.NoError(t, err)
	assert.Equal(t, model.SaleInvoiced, resp.Status)

	// Stock moved out at the ledger's average cost.
	ledger := f.stock.ledgers[product.ID]
	assert.Equal(t, 8, ledger.Quantity)
	require.Len(t, f.stock.movements, 1)
	movement := f.stock.movements[0]
	assert.Equal(t, model.MovementExit, movement.Kind)
	assert.Equal(t, 2, movement.Quantity)
	assert.True(t, movement.UnitCost.Equal(dec("14.00")))
	assert.Equal(t, "sale invoiced", movement.Reason)

	// Receivable split in two.
	account, err := f.finance.FindAccountBySaleID(context.Background(), saleID)
	require.NoError(t, err)
	assert.True(t, account.Total.Equal(dec("50.00")))
	require.Len(t, account.Installments, 2)
	assert.True(t, account.Installments[0].Amount.Equal(dec("25.00")))

	// Commission on revenue: 50.00 * 10% = 5.00.
	require.Len(t, f.commissions.entries, 1)
	for _, e := range f.commissions.entries {
		assert.True(t, e.Amount.Equal(dec("5.00")), "got %s", e.Amount)
	}
}

func TestInvoiceSale_InsufficientStockLeavesSaleOpen(t *testing.T) {
	f := newSaleFixture()
	product := f.addProduct("25.00", 3, "10.00")
	saleID := f.newOpenSale(t, product, 5)

	_, err := f.svc.InvoiceSale(context.Background(), saleID, dto.InvoiceSaleRequest{Installments: 1})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, product.ID, stockErr.ProductID)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)

	// Nothing happened: the sale stays open and no movement was recorded.
	sale := f.sales.sales[saleID]
	assert.Equal(t, model.SaleOpen, sale.Status)
	assert.Empty(t, f.stock.movements)
	assert.Equal(t, 3, f.stock.ledgers[product.ID].Quantity)
	assert.Empty(t, f.finance.accounts)
	assert.Empty(t, f.commissions.entries)
}

func TestInvoiceSale_AggregatesLinesOfSameProduct(t *testing.T) {
	f := newSaleFixture()
	product := f.addProduct("10.00", 5, "4.00")
	saleID := f.newOpenSale(t, product, 3)

	// A second line for the same product pushes the aggregate past the
	// available 5 units even though each line alone would fit.
	_, err := f.svc.AddLineItem(context.Background(), saleID, dto.AddLineItemRequest{
		ProductID: product.ID.String(),
		Quantity:  3,
	})
	require.NoError(t, err)

	_, err = f.svc.InvoiceSale(context.Background(), saleID, dto.InvoiceSaleRequest{Installments: 1})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Requested)
}

func TestInvoiceSale_EmptySaleRejected(t *testing.T) {
	f := newSaleFixture()
	pm := f.addPaymentMethod()
	created, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		SalespersonID:   uuid.NewString(),
		PaymentMethodID: pm.ID.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.InvoiceSale(context.Background(), uuid.MustParse(created.ID), dto.InvoiceSaleRequest{Installments: 1})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestInvoiceSale_TerminalStatusesRejected(t *testing.T) {
	f := newSaleFixture()
	product := f.addProduct("10.00", 10, "5.00")
	saleID := f.newOpenSale(t, product, 1)

	_, err := f.svc.InvoiceSale(context.Background(), saleID, dto.InvoiceSaleRequest{Installments: 1})
	require.NoError(t, err)

	var verr *ValidationError
	_, err = f.svc.InvoiceSale(context.Background(), saleID, dto.InvoiceSaleRequest{Installments: 1})
	require.ErrorAs(t, err, &verr)

	_, err = f.svc.CancelSale(context.Background(), saleID)
	require.ErrorAs(t, err, &verr)
}

func TestInvoiceSale_WalkInReceivable(t *testing.T) {
	f := newSaleFixture()
	product := f.addProduct("15.00", 10, "8.00")
	saleID := f.newOpenSale(t, product, 1)

	_, err := f.svc.InvoiceSale(context.Background(), saleID, dto.InvoiceSaleRequest{Installments: 1})
	require.NoError(t, err)

	debtor, ok := f.finance.debtors["Walk-in Customer"]
	require.True(t, ok, "a sale without a customer falls back to the walk-in debtor")

	account, err := f.finance.FindAccountBySaleID(context.Background(), saleID)
	require.NoError(t, err)
	assert.Equal(t, debtor.ID, account.DebtorID)
}

func TestCancelSale_BeforeInvoicing(t *testing.T) {
	f := newSaleFixture()
	product := f.addProduct("10.00", 5, "4.00")
	saleID := f.newOpenSale(t, product, 2)

	resp, err := f.svc.CancelSale(context.Background(), saleID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleCanceled, resp.Status)

	// Stock never moved, so cancellation has nothing to restore.
	assert.Equal(t, 5, f.stock.ledgers[product.ID].Quantity)
	assert.Empty(t, f.stock.movements)

	var verr *ValidationError
	_, err = f.svc.CancelSale(context.Background(), saleID)
	require.ErrorAs(t, err, &verr)
}

func TestCreateSale_Validation(t *testing.T) {
	f := newSaleFixture()
	pm := f.addPaymentMethod()

	var verr *ValidationError

	_, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		SalespersonID:   "not-a-uuid",
		PaymentMethodID: pm.ID.String(),
	})
	require.ErrorAs(t, err, &verr)

	_, err = f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		SalespersonID:   uuid.NewString(),
		PaymentMethodID: uuid.NewString(),
	})
	require.ErrorAs(t, err, &verr, "unknown payment method")

	unknownCustomer := uuid.NewString()
	_, err = f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID:      &unknownCustomer,
		SalespersonID:   uuid.NewString(),
		PaymentMethodID: pm.ID.String(),
	})
	require.ErrorAs(t, err, &verr, "unknown customer")
}

func TestCloseSale_EmptyDraftRejected(t *testing.T) {
	f := newSaleFixture()
	pm := f.addPaymentMethod()
	created, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		SalespersonID:   uuid.NewString(),
		PaymentMethodID: pm.ID.String(),
	})
	require.NoError(t, err)

	var verr *ValidationError
	_, err = f.svc.CloseSale(context.Background(), uuid.MustParse(created.ID))
	require.ErrorAs(t, err, &verr)
}
