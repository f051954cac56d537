package service

import (
	"context"
	"errors"
	"time"

	"retailcore/internal/model"
	"retailcore/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. DB() returns nil so runTx executes the closures
// directly, without a real transaction.

type stubProductRepo struct {
	products       map[uuid.UUID]*model.Product
	customers      map[uuid.UUID]*model.Customer
	paymentMethods map[uuid.UUID]*model.PaymentMethod
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products:       make(map[uuid.UUID]*model.Product),
		customers:      make(map[uuid.UUID]*model.Customer),
		paymentMethods: make(map[uuid.UUID]*model.PaymentMethod),
	}
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || !p.Active {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Barcode != nil && *p.Barcode == barcode && p.Active {
			return p, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubProductRepo) FindCustomerByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubProductRepo) FindPaymentMethodByID(_ context.Context, id uuid.UUID) (*model.PaymentMethod, error) {
	pm, ok := r.paymentMethods[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return pm, nil
}

type stubPricingRepo struct {
	tables []model.PriceTable
	promos map[uuid.UUID][]model.Promotion
}

var _ repository.PricingRepository = (*stubPricingRepo)(nil)

func newStubPricingRepo() *stubPricingRepo {
	return &stubPricingRepo{promos: make(map[uuid.UUID][]model.Promotion)}
}

func (r *stubPricingRepo) ActiveTables(_ context.Context) ([]model.PriceTable, error) {
	return r.tables, nil
}

func (r *stubPricingRepo) ActivePromotionsFor(_ context.Context, productID uuid.UUID, at time.Time) ([]model.Promotion, error) {
	var active []model.Promotion
	for _, p := range r.promos[productID] {
		if !at.Before(p.StartsAt) && !at.After(p.EndsAt) {
			active = append(active, p)
		}
	}
	return active, nil
}

type stubStockRepo struct {
	ledgers   map[uuid.UUID]*model.StockLedger
	movements []model.StockMovement
}

var _ repository.StockRepository = (*stubStockRepo)(nil)

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{ledgers: make(map[uuid.UUID]*model.StockLedger)}
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

func (r *stubStockRepo) LedgerFor(_ context.Context, productID uuid.UUID) (*model.StockLedger, error) {
	l, ok := r.ledgers[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *stubStockRepo) LedgerForUpdateTx(_ *gorm.DB, productID uuid.UUID) (*model.StockLedger, error) {
	l, ok := r.ledgers[productID]
	if !ok {
		l = &model.StockLedger{ID: uuid.New(), ProductID: productID}
		r.ledgers[productID] = l
	}
	return l, nil
}

func (r *stubStockRepo) SaveLedgerTx(_ *gorm.DB, l *model.StockLedger) error {
	r.ledgers[l.ProductID] = l
	return nil
}

func (r *stubStockRepo) CreateMovementTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubStockRepo) ListMovements(_ context.Context, _ repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	return r.movements, int64(len(r.movements)), nil
}

func (r *stubStockRepo) LowStock(_ context.Context) ([]repository.LowStockRow, error) {
	return nil, nil
}

type stubSaleRepo struct {
	sales   map[uuid.UUID]*model.Sale
	nextNum int64
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

func (r *stubSaleRepo) Create(_ context.Context, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *stubSaleRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *stubSaleRepo) NextNumber(_ context.Context) (int64, error) {
	r.nextNum++
	return r.nextNum, nil
}

func (r *stubSaleRepo) Save(_ context.Context, s *model.Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) SaveTx(_ *gorm.DB, s *model.Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) CreateItem(_ context.Context, item *model.SaleLineItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return nil
}

func (r *stubSaleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	s, ok := r.sales[id]
	if !ok {
		return errors.New("not found")
	}
	s.Status = status
	return nil
}

func (r *stubSaleRepo) List(_ context.Context, filter repository.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if filter.Status != "" && filter.Status != "all" && s.Status != filter.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

type stubCommissionRepo struct {
	rules   []model.CommissionRule
	entries map[uuid.UUID]*model.CommissionEntry
}

var _ repository.CommissionRepository = (*stubCommissionRepo)(nil)

func newStubCommissionRepo() *stubCommissionRepo {
	return &stubCommissionRepo{entries: make(map[uuid.UUID]*model.CommissionEntry)}
}

func (r *stubCommissionRepo) ActiveRules(_ context.Context) ([]model.CommissionRule, error) {
	return r.rules, nil
}

func (r *stubCommissionRepo) CreateEntryTx(_ *gorm.DB, e *model.CommissionEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.entries[e.ID] = e
	return nil
}

func (r *stubCommissionRepo) FindEntryByID(_ context.Context, id uuid.UUID) (*model.CommissionEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return e, nil
}

func (r *stubCommissionRepo) ListEntries(_ context.Context, filter repository.CommissionFilter) ([]model.CommissionEntry, int64, error) {
	var out []model.CommissionEntry
	for _, e := range r.entries {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.SalespersonID != nil && e.SalespersonID != *filter.SalespersonID {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (r *stubCommissionRepo) UpdateEntryStatus(_ context.Context, id uuid.UUID, status string) error {
	e, ok := r.entries[id]
	if !ok {
		return errors.New("not found")
	}
	e.Status = status
	return nil
}

type stubFinanceRepo struct {
	debtors      map[string]*model.Debtor
	accounts     map[uuid.UUID]*model.ReceivableAccount
	installments map[uuid.UUID]*model.Installment
}

var _ repository.FinanceRepository = (*stubFinanceRepo)(nil)

func newStubFinanceRepo() *stubFinanceRepo {
	return &stubFinanceRepo{
		debtors:      make(map[string]*model.Debtor),
		accounts:     make(map[uuid.UUID]*model.ReceivableAccount),
		installments: make(map[uuid.UUID]*model.Installment),
	}
}

func (r *stubFinanceRepo) DB() *gorm.DB { return nil }

func (r *stubFinanceRepo) GetOrCreateDebtorTx(_ *gorm.DB, name string, document *string) (*model.Debtor, error) {
	if d, ok := r.debtors[name]; ok {
		return d, nil
	}
	d := &model.Debtor{ID: uuid.New(), Name: name, Document: document}
	r.debtors[name] = d
	return d, nil
}

func (r *stubFinanceRepo) CreateAccountTx(_ *gorm.DB, a *model.ReceivableAccount) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	for i := range a.Installments {
		inst := &a.Installments[i]
		inst.ID = uuid.New()
		inst.AccountID = a.ID
		r.installments[inst.ID] = inst
	}
	r.accounts[a.ID] = a
	return nil
}

func (r *stubFinanceRepo) FindAccountByID(_ context.Context, id uuid.UUID) (*model.ReceivableAccount, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return a, nil
}

func (r *stubFinanceRepo) FindAccountBySaleID(_ context.Context, saleID uuid.UUID) (*model.ReceivableAccount, error) {
	for _, a := range r.accounts {
		if a.SaleID != nil && *a.SaleID == saleID {
			return a, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubFinanceRepo) FindInstallmentByID(_ context.Context, id uuid.UUID) (*model.Installment, error) {
	i, ok := r.installments[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return i, nil
}

func (r *stubFinanceRepo) InstallmentsFor(_ context.Context, accountID uuid.UUID) ([]model.Installment, error) {
	var out []model.Installment
	for _, i := range r.installments {
		if i.AccountID == accountID {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (r *stubFinanceRepo) SaveInstallment(_ context.Context, i *model.Installment) error {
	r.installments[i.ID] = i
	return nil
}

func (r *stubFinanceRepo) UpdateAccountStatus(_ context.Context, id uuid.UUID, status string) error {
	a, ok := r.accounts[id]
	if !ok {
		return errors.New("not found")
	}
	a.Status = status
	return nil
}
