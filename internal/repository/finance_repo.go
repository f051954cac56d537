package repository

import (
	"context"
	"errors"

	"retailcore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FinanceRepository interface {
	// GetOrCreateDebtorTx looks a debtor up by name and creates it if absent.
	// Used for the walk-in fallback and for customer-backed debtors.
	GetOrCreateDebtorTx(tx *gorm.DB, name string, document *string) (*model.Debtor, error)
	CreateAccountTx(tx *gorm.DB, a *model.ReceivableAccount) error
	FindAccountByID(ctx context.Context, id uuid.UUID) (*model.ReceivableAccount, error)
	FindAccountBySaleID(ctx context.Context, saleID uuid.UUID) (*model.ReceivableAccount, error)
	FindInstallmentByID(ctx context.Context, id uuid.UUID) (*model.Installment, error)
	InstallmentsFor(ctx context.Context, accountID uuid.UUID) ([]model.Installment, error)
	SaveInstallment(ctx context.Context, i *model.Installment) error
	UpdateAccountStatus(ctx context.Context, id uuid.UUID, status string) error
	DB() *gorm.DB
}

type financeRepo struct{ db *gorm.DB }

func NewFinanceRepository(db *gorm.DB) FinanceRepository { return &financeRepo{db: db} }

func (r *financeRepo) DB() *gorm.DB { return r.db }

func (r *financeRepo) GetOrCreateDebtorTx(tx *gorm.DB, name string, document *string) (*model.Debtor, error) {
	var d model.Debtor
	err := tx.Where("name = ?", name).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d = model.Debtor{Name: name, Document: document}
		err = tx.Create(&d).Error
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *financeRepo) CreateAccountTx(tx *gorm.DB, a *model.ReceivableAccount) error {
	// Installments ride along via the association.
	return tx.Create(a).Error
}

func (r *financeRepo) FindAccountByID(ctx context.Context, id uuid.UUID) (*model.ReceivableAccount, error) {
	var a model.ReceivableAccount
	err := r.db.WithContext(ctx).
		Preload("Debtor").
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("number ASC") }).
		First(&a, id).Error
	return &a, err
}

func (r *financeRepo) FindAccountBySaleID(ctx context.Context, saleID uuid.UUID) (*model.ReceivableAccount, error) {
	var a model.ReceivableAccount
	err := r.db.WithContext(ctx).
		Preload("Debtor").
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("number ASC") }).
		Where("sale_id = ?", saleID).First(&a).Error
	return &a, err
}

func (r *financeRepo) FindInstallmentByID(ctx context.Context, id uuid.UUID) (*model.Installment, error) {
	var i model.Installment
	err := r.db.WithContext(ctx).First(&i, id).Error
	return &i, err
}

func (r *financeRepo) InstallmentsFor(ctx context.Context, accountID uuid.UUID) ([]model.Installment, error) {
	var installments []model.Installment
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).Order("number ASC").
		Find(&installments).Error
	return installments, err
}

func (r *financeRepo) SaveInstallment(ctx context.Context, i *model.Installment) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *financeRepo) UpdateAccountStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.ReceivableAccount{}).
		Where("id = ?", id).Update("status", status).Error
}
