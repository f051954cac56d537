package repository

import (
	"context"

	"retailcore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommissionFilter narrows entry listings.
type CommissionFilter struct {
	SalespersonID *uuid.UUID
	Status        string
	Page          int
	Limit         int
}

type CommissionRepository interface {
	// ActiveRules returns all active rules ordered by (priority asc, id asc)
	// — the resolver's candidate order.
	ActiveRules(ctx context.Context) ([]model.CommissionRule, error)
	CreateEntryTx(tx *gorm.DB, e *model.CommissionEntry) error
	FindEntryByID(ctx context.Context, id uuid.UUID) (*model.CommissionEntry, error)
	ListEntries(ctx context.Context, filter CommissionFilter) ([]model.CommissionEntry, int64, error)
	UpdateEntryStatus(ctx context.Context, id uuid.UUID, status string) error
}

type commissionRepo struct{ db *gorm.DB }

func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &commissionRepo{db: db}
}

func (r *commissionRepo) ActiveRules(ctx context.Context) ([]model.CommissionRule, error) {
	var rules []model.CommissionRule
	err := r.db.WithContext(ctx).
		Where("active = true").
		Order("priority ASC, id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *commissionRepo) CreateEntryTx(tx *gorm.DB, e *model.CommissionEntry) error {
	return tx.Create(e).Error
}

func (r *commissionRepo) FindEntryByID(ctx context.Context, id uuid.UUID) (*model.CommissionEntry, error) {
	var e model.CommissionEntry
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *commissionRepo) ListEntries(ctx context.Context, filter CommissionFilter) ([]model.CommissionEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.CommissionEntry{})
	if filter.SalespersonID != nil {
		q = q.Where("salesperson_id = ?", *filter.SalespersonID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var entries []model.CommissionEntry
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&entries).Error
	return entries, total, err
}

func (r *commissionRepo) UpdateEntryStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.CommissionEntry{}).
		Where("id = ?", id).Update("status", status).Error
}
