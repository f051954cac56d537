package repository

import (
	"context"
	"time"

	"retailcore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PricingRepository loads the rule data the price resolver works on. Rules
// and promotions are read-only inside a resolution — no locking needed.
type PricingRepository interface {
	// ActiveTables returns active price tables ordered by (priority asc,
	// id asc) with their rules preloaded in insertion order.
	ActiveTables(ctx context.Context) ([]model.PriceTable, error)
	// ActivePromotionsFor returns the promotions linked to the product whose
	// window contains at. Promotion windows are inclusive on both ends
	// (StartsAt <= at <= EndsAt), unlike price rule windows.
	ActivePromotionsFor(ctx context.Context, productID uuid.UUID, at time.Time) ([]model.Promotion, error)
}

type pricingRepo struct{ db *gorm.DB }

func NewPricingRepository(db *gorm.DB) PricingRepository { return &pricingRepo{db: db} }

func (r *pricingRepo) ActiveTables(ctx context.Context) ([]model.PriceTable, error) {
	var tables []model.PriceTable
	err := r.db.WithContext(ctx).
		Where("active = true").
		Order("priority ASC, id ASC").
		Preload("Rules", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Find(&tables).Error
	return tables, err
}

func (r *pricingRepo) ActivePromotionsFor(ctx context.Context, productID uuid.UUID, at time.Time) ([]model.Promotion, error) {
	var promos []model.Promotion
	err := r.db.WithContext(ctx).
		Joins("JOIN promotion_products pp ON pp.promotion_id = promotions.id").
		Where("pp.product_id = ?", productID).
		Where("promotions.starts_at <= ? AND promotions.ends_at >= ?", at, at).
		Find(&promos).Error
	return promos, err
}
