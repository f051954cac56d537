package service

import (
	"context"
	"time"

	"retailcore/internal/dto"
	"retailcore/internal/model"
	"retailcore/internal/money"
	"retailcore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PricingService resolves the effective unit price of a product at a point
// in time: price tables by ascending priority, then active promotions.
type PricingService interface {
	// ResolveUnitPrice walks active price tables in priority order and then
	// promotions, returning the effective price for one unit at time at.
	ResolveUnitPrice(ctx context.Context, product *model.Product, at time.Time) (decimal.Decimal, error)
	CheckPrice(ctx context.Context, productID uuid.UUID) (*dto.PriceCheckResponse, error)
}

type pricingService struct {
	repo        repository.PricingRepository
	productRepo repository.ProductRepository
}

func NewPricingService(repo repository.PricingRepository, productRepo repository.ProductRepository) PricingService {
	return &pricingService{repo: repo, productRepo: productRepo}
}

func (s *pricingService) ResolveUnitPrice(ctx context.Context, product *model.Product, at time.Time) (decimal.Decimal, error) {
	price := product.BasePrice

	tables, err := s.repo.ActiveTables(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	// Every valid matching rule of a table applies, in insertion order,
	// each over the accumulated price.
	for _, table := range tables {
		for i := range table.Rules {
			rule := &table.Rules[i]
			if !rule.ValidAt(at) || !rule.Matches(product) {
				continue
			}
			if rule.FixedPrice != nil {
				price = *rule.FixedPrice
				if !rule.Combinable {
					// A non-combinable rule ends resolution outright:
					// remaining rules, tables and promotions are
					// never consulted.
					return money.Round2(price), nil
				}
			}
			if rule.DiscountPct.IsPositive() {
				price = money.ApplyDiscountPct(price, rule.DiscountPct)
				if !rule.Combinable {
					return money.Round2(price), nil
				}
			}
		}
	}

	promos, err := s.repo.ActivePromotionsFor(ctx, product.ID, at)
	if err != nil {
		return decimal.Zero, err
	}
	if best := bestPromotionPct(promos); best.IsPositive() {
		price = money.ApplyDiscountPct(price, best)
	}

	return money.Round2(price), nil
}

// bestPromotionPct returns the single largest discount among overlapping
// promotions. Promotions never stack.
func bestPromotionPct(promos []model.Promotion) decimal.Decimal {
	best := decimal.Zero
	for _, p := range promos {
		if p.DiscountPct.GreaterThan(best) {
			best = p.DiscountPct
		}
	}
	return best
}

func (s *pricingService) CheckPrice(ctx context.Context, productID uuid.UUID) (*dto.PriceCheckResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, newValidationError("product not found")
	}

	now := time.Now()
	effective, err := s.ResolveUnitPrice(ctx, product, now)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("product_id", productID.String()).
		Str("effective_price", effective.String()).
		Msg("price resolved")

	return &dto.PriceCheckResponse{
		ProductID:      product.ID.String(),
		Product:        product.Name,
		BasePrice:      product.BasePrice,
		EffectivePrice: effective,
		ResolvedAt:     now.Format(time.RFC3339),
	}, nil
}
