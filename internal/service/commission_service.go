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
	"gorm.io/gorm"
)

// CommissionService computes salesperson commissions at invoicing time and
// manages the resulting entries.
type CommissionService interface {
	// GenerateForSaleTx creates at most one commission entry per line item.
	// products maps each line's product id to its catalog record (needed for
	// category-scoped rules). A line without an applicable rule, or whose
	// computed amount is not positive, simply gets no entry.
	GenerateForSaleTx(ctx context.Context, tx *gorm.DB, sale *model.Sale, products map[uuid.UUID]*model.Product) error
	List(ctx context.Context, req dto.CommissionFilterRequest) (*dto.CommissionListResponse, error)
	Pay(ctx context.Context, id uuid.UUID) (*dto.CommissionEntryResponse, error)
}

type commissionService struct {
	repo repository.CommissionRepository
}

func NewCommissionService(repo repository.CommissionRepository) CommissionService {
	return &commissionService{repo: repo}
}

func (s *commissionService) GenerateForSaleTx(ctx context.Context, tx *gorm.DB, sale *model.Sale, products map[uuid.UUID]*model.Product) error {
	rules, err := s.repo.ActiveRules(ctx)
	if err != nil {
		return err
	}

	for i := range sale.Items {
		item := &sale.Items[i]
		rule := resolveRule(rules, sale.SalespersonID, item, products[item.ProductID])
		if rule == nil {
			continue
		}

		amount := commissionAmount(rule, item)
		if !amount.IsPositive() {
			continue
		}

		entry := model.CommissionEntry{
			SaleID:        sale.ID,
			LineItemID:    item.ID,
			SalespersonID: sale.SalespersonID,
			Amount:        amount,
			Status:        model.CommissionOpen,
		}
		if err := s.repo.CreateEntryTx(tx, &entry); err != nil {
			return err
		}
	}
	return nil
}

// resolveRule picks the first rule matching the salesperson and the line's
// product or category: a rule carrying both scopes matches when either one
// does. Rules arrive ordered by (priority asc, id asc), so the first match
// is the winner.
func resolveRule(rules []model.CommissionRule, salespersonID uuid.UUID, item *model.SaleLineItem, product *model.Product) *model.CommissionRule {
	for i := range rules {
		r := &rules[i]
		if r.SalespersonID != nil && *r.SalespersonID != salespersonID {
			continue
		}
		if !ruleScopeMatches(r, item.ProductID, product) {
			continue
		}
		return r
	}
	return nil
}

func ruleScopeMatches(r *model.CommissionRule, productID uuid.UUID, product *model.Product) bool {
	if r.ProductID == nil && r.CategoryID == nil {
		return true
	}
	if r.ProductID != nil && *r.ProductID == productID {
		return true
	}
	if r.CategoryID != nil && product != nil && product.CategoryID == *r.CategoryID {
		return true
	}
	return false
}

// commissionAmount applies the rule's rate over its basis: line revenue
// (price*qty) or line margin (price minus the cost snapshot taken when the
// item was added, times qty). Line discounts do not reduce either basis.
func commissionAmount(rule *model.CommissionRule, item *model.SaleLineItem) decimal.Decimal {
	qty := decimal.NewFromInt(int64(item.Quantity))

	base := item.UnitPrice.Mul(qty)
	if rule.Basis == model.BasisMargin {
		base = item.UnitPrice.Sub(item.UnitCostSnapshot).Mul(qty)
	}
	return money.Round2(base.Mul(rule.RatePct).Div(decimal.NewFromInt(100)))
}

func (s *commissionService) List(ctx context.Context, req dto.CommissionFilterRequest) (*dto.CommissionListResponse, error) {
	filter := repository.CommissionFilter{
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

	entries, total, err := s.repo.ListEntries(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.CommissionEntryResponse, 0, len(entries))
	for i := range entries {
		data = append(data, commissionEntryResponse(&entries[i]))
	}
	return &dto.CommissionListResponse{
		Data:  data,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}

func (s *commissionService) Pay(ctx context.Context, id uuid.UUID) (*dto.CommissionEntryResponse, error) {
	entry, err := s.repo.FindEntryByID(ctx, id)
	if err != nil {
		return nil, newValidationError("commission entry not found")
	}
	if entry.Status == model.CommissionPaid {
		return nil, newValidationError("commission entry is already paid")
	}

	if err := s.repo.UpdateEntryStatus(ctx, id, model.CommissionPaid); err != nil {
		return nil, err
	}
	entry.Status = model.CommissionPaid

	log.Info().
		Str("entry_id", id.String()).
		Str("amount", entry.Amount.String()).
		Msg("commission entry paid")

	resp := commissionEntryResponse(entry)
	return &resp, nil
}

func commissionEntryResponse(e *model.CommissionEntry) dto.CommissionEntryResponse {
	return dto.CommissionEntryResponse{
		ID:            e.ID.String(),
		SaleID:        e.SaleID.String(),
		LineItemID:    e.LineItemID.String(),
		SalespersonID: e.SalespersonID.String(),
		Amount:        e.Amount,
		Status:        e.Status,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}
