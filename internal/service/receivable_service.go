package service

import (
	"context"
	"fmt"
	"time"

	"retailcore/internal/dto"
	"retailcore/internal/model"
	"retailcore/internal/money"
	"retailcore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// walkInDebtorName backs receivables of sales without an identified
// customer. The debtor row is created once and reused.
const walkInDebtorName = "Walk-in Customer"

// ReceivableService creates one receivable account per invoiced sale and
// tracks installment payments.
type ReceivableService interface {
	// GenerateTx creates the sale's receivable with n installments inside the
	// invoicing transaction. customer may be nil (walk-in sale).
	GenerateTx(tx *gorm.DB, sale *model.Sale, customer *model.Customer, installments int) (*model.ReceivableAccount, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ReceivableAccountResponse, error)
	GetBySaleID(ctx context.Context, saleID uuid.UUID) (*dto.ReceivableAccountResponse, error)
	PayInstallment(ctx context.Context, installmentID uuid.UUID, req dto.PayInstallmentRequest) (*dto.ReceivableAccountResponse, error)
}

type receivableService struct {
	repo repository.FinanceRepository
}

func NewReceivableService(repo repository.FinanceRepository) ReceivableService {
	return &receivableService{repo: repo}
}

func (s *receivableService) GenerateTx(tx *gorm.DB, sale *model.Sale, customer *model.Customer, installments int) (*model.ReceivableAccount, error) {
	var debtor *model.Debtor
	var err error
	if customer == nil {
		debtor, err = s.repo.GetOrCreateDebtorTx(tx, walkInDebtorName, nil)
	} else {
		debtor, err = s.repo.GetOrCreateDebtorTx(tx, customer.Name, customer.Document)
	}
	if err != nil {
		return nil, err
	}

	if installments < 1 {
		installments = 1
	}
	issuedOn := time.Now().Truncate(24 * time.Hour)
	parts := money.SplitInstallments(sale.Total, installments)

	account := model.ReceivableAccount{
		SaleID:      &sale.ID,
		DebtorID:    debtor.ID,
		Description: fmt.Sprintf("Sale %d", sale.Number),
		Total:       sale.Total,
		IssuedOn:    issuedOn,
		Status:      model.ReceivableOpen,
	}
	for i, amount := range parts {
		account.Installments = append(account.Installments, model.Installment{
			Number: i + 1,
			// First installment due at issue, the rest monthly after it.
			DueOn:  issuedOn.AddDate(0, i, 0),
			Amount: amount,
		})
	}

	if err := s.repo.CreateAccountTx(tx, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *receivableService) Get(ctx context.Context, id uuid.UUID) (*dto.ReceivableAccountResponse, error) {
	account, err := s.repo.FindAccountByID(ctx, id)
	if err != nil {
		return nil, newValidationError("receivable account not found")
	}
	resp := receivableResponse(account)
	return &resp, nil
}

func (s *receivableService) GetBySaleID(ctx context.Context, saleID uuid.UUID) (*dto.ReceivableAccountResponse, error) {
	account, err := s.repo.FindAccountBySaleID(ctx, saleID)
	if err != nil {
		return nil, newValidationError("no receivable account for this sale")
	}
	resp := receivableResponse(account)
	return &resp, nil
}

func (s *receivableService) PayInstallment(ctx context.Context, installmentID uuid.UUID, req dto.PayInstallmentRequest) (*dto.ReceivableAccountResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, newValidationError("payment amount must be greater than zero")
	}

	installment, err := s.repo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, newValidationError("installment not found")
	}
	if installment.PaidOn != nil {
		return nil, newValidationError("installment is already paid")
	}

	paidOn := time.Now().Truncate(24 * time.Hour)
	if req.PaidOn != "" {
		paidOn, err = time.Parse("2006-01-02", req.PaidOn)
		if err != nil {
			return nil, newValidationError("invalid paid_on date")
		}
	}

	installment.PaidOn = &paidOn
	installment.PaidAmount = req.Amount
	if err := s.repo.SaveInstallment(ctx, installment); err != nil {
		return nil, err
	}

	status, err := s.recomputeStatus(ctx, installment.AccountID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("installment_id", installmentID.String()).
		Str("amount", req.Amount.String()).
		Str("account_status", status).
		Msg("installment paid")

	return s.Get(ctx, installment.AccountID)
}

// recomputeStatus derives the account status from its installments: paid
// when all are settled, partial when some are, open otherwise.
func (s *receivableService) recomputeStatus(ctx context.Context, accountID uuid.UUID) (string, error) {
	installments, err := s.repo.InstallmentsFor(ctx, accountID)
	if err != nil {
		return "", err
	}

	paid := 0
	for _, inst := range installments {
		if inst.PaidOn != nil {
			paid++
		}
	}

	status := model.ReceivableOpen
	switch {
	case paid == len(installments) && len(installments) > 0:
		status = model.ReceivablePaid
	case paid > 0:
		status = model.ReceivablePartial
	}

	return status, s.repo.UpdateAccountStatus(ctx, accountID, status)
}

func receivableResponse(a *model.ReceivableAccount) dto.ReceivableAccountResponse {
	resp := dto.ReceivableAccountResponse{
		ID:          a.ID.String(),
		Description: a.Description,
		Total:       a.Total,
		IssuedOn:    a.IssuedOn.Format("2006-01-02"),
		Status:      a.Status,
	}
	if a.SaleID != nil {
		saleID := a.SaleID.String()
		resp.SaleID = &saleID
	}
	if a.Debtor != nil {
		resp.Debtor = a.Debtor.Name
	}
	for _, inst := range a.Installments {
		item := dto.InstallmentResponse{
			ID:         inst.ID.String(),
			Number:     inst.Number,
			DueOn:      inst.DueOn.Format("2006-01-02"),
			Amount:     inst.Amount,
			PaidAmount: inst.PaidAmount,
		}
		if inst.PaidOn != nil {
			paidOn := inst.PaidOn.Format("2006-01-02")
			item.PaidOn = &paidOn
		}
		resp.Installments = append(resp.Installments, item)
	}
	return resp
}
