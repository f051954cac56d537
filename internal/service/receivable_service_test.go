package service

import (
	"context"
	"testing"

	"retailcore/internal/dto"
	"retailcore/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReceivable_SplitAbsorbsRemainder(t *testing.T) {
	repo := newStubFinanceRepo()
	svc := NewReceivableService(repo)

	sale := &model.Sale{ID: uuid.New(), Number: 42, Total: dec("100.00")}
	account, err := svc.GenerateTx(nil, sale, nil, 3)
	require.NoError(t, err)

	require.Len(t, account.Installments, 3)
	assert.True(t, account.Installments[0].Amount.Equal(dec("33.33")))
	assert.True(t, account.Installments[1].Amount.Equal(dec("33.33")))
	assert.True(t, account.Installments[2].Amount.Equal(dec("33.34")), "last installment absorbs the remainder")

	sum := decimal.Zero
	for _, inst := range account.Installments {
		sum = sum.Add(inst.Amount)
	}
	assert.True(t, sum.Equal(sale.Total))

	assert.Equal(t, "Sale 42", account.Description)
	assert.Equal(t, model.ReceivableOpen, account.Status)
}

func TestGenerateReceivable_MonthlyDueDates(t *testing.T) {
	svc := NewReceivableService(newStubFinanceRepo())

	sale := &model.Sale{ID: uuid.New(), Number: 7, Total: dec("90.00")}
	account, err := svc.GenerateTx(nil, sale, nil, 3)
	require.NoError(t, err)

	require.Len(t, account.Installments, 3)
	first := account.Installments[0].DueOn
	assert.Equal(t, account.IssuedOn, first, "first installment due at issue")
	assert.Equal(t, first.AddDate(0, 1, 0), account.Installments[1].DueOn)
	assert.Equal(t, first.AddDate(0, 2, 0), account.Installments[2].DueOn)
	for i, inst := range account.Installments {
		assert.Equal(t, i+1, inst.Number)
	}
}

func TestGenerateReceivable_WalkInDebtor(t *testing.T) {
	repo := newStubFinanceRepo()
	svc := NewReceivableService(repo)

	sale := &model.Sale{ID: uuid.New(), Number: 1, Total: dec("10.00")}
	account, err := svc.GenerateTx(nil, sale, nil, 1)
	require.NoError(t, err)

	debtor, ok := repo.debtors["Walk-in Customer"]
	require.True(t, ok, "walk-in debtor must be created on demand")
	assert.Equal(t, debtor.ID, account.DebtorID)

	// A second walk-in sale reuses the same debtor.
	other := &model.Sale{ID: uuid.New(), Number: 2, Total: dec("20.00")}
	second, err := svc.GenerateTx(nil, other, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, debtor.ID, second.DebtorID)
	assert.Len(t, repo.debtors, 1)
}

func TestGenerateReceivable_CustomerDebtor(t *testing.T) {
	repo := newStubFinanceRepo()
	svc := NewReceivableService(repo)

	document := "20304050607"
	customer := &model.Customer{ID: uuid.New(), Name: "ACME Ltd", Document: &document}
	sale := &model.Sale{ID: uuid.New(), Number: 3, Total: dec("500.00")}

	account, err := svc.GenerateTx(nil, sale, customer, 2)
	require.NoError(t, err)

	debtor, ok := repo.debtors["ACME Ltd"]
	require.True(t, ok)
	assert.Equal(t, debtor.ID, account.DebtorID)
	require.NotNil(t, debtor.Document)
	assert.Equal(t, document, *debtor.Document)
}

func TestPayInstallment_StatusProgression(t *testing.T) {
	repo := newStubFinanceRepo()
	svc := NewReceivableService(repo)

	sale := &model.Sale{ID: uuid.New(), Number: 9, Total: dec("60.00")}
	account, err := svc.GenerateTx(nil, sale, nil, 2)
	require.NoError(t, err)
	require.Len(t, account.Installments, 2)

	resp, err := svc.PayInstallment(context.Background(), account.Installments[0].ID, dto.PayInstallmentRequest{
		Amount: dec("30.00"), PaidOn: "2026-08-30",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReceivablePartial, resp.Status)

	resp, err = svc.PayInstallment(context.Background(), account.Installments[1].ID, dto.PayInstallmentRequest{
		Amount: dec("30.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReceivablePaid, resp.Status)
}

func TestPayInstallment_Validation(t *testing.T) {
	repo := newStubFinanceRepo()
	svc := NewReceivableService(repo)

	sale := &model.Sale{ID: uuid.New(), Number: 11, Total: dec("40.00")}
	account, err := svc.GenerateTx(nil, sale, nil, 1)
	require.NoError(t, err)
	installmentID := account.Installments[0].ID

	var verr *ValidationError

	_, err = svc.PayInstallment(context.Background(), installmentID, dto.PayInstallmentRequest{Amount: dec("0")})
	require.ErrorAs(t, err, &verr)

	_, err = svc.PayInstallment(context.Background(), uuid.New(), dto.PayInstallmentRequest{Amount: dec("40.00")})
	require.ErrorAs(t, err, &verr)

	_, err = svc.PayInstallment(context.Background(), installmentID, dto.PayInstallmentRequest{Amount: dec("40.00")})
	require.NoError(t, err)

	// Paying twice is rejected.
	_, err = svc.PayInstallment(context.Background(), installmentID, dto.PayInstallmentRequest{Amount: dec("40.00")})
	require.ErrorAs(t, err, &verr)
}
