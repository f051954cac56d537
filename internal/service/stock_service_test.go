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

func TestRegisterMovement_WeightedAverageCost(t *testing.T) {
	repo := newStubStockRepo()
	svc := NewStockService(repo)
	productID := uuid.New()

	_, err := svc.RegisterMovement(context.Background(), dto.RegisterMovementRequest{
		ProductID: productID.String(),
		Kind:      model.MovementEntry,
		Quantity:  10,
		UnitCost:  dec("4.00"),
	})
	require.NoError(t, err)

	_, err = svc.RegisterMovement(context.Background(), dto.RegisterMovementRequest{
		ProductID: productID.String(),
		Kind:      model.MovementEntry,
		Quantity:  10,
		UnitCost:  dec("6.00"),
	})
	require.NoError(t, err)

	ledger := repo.ledgers[productID]
	require.NotNil(t, ledger)
	assert.Equal(t, 20, ledger.Quantity)
	assert.True(t, ledger.AvgUnitCost.Equal(dec("5.00")), "got %s", ledger.AvgUnitCost)
}

func TestAppendMovementTx_ExitStampsLedgerCostAndLeavesItUnchanged(t *testing.T) {
	repo := newStubStockRepo()
	svc := NewStockService(repo)
	productID := uuid.New()
	repo.ledgers[productID] = &model.StockLedger{
		ID: uuid.New(), ProductID: productID, Quantity: 8, AvgUnitCost: dec("5.50"),
	}

	movement := model.StockMovement{ProductID: productID, Kind: model.MovementExit, Quantity: 3}
	ledger, err := svc.AppendMovementTx(nil, &movement)
	require.NoError(t, err)

	assert.Equal(t, 5, ledger.Quantity)
	assert.True(t, ledger.AvgUnitCost.Equal(dec("5.50")), "exit must not change the cost")
	assert.True(t, movement.UnitCost.Equal(dec("5.50")), "movement must carry the cost at exit time")
	require.Len(t, repo.movements, 1)
}

func TestAppendMovementTx_QuantityClampsAtZero(t *testing.T) {
	repo := newStubStockRepo()
	svc := NewStockService(repo)
	productID := uuid.New()
	repo.ledgers[productID] = &model.StockLedger{
		ID: uuid.New(), ProductID: productID, Quantity: 2, AvgUnitCost: dec("1.00"),
	}

	ledger, err := svc.AppendMovementTx(nil, &model.StockMovement{
		ProductID: productID, Kind: model.MovementAdjustment, Quantity: -5,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, ledger.Quantity)
	assert.True(t, ledger.AvgUnitCost.Equal(dec("1.00")))
}

func TestRegisterMovement_AdjustmentCostRules(t *testing.T) {
	repo := newStubStockRepo()
	svc := NewStockService(repo)
	productID := uuid.New()
	repo.ledgers[productID] = &model.StockLedger{
		ID: uuid.New(), ProductID: productID, Quantity: 10, AvgUnitCost: dec("4.00"),
	}

	// Positive delta with a cost recomputes the average.
	_, err := svc.RegisterMovement(context.Background(), dto.RegisterMovementRequest{
		ProductID: productID.String(),
		Kind:      model.MovementAdjustment,
		Quantity:  10,
		UnitCost:  dec("6.00"),
	})
	require.NoError(t, err)
	assert.True(t, repo.ledgers[productID].AvgUnitCost.Equal(dec("5.00")))
	assert.Equal(t, 20, repo.ledgers[productID].Quantity)

	// Positive delta without a cost leaves the average alone.
	_, err = svc.RegisterMovement(context.Background(), dto.RegisterMovementRequest{
		ProductID: productID.String(),
		Kind:      model.MovementAdjustment,
		Quantity:  5,
	})
	require.NoError(t, err)
	assert.True(t, repo.ledgers[productID].AvgUnitCost.Equal(dec("5.00")))
	assert.Equal(t, 25, repo.ledgers[productID].Quantity)

	// Negative delta never touches the average, whatever the cost says.
	_, err = svc.RegisterMovement(context.Background(), dto.RegisterMovementRequest{
		ProductID: productID.String(),
		Kind:      model.MovementAdjustment,
		Quantity:  -5,
		UnitCost:  dec("9.99"),
	})
	require.NoError(t, err)
	assert.True(t, repo.ledgers[productID].AvgUnitCost.Equal(dec("5.00")))
	assert.Equal(t, 20, repo.ledgers[productID].Quantity)
}

func TestRegisterMovement_Validation(t *testing.T) {
	svc := NewStockService(newStubStockRepo())
	productID := uuid.New().String()

	cases := []struct {
		name string
		req  dto.RegisterMovementRequest
	}{
		{"bad product id", dto.RegisterMovementRequest{ProductID: "nope", Kind: model.MovementEntry, Quantity: 1}},
		{"entry with zero quantity", dto.RegisterMovementRequest{ProductID: productID, Kind: model.MovementEntry, Quantity: 0}},
		{"entry with negative quantity", dto.RegisterMovementRequest{ProductID: productID, Kind: model.MovementEntry, Quantity: -3}},
		{"entry with negative cost", dto.RegisterMovementRequest{ProductID: productID, Kind: model.MovementEntry, Quantity: 1, UnitCost: dec("-1")}},
		{"adjustment with zero delta", dto.RegisterMovementRequest{ProductID: productID, Kind: model.MovementAdjustment, Quantity: 0}},
		{"direct exit", dto.RegisterMovementRequest{ProductID: productID, Kind: model.MovementExit, Quantity: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RegisterMovement(context.Background(), tc.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestLedger_UnknownProductReportsZero(t *testing.T) {
	svc := NewStockService(newStubStockRepo())
	productID := uuid.New()

	resp, err := svc.Ledger(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, productID.String(), resp.ProductID)
	assert.Equal(t, 0, resp.Quantity)
	assert.True(t, resp.AvgUnitCost.IsZero())
}
