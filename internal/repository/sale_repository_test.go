package repository_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/repository"
	"github.com/straye-as/elevator-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleFor(proforma *domain.Proforma) *domain.Sale {
	proformaID := proforma.ID
	return &domain.Sale{
		ProformaID: &proformaID,
		ClientID:   proforma.ClientID,
		Price:      proforma.TotalAmount,
	}
}

func TestSaleRepository_CreateForProforma(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSaleRepository(db)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, db, "Repo Client")
	proforma := testutil.CreateTestProforma(t, db, client.ID, "Insert Once", domain.ProformaStatusAccepted)

	first := saleFor(proforma)
	created, err := repo.CreateForProforma(ctx, nil, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, first.ID)

	second := saleFor(proforma)
	second.Price = decimal.NewFromInt(1)
	created, err = repo.CreateForProforma(ctx, nil, second)
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, int64(1), testutil.CountRows(t, db, &domain.Sale{}))

	stored, err := repo.FindByProformaID(ctx, nil, proforma.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, first.ID, stored.ID)
	assert.True(t, proforma.TotalAmount.Equal(stored.Price))
}

func TestSaleRepository_CreateForProforma_InsideTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSaleRepository(db)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, db, "Tx Client")
	proforma := testutil.CreateTestProforma(t, db, client.ID, "Rolled Back", domain.ProformaStatusAccepted)

	tx := db.Begin()
	created, err := repo.CreateForProforma(ctx, tx, saleFor(proforma))
	require.NoError(t, err)
	assert.True(t, created)
	require.NoError(t, tx.Rollback().Error)

	missing, err := repo.FindByProformaID(ctx, nil, proforma.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProformaRepository_ConvertedFlag(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewProformaRepository(db)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, db, "Flag Client")
	proforma := testutil.CreateTestProforma(t, db, client.ID, "Flagged", domain.ProformaStatusAccepted)

	require.NoError(t, repo.MarkConverted(ctx, nil, proforma.ID))
	stored, err := repo.GetByID(ctx, proforma.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsConvertedToSale)

	require.NoError(t, repo.ClearConverted(ctx, nil, proforma.ID))
	stored, err = repo.GetByID(ctx, proforma.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsConvertedToSale)
}
