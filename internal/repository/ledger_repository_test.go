package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
	"github.com/sarmadgill/pump-ledger/internal/model"
)

func seedPerson(t *testing.T, db *testDB, name string) int64 {
	t.Helper()
	entity := &PersonEntity{Name: name, Address: "GT Road", Phone: "0300-1234567"}
	require.NoError(t, db.Write(context.Background()).Create(entity).Error)
	return entity.ID
}

func TestLoanRepository_CreateAndSum(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLoanRepository(db.DB)
	ctx := context.Background()
	personID := seedPerson(t, db, "Ali")

	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	loan, err := repo.Create(ctx, &model.Loan{
		PersonID: personID,
		Date:     date,
		FuelType: model.FuelPetrol,
		Units:    decimal.NewFromInt(50),
		UnitRate: decimal.NewFromInt(10),
		Amount:   decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.NotZero(t, loan.ID)

	_, err = repo.Create(ctx, &model.Loan{
		PersonID: personID,
		Date:     date.AddDate(0, 0, 1),
		FuelType: model.FuelDiesel,
		Units:    decimal.NewFromFloat(12.5),
		UnitRate: decimal.NewFromInt(20),
		Amount:   decimal.NewFromInt(250),
	})
	require.NoError(t, err)

	sum, err := repo.SumAmountByPerson(ctx, personID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(750)), "got %s", sum)
}

func TestLoanRepository_SumEmptyIsZero(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLoanRepository(db.DB)

	sum, err := repo.SumAmountByPerson(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestLoanRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLoanRepository(db.DB)
	ctx := context.Background()
	personID := seedPerson(t, db, "Ali")

	loan, err := repo.Create(ctx, &model.Loan{
		PersonID: personID,
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		FuelType: model.FuelPetrol,
		Units:    decimal.NewFromInt(10),
		UnitRate: decimal.NewFromInt(5),
		Amount:   decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, loan.ID))

	sum, err := repo.SumAmountByPerson(ctx, personID)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())

	err = repo.Delete(ctx, loan.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestPaymentRepository_SumAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db.DB)
	ctx := context.Background()
	personID := seedPerson(t, db, "Ahmed")

	p1, err := repo.Create(ctx, &model.Payment{
		PaidBy: personID,
		Date:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &model.Payment{
		PaidBy: personID,
		Date:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromFloat(99.99),
	})
	require.NoError(t, err)

	sum, err := repo.SumAmountByPerson(ctx, personID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromFloat(299.99)), "got %s", sum)

	require.NoError(t, repo.Delete(ctx, p1.ID))

	sum, err = repo.SumAmountByPerson(ctx, personID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromFloat(99.99)), "got %s", sum)
}

func TestPaymentRepository_Delete_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db.DB)

	err := repo.Delete(context.Background(), 999)
	assert.True(t, apperr.IsNotFound(err))
}

func TestPersonRepository_ListInsertionOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPersonRepository(db.DB)
	ctx := context.Background()

	for _, name := range []string{"Ali", "Bashir", "Chaudhry"} {
		_, err := repo.Create(ctx, &model.Person{Name: name, Address: "addr", Phone: "phone"})
		require.NoError(t, err)
	}

	people, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, people, 3)
	assert.Equal(t, "Ali", people[0].Name)
	assert.Equal(t, "Bashir", people[1].Name)
	assert.Equal(t, "Chaudhry", people[2].Name)
}

func TestPersonRepository_Get_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPersonRepository(db.DB)

	_, err := repo.Get(context.Background(), 1)
	assert.True(t, apperr.IsNotFound(err))
}
