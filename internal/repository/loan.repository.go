package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
	"github.com/sarmadgill/pump-ledger/internal/model"
	"github.com/sarmadgill/pump-ledger/pkg/pg"
)

type LoanRepository struct {
	*pg.DB
}

func NewLoanRepository(db *pg.DB) *LoanRepository {
	return &LoanRepository{
		db,
	}
}

func (r *LoanRepository) Create(ctx context.Context, loan *model.Loan) (*model.Loan, error) {
	entity := toLoanEntity(loan)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toLoanModel(entity), nil
}

func (r *LoanRepository) Get(ctx context.Context, id int64) (*model.Loan, error) {
	var entity LoanEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("loan", id)
		}
		return nil, err
	}
	return toLoanModel(&entity), nil
}

func (r *LoanRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).Where("id = ?", id).Delete(&LoanEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("loan", id)
	}
	return nil
}

func (r *LoanRepository) ListByPerson(ctx context.Context, personID int64) ([]model.Loan, error) {
	var entities []*LoanEntity
	err := r.Read(ctx).
		Where("person_id = ?", personID).
		Order("date DESC, id DESC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toLoanModels(entities), nil
}

// SumAmountByPerson computes the person's loan total fresh from the
// rows; there is no cached figure to drift.
func (r *LoanRepository) SumAmountByPerson(ctx context.Context, personID int64) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.Read(ctx).
		Model(&LoanEntity{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("person_id = ?", personID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
