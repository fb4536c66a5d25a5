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

type PaymentRepository struct {
	*pg.DB
}

func NewPaymentRepository(db *pg.DB) *PaymentRepository {
	return &PaymentRepository{
		db,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	entity := toPaymentEntity(payment)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toPaymentModel(entity), nil
}

func (r *PaymentRepository) Get(ctx context.Context, id int64) (*model.Payment, error) {
	var entity PaymentEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("payment", id)
		}
		return nil, err
	}
	return toPaymentModel(&entity), nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).Where("id = ?", id).Delete(&PaymentEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("payment", id)
	}
	return nil
}

func (r *PaymentRepository) ListByPerson(ctx context.Context, personID int64) ([]model.Payment, error) {
	var entities []*PaymentEntity
	err := r.Read(ctx).
		Where("paid_by = ?", personID).
		Order("date DESC, id DESC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toPaymentModels(entities), nil
}

func (r *PaymentRepository) SumAmountByPerson(ctx context.Context, personID int64) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.Read(ctx).
		Model(&PaymentEntity{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("paid_by = ?", personID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
