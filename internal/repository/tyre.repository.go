package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
	"github.com/sarmadgill/pump-ledger/internal/model"
	"github.com/sarmadgill/pump-ledger/pkg/pg"
)

type TyreRepository struct {
	*pg.DB
}

func NewTyreRepository(db *pg.DB) *TyreRepository {
	return &TyreRepository{
		db,
	}
}

func (r *TyreRepository) Get(ctx context.Context, id int64) (*model.Tyre, error) {
	var entity TyreEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tyre", id)
		}
		return nil, err
	}
	return toTyreModel(&entity), nil
}

func (r *TyreRepository) List(ctx context.Context) ([]model.Tyre, error) {
	var entities []*TyreEntity
	if err := r.Read(ctx).Order("id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toTyreModels(entities), nil
}

// ApplySale moves units from available to sold. Going negative is
// allowed; like fuel stock it signals a data-entry discrepancy and is
// surfaced in the listing rather than rejected.
func (r *TyreRepository) ApplySale(ctx context.Context, id int64, units int64) error {
	result := r.Write(ctx).
		Model(&TyreEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"available_stock": gorm.Expr("available_stock - ?", units),
			"sold_units":      gorm.Expr("sold_units + ?", units),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("tyre", id)
	}
	return nil
}
