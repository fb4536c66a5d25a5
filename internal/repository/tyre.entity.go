package repository

import (
	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/model"
)

type TyreEntity struct {
	ID             int64           `db:"id"              gorm:"primaryKey;autoIncrement;column:id"`
	Name           string          `db:"tyre"            gorm:"column:tyre;not null"`
	BuyingPrice    decimal.Decimal `db:"buying_price"    gorm:"column:buying_price;type:decimal(18,4);not null"`
	AvailableStock int64           `db:"available_stock" gorm:"column:available_stock;not null;default:0"`
	SoldUnits      int64           `db:"sold_units"      gorm:"column:sold_units;not null;default:0"`
}

func (TyreEntity) TableName() string {
	return "tyre_stock"
}

func toTyreModel(e *TyreEntity) *model.Tyre {
	if e == nil {
		return nil
	}
	return &model.Tyre{
		ID:             e.ID,
		Name:           e.Name,
		BuyingPrice:    e.BuyingPrice,
		AvailableStock: e.AvailableStock,
		SoldUnits:      e.SoldUnits,
	}
}

func toTyreModels(entities []*TyreEntity) []model.Tyre {
	models := make([]model.Tyre, len(entities))
	for i, e := range entities {
		models[i] = *toTyreModel(e)
	}
	return models
}
