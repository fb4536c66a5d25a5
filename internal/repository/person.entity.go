package repository

import (
	"time"

	"github.com/sarmadgill/pump-ledger/internal/model"
)

type PersonEntity struct {
	ID        int64     `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Name      string    `db:"name"       gorm:"column:name;not null"`
	Address   string    `db:"address"    gorm:"column:address;not null"`
	Phone     string    `db:"phone"      gorm:"column:phone;not null"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (PersonEntity) TableName() string {
	return "persons"
}

func toPersonEntity(m *model.Person) *PersonEntity {
	if m == nil {
		return nil
	}
	return &PersonEntity{
		ID:        m.ID,
		Name:      m.Name,
		Address:   m.Address,
		Phone:     m.Phone,
		CreatedAt: m.CreatedAt,
	}
}

func toPersonModel(e *PersonEntity) *model.Person {
	if e == nil {
		return nil
	}
	return &model.Person{
		ID:        e.ID,
		Name:      e.Name,
		Address:   e.Address,
		Phone:     e.Phone,
		CreatedAt: e.CreatedAt,
	}
}

func toPersonModels(entities []*PersonEntity) []*model.Person {
	if entities == nil {
		return nil
	}
	models := make([]*model.Person, len(entities))
	for i, e := range entities {
		models[i] = toPersonModel(e)
	}
	return models
}
