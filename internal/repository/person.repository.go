package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
	"github.com/sarmadgill/pump-ledger/internal/model"
	"github.com/sarmadgill/pump-ledger/pkg/pg"
)

type PersonRepository struct {
	*pg.DB
}

func NewPersonRepository(db *pg.DB) *PersonRepository {
	return &PersonRepository{
		db,
	}
}

func (r *PersonRepository) Create(ctx context.Context, p *model.Person) (*model.Person, error) {
	entity := toPersonEntity(p)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toPersonModel(entity), nil
}

func (r *PersonRepository) Get(ctx context.Context, id int64) (*model.Person, error) {
	var entity PersonEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("person", id)
		}
		return nil, err
	}
	return toPersonModel(&entity), nil
}

// List returns everyone in insertion order. The id column is
// autoincrement, so ordering by it is the stable insertion order.
func (r *PersonRepository) List(ctx context.Context) ([]*model.Person, error) {
	var entities []*PersonEntity
	if err := r.Read(ctx).Order("id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toPersonModels(entities), nil
}
