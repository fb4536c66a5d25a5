package services

import (
	"context"

	"github.com/sarmadgill/pump-ledger/internal/model"
)

type TyreRepository interface {
	Get(ctx context.Context, id int64) (*model.Tyre, error)
	List(ctx context.Context) ([]model.Tyre, error)
	ApplySale(ctx context.Context, id int64, units int64) error
}

// TyreService covers the small tyre side-inventory.
type TyreService struct {
	tyreRepo TyreRepository
}

func NewTyreService(tyreRepo TyreRepository) *TyreService {
	return &TyreService{tyreRepo: tyreRepo}
}

func (s *TyreService) ListStock(ctx context.Context) ([]model.Tyre, error) {
	return s.tyreRepo.List(ctx)
}

// RecordSale moves units from available to sold and returns the updated
// line. Available stock may go negative, same as the fuel counters; the
// sheet records what was handed over, not what the book says is left.
func (s *TyreService) RecordSale(ctx context.Context, p model.TyreSaleRequest) (*model.Tyre, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.tyreRepo.Get(ctx, p.TyreID); err != nil {
		return nil, err
	}
	if err := s.tyreRepo.ApplySale(ctx, p.TyreID, p.UnitsSold); err != nil {
		return nil, err
	}
	return s.tyreRepo.Get(ctx, p.TyreID)
}
