package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
	"github.com/sarmadgill/pump-ledger/internal/model"
	"github.com/sarmadgill/pump-ledger/pkg/pg"
)

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *model.Purchase) (*model.Purchase, error)
	List(ctx context.Context) ([]model.Purchase, error)
	SumUnits(ctx context.Context, fuel model.FuelType, from *time.Time) (decimal.Decimal, error)
}

// StockService tracks fuel inventory. The counters in stock_levels are
// a cache over the purchase and sale event rows; every read verifies
// the cache against the events and refuses to answer from a diverged
// one.
type StockService struct {
	db           *pg.DB
	purchaseRepo PurchaseRepository
	saleRepo     SaleRepository
	stockRepo    StockRepository
}

func NewStockService(db *pg.DB, purchaseRepo PurchaseRepository, saleRepo SaleRepository, stockRepo StockRepository) *StockService {
	return &StockService{
		db:           db,
		purchaseRepo: purchaseRepo,
		saleRepo:     saleRepo,
		stockRepo:    stockRepo,
	}
}

// RecordPurchase books a delivery: the purchase row with its running
// per-fuel total and the purchased counter move in one transaction.
func (s *StockService) RecordPurchase(ctx context.Context, p model.PurchaseCreateRequest) (*model.Purchase, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var created *model.Purchase
	err := s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		purchase, err := s.purchaseRepo.Create(txCtx, &model.Purchase{
			Date:              model.Day(p.Date),
			FuelType:          p.FuelType,
			Units:             p.Units,
			BuyingRatePerUnit: p.BuyingRatePerUnit,
		})
		if err != nil {
			return err
		}
		if err := s.stockRepo.AddPurchased(txCtx, p.FuelType, p.Units); err != nil {
			return err
		}
		created = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// FuelStock returns the verified stock level for one fuel.
func (s *StockService) FuelStock(ctx context.Context, fuel model.FuelType) (*model.StockLevel, error) {
	if !fuel.Valid() {
		return nil, apperr.Validation("fuel_type", "must be petrol or diesel")
	}
	level, err := s.stockRepo.Get(ctx, fuel)
	if err != nil {
		return nil, err
	}
	if err := s.verify(ctx, fuel, level); err != nil {
		return nil, err
	}
	return level, nil
}

// GetStock returns verified levels for every fuel.
func (s *StockService) GetStock(ctx context.Context) (map[model.FuelType]model.StockLevel, error) {
	fuels := model.FuelTypes()
	out := make(map[model.FuelType]model.StockLevel, len(fuels))
	for _, fuel := range fuels {
		level, err := s.FuelStock(ctx, fuel)
		if err != nil {
			return nil, err
		}
		out[fuel] = *level
	}
	return out, nil
}

func (s *StockService) ListPurchases(ctx context.Context) ([]model.Purchase, error) {
	return s.purchaseRepo.List(ctx)
}

// verify cross-checks the cached counters against the event sums.
func (s *StockService) verify(ctx context.Context, fuel model.FuelType, level *model.StockLevel) error {
	purchased, err := s.purchaseRepo.SumUnits(ctx, fuel, nil)
	if err != nil {
		return err
	}
	sold, err := s.saleRepo.SumUnits(ctx, fuel, nil)
	if err != nil {
		return err
	}
	if !level.Purchased.Equal(purchased) || !level.Sold.Equal(sold) {
		return apperr.Consistency("stock:"+string(fuel),
			fmt.Sprintf("cached %s purchased / %s sold, events say %s / %s",
				level.Purchased, level.Sold, purchased, sold))
	}
	return nil
}
