package services

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sarmadgill/pump-ledger/internal/repository"
	"github.com/sarmadgill/pump-ledger/pkg/pg"
)

type testEnv struct {
	db           *pg.DB
	rawDB        *gorm.DB
	personRepo   *repository.PersonRepository
	loanRepo     *repository.LoanRepository
	paymentRepo  *repository.PaymentRepository
	pumpRepo     *repository.PumpRepository
	saleRepo     *repository.SaleRepository
	purchaseRepo *repository.PurchaseRepository
	stockRepo    *repository.StockRepository
	tyreRepo     *repository.TyreRepository
}

func setupEnv(t *testing.T) *testEnv {
	raw, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = raw.AutoMigrate(
		&repository.PersonEntity{},
		&repository.LoanEntity{},
		&repository.PaymentEntity{},
		&repository.PumpEntity{},
		&repository.ReadingEntity{},
		&repository.SaleEntity{},
		&repository.PurchaseEntity{},
		&repository.StockLevelEntity{},
		&repository.TyreEntity{},
	)
	require.NoError(t, err)

	db := &pg.DB{}
	dbValue := reflect.ValueOf(db).Elem()
	for _, name := range []string{"read", "write"} {
		field := dbValue.FieldByName(name)
		field = reflect.NewAt(field.Type(), field.Addr().UnsafePointer()).Elem()
		field.Set(reflect.ValueOf(raw))
	}

	return &testEnv{
		db:           db,
		rawDB:        raw,
		personRepo:   repository.NewPersonRepository(db),
		loanRepo:     repository.NewLoanRepository(db),
		paymentRepo:  repository.NewPaymentRepository(db),
		pumpRepo:     repository.NewPumpRepository(db),
		saleRepo:     repository.NewSaleRepository(db),
		purchaseRepo: repository.NewPurchaseRepository(db),
		stockRepo:    repository.NewStockRepository(db),
		tyreRepo:     repository.NewTyreRepository(db),
	}
}
