package gateway

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sarmadgill/pump-ledger/internal/apperr"
	"github.com/sarmadgill/pump-ledger/internal/model"
	"github.com/sarmadgill/pump-ledger/internal/repository"
	"github.com/sarmadgill/pump-ledger/internal/services"
	"github.com/sarmadgill/pump-ledger/pkg/pg"
)

type gatewayEnv struct {
	gw     *Gateway
	ledger *services.LedgerService
	rawDB  *gorm.DB
	pumps  *repository.PumpRepository
}

func setupGateway(t *testing.T) *gatewayEnv {
	raw, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection, or every pool member would get its own empty
	// in-memory database.
	sqlDB, err := raw.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

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

	personRepo := repository.NewPersonRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	pumpRepo := repository.NewPumpRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	stockRepo := repository.NewStockRepository(db)
	tyreRepo := repository.NewTyreRepository(db)

	ledger := services.NewLedgerService(personRepo, loanRepo, paymentRepo)
	meter := services.NewMeterService(db, pumpRepo, saleRepo, stockRepo)
	stock := services.NewStockService(db, purchaseRepo, saleRepo, stockRepo)
	tyre := services.NewTyreService(tyreRepo)
	reports := services.NewReportService(saleRepo, purchaseRepo, nil, nil)

	return &gatewayEnv{
		gw:     New(ledger, meter, stock, tyre, reports),
		ledger: ledger,
		rawDB:  raw,
		pumps:  pumpRepo,
	}
}

func TestGateway_ConcurrentMutationsKeepBalanceIdentity(t *testing.T) {
	env := setupGateway(t)
	ctx := context.Background()

	person, err := env.gw.CreatePerson(ctx, model.PersonCreateRequest{Name: "Ali", Address: "Canal Rd", Phone: "0300-1234567"})
	require.NoError(t, err)

	const rounds = 20
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := env.gw.AddLoan(ctx, model.LoanCreateRequest{
				PersonID: person.ID,
				Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				FuelType: model.FuelPetrol,
				Units:    decimal.NewFromInt(1),
				UnitRate: decimal.NewFromInt(100),
			})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := env.gw.AddPayment(ctx, model.PaymentCreateRequest{
				PaidBy: person.ID,
				Date:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
				Amount: decimal.NewFromInt(40),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ledger, err := env.ledger.GetPersonLedger(ctx, person.ID)
	require.NoError(t, err)
	assert.True(t, ledger.Totals.Loan.Equal(decimal.NewFromInt(rounds*100)), "loan %s", ledger.Totals.Loan)
	assert.True(t, ledger.Totals.Paid.Equal(decimal.NewFromInt(rounds*40)), "paid %s", ledger.Totals.Paid)
	assert.True(t, ledger.Totals.Net.Equal(ledger.Totals.Loan.Sub(ledger.Totals.Paid)), "net %s", ledger.Totals.Net)
	assert.Len(t, ledger.Entries, rounds*2)
}

func TestGateway_ConcurrentReadingBatchesOneWins(t *testing.T) {
	env := setupGateway(t)
	ctx := context.Background()

	pump := repository.PumpEntity{Name: "P1", FuelType: string(model.FuelPetrol), Meter: decimal.NewFromInt(100)}
	require.NoError(t, env.rawDB.Create(&pump).Error)

	batch := []model.ReadingEntry{
		{PumpID: pump.ID, PreviousMeter: decimal.NewFromInt(100), CurrentMeter: decimal.NewFromInt(120), UnitRate: decimal.NewFromInt(100)},
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.gw.SubmitReadings(ctx, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), batch)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var accepted, conflicted int
	for err := range errs {
		switch {
		case err == nil:
			accepted++
		case apperr.IsConflict(err):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, conflicted)

	current, err := env.pumps.Get(ctx, pump.ID)
	require.NoError(t, err)
	assert.True(t, current.Meter.Equal(decimal.NewFromInt(120)), "meter %s", current.Meter)
}

func TestGateway_LockWaitHonorsCancellation(t *testing.T) {
	env := setupGateway(t)

	person, err := env.gw.CreatePerson(context.Background(), model.PersonCreateRequest{Name: "Waiter", Address: "Canal Rd", Phone: "0300-7654321"})
	require.NoError(t, err)

	release, err := env.gw.locks.Lock(context.Background(), personKey(person.ID))
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = env.gw.AddLoan(ctx, model.LoanCreateRequest{
		PersonID: person.ID,
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		FuelType: model.FuelPetrol,
		Units:    decimal.NewFromInt(1),
		UnitRate: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
