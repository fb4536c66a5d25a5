package helpers

import (
	"reflect"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sarmadgill/pump-ledger/internal/repository"
	"github.com/sarmadgill/pump-ledger/pkg/pg"
	"github.com/sarmadgill/pump-ledger/pkg/redis"
)

func SetupTestDB(t *testing.T) (*pg.DB, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
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

	pgDB := &pg.DB{}
	pgDBValue := reflect.ValueOf(pgDB).Elem()

	readField := pgDBValue.FieldByName("read")
	writeField := pgDBValue.FieldByName("write")

	readField = reflect.NewAt(readField.Type(), readField.Addr().UnsafePointer()).Elem()
	writeField = reflect.NewAt(writeField.Type(), writeField.Addr().UnsafePointer()).Elem()

	readField.Set(reflect.ValueOf(db))
	writeField.Set(reflect.ValueOf(db))

	return pgDB, db
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr := miniredis.RunT(t)

	adapter, err := redis.NewRedisAdapter("e2e-"+t.Name(), "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func CreateTestPump(t *testing.T, db *gorm.DB, name, fuel string, meter int64) *repository.PumpEntity {
	pump := &repository.PumpEntity{
		Name:     name,
		FuelType: fuel,
		Meter:    decimal.NewFromInt(meter),
	}
	require.NoError(t, db.Create(pump).Error)
	return pump
}

func CreateTestPerson(t *testing.T, db *gorm.DB, name string) *repository.PersonEntity {
	person := &repository.PersonEntity{
		Name: name,
	}
	require.NoError(t, db.Create(person).Error)
	return person
}
