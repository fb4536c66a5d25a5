package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sarmadgill/pump-ledger/internal/config"
	"github.com/sarmadgill/pump-ledger/internal/gateway"
	"github.com/sarmadgill/pump-ledger/internal/handlers"
	"github.com/sarmadgill/pump-ledger/internal/repository"
	"github.com/sarmadgill/pump-ledger/internal/services"
	xhttp "github.com/sarmadgill/pump-ledger/pkg/http"
	"github.com/sarmadgill/pump-ledger/pkg/logger"
	"github.com/sarmadgill/pump-ledger/pkg/pg"
	"github.com/sarmadgill/pump-ledger/pkg/prom"
	"github.com/sarmadgill/pump-ledger/pkg/redis"
	"github.com/sarmadgill/pump-ledger/pkg/worker"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.CORSMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	var cache redis.RedisAdapter
	if config.Get().RedisAddr != "" {
		cache, err = redis.NewRedisAdapter("default", config.Get().RedisKeyPrefix, &redis.Options{
			Addrs:      []string{config.Get().RedisAddr},
			ClientName: "default",
			DB:         config.Get().RedisDatabase,
			Username:   config.Get().RedisUsername,
			Password:   config.Get().RedisPassword,
		})
		if err != nil {
			logger.Error("failed connecting to redis", "error", err)
			return
		}
	} else {
		logger.Warn("REDIS_ADDR not set, report cache disabled")
	}

	host, _ := os.Hostname()
	if err := prom.Create(host, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
		logger.Error("failed registering metrics", "error", err)
	}

	pool := worker.NewPool(config.Get().PrewarmWorkers, 16)
	pool.Start()
	defer pool.Stop()

	personRepo := repository.NewPersonRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	pumpRepo := repository.NewPumpRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	stockRepo := repository.NewStockRepository(db)
	tyreRepo := repository.NewTyreRepository(db)

	ledgerService := services.NewLedgerService(personRepo, loanRepo, paymentRepo)
	meterService := services.NewMeterService(db, pumpRepo, saleRepo, stockRepo)
	stockService := services.NewStockService(db, purchaseRepo, saleRepo, stockRepo)
	tyreService := services.NewTyreService(tyreRepo)
	reportService := services.NewReportService(saleRepo, purchaseRepo, cache, pool)

	gw := gateway.New(ledgerService, meterService, stockService, tyreService, reportService)

	ledgerHandler := handlers.NewLedgerHandler(gw, ledgerService)
	meterHandler := handlers.NewMeterHandler(gw, meterService)
	stockHandler := handlers.NewStockHandler(gw, stockService)
	reportHandler := handlers.NewReportHandler(reportService)
	tyreHandler := handlers.NewTyreHandler(gw, tyreService)
	healthHandler := handlers.NewHealthHandler(nil)

	handlers.RegisterLedgerRoutes(s.Router, ledgerHandler)
	handlers.RegisterMeterRoutes(s.Router, meterHandler)
	handlers.RegisterStockRoutes(s.Router, stockHandler)
	handlers.RegisterReportRoutes(s.Router, reportHandler)
	handlers.RegisterTyreRoutes(s.Router, tyreHandler)
	handlers.RegisterHealthRoutes(s.Router, healthHandler)
	s.Router.GET("/metrics", prom.Handler())

	logger.Info("starting api", "version", version, "commit", commit, "built", date)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(config.Get().HttpListenAddr); err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
