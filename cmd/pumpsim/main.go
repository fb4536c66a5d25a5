// pumpsim is a mock forecourt controller. It simulates dispenser
// totalizers creeping forward as vehicles fill up and can transcribe
// the dials into a reading batch against the ledger API, the way a
// site operator would at close of day.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type SimPump struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	FuelType     string  `json:"fuel_type"`
	Meter        float64 `json:"meter"`
	LastReported float64 `json:"last_reported"`
	UnitRate     float64 `json:"unit_rate"`
}

type Controller struct {
	mu           sync.Mutex
	pumps        []*SimPump
	controllerID string
	ledgerAPI    string
	rng          *rand.Rand
}

func NewController(ledgerAPI string) *Controller {
	c := &Controller{
		controllerID: "PUMPSIM_" + uuid.New().String()[:8],
		ledgerAPI:    ledgerAPI,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	c.pumps = []*SimPump{
		{ID: 1, Name: "Pump 1", FuelType: "petrol", Meter: 125000, LastReported: 125000, UnitRate: 272.50},
		{ID: 2, Name: "Pump 2", FuelType: "petrol", Meter: 98000, LastReported: 98000, UnitRate: 272.50},
		{ID: 3, Name: "Pump 3", FuelType: "diesel", Meter: 143000, LastReported: 143000, UnitRate: 283.00},
		{ID: 4, Name: "Pump 4", FuelType: "diesel", Meter: 56000, LastReported: 56000, UnitRate: 283.00},
	}
	return c
}

// dispense advances a random pump by a plausible fill-up volume.
func (c *Controller) dispense() {
	c.mu.Lock()
	defer c.mu.Unlock()
	pump := c.pumps[c.rng.Intn(len(c.pumps))]
	volume := 2 + c.rng.Float64()*48
	pump.Meter += volume
	log.Debug().
		Int64("pump", pump.ID).
		Float64("volume", volume).
		Float64("meter", pump.Meter).
		Msg("dispensed")
}

func (c *Controller) run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.dispense()
		case <-ctx.Done():
			return
		}
	}
}

type readingEntry struct {
	PumpID        int64   `json:"pump_id"`
	PreviousMeter float64 `json:"previous_meter"`
	CurrentMeter  float64 `json:"current_meter"`
	UnitRate      float64 `json:"unit_rate"`
}

type readingBatch struct {
	Date    string         `json:"date"`
	Entries []readingEntry `json:"entries"`
}

// submit transcribes every dial into one batch and posts it to the
// ledger API. On acceptance the reported baselines advance.
func (c *Controller) submit() (int, []byte, error) {
	c.mu.Lock()
	batch := readingBatch{Date: time.Now().UTC().Format("2006-01-02")}
	for _, p := range c.pumps {
		batch.Entries = append(batch.Entries, readingEntry{
			PumpID:        p.ID,
			PreviousMeter: p.LastReported,
			CurrentMeter:  p.Meter,
			UnitRate:      p.UnitRate,
		})
	}
	c.mu.Unlock()

	body, err := json.Marshal(batch)
	if err != nil {
		return 0, nil, err
	}
	resp, err := http.Post(c.ledgerAPI+"/pumps/readings", "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		return resp.StatusCode, nil, err
	}

	if resp.StatusCode == http.StatusOK {
		c.mu.Lock()
		for i, p := range c.pumps {
			p.LastReported = batch.Entries[i].CurrentMeter
		}
		c.mu.Unlock()
	}
	return resp.StatusCode, out.Bytes(), nil
}

type Handler struct {
	ctrl *Controller
}

func (h *Handler) ListPumps(c *gin.Context) {
	h.ctrl.mu.Lock()
	defer h.ctrl.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"controller_id": h.ctrl.controllerID,
		"pumps":         h.ctrl.pumps,
	})
}

func (h *Handler) Dispense(c *gin.Context) {
	h.ctrl.dispense()
	c.JSON(http.StatusOK, gin.H{"status": "dispensed"})
}

func (h *Handler) Submit(c *gin.Context) {
	status, body, err := h.ctrl.submit()
	if err != nil {
		log.Error().Err(err).Msg("failed to submit readings")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	log.Info().Int("status", status).Msg("submitted reading batch")
	c.Data(status, "application/json", body)
}

func (h *Handler) SetRates(c *gin.Context) {
	var req struct {
		Petrol *float64 `json:"petrol"`
		Diesel *float64 `json:"diesel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.ctrl.mu.Lock()
	defer h.ctrl.mu.Unlock()
	for _, p := range h.ctrl.pumps {
		if p.FuelType == "petrol" && req.Petrol != nil {
			p.UnitRate = *req.Petrol
		}
		if p.FuelType == "diesel" && req.Diesel != nil {
			p.UnitRate = *req.Diesel
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "rates updated"})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"controller_id": h.ctrl.controllerID,
		"timestamp":     time.Now(),
	})
}

func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request processed")
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/pumps", handler.ListPumps)
		v1.POST("/pumps/dispense", handler.Dispense)
		v1.POST("/pumps/submit", handler.Submit)
		v1.PUT("/rates", handler.SetRates)
	}
	router.GET("/health", handler.Health)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8091")
	ledgerAPI := getEnv("LEDGER_API", "http://localhost:8090")
	interval := getEnvDuration("DISPENSE_INTERVAL", 3*time.Second)

	log.Info().
		Str("port", port).
		Str("ledger_api", ledgerAPI).
		Dur("dispense_interval", interval).
		Msg("starting mock pump controller")

	ctrl := NewController(ledgerAPI)
	handler := &Handler{ctrl: ctrl}
	router := SetupRouter(handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ctrl.run(ctx, interval)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced to shutdown")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
