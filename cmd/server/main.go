package main // Entry point package

import (
	"context"   // root context cancelled on shutdown signals
	"errors"    // distinguish http.ErrServerClosed
	"net/http"  // http.ErrServerClosed
	"os"        // process signals
	"os/signal" // signal.NotifyContext
	"strings"   // log level parsing
	"syscall"   // SIGTERM
	"time"      // shutdown timeout

	"github.com/labstack/echo/v4"                   // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Echo's stock middleware (recover, request id, CORS, access log)
	"github.com/labstack/gommon/log"                // log levels of the Echo logger

	"github.com/iliyamo/restaurant-table-reservation/internal/config"     // Internal config loader
	"github.com/iliyamo/restaurant-table-reservation/internal/database"   // MySQL connection and schema
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"    // HTTP handlers
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware" // cache and rate limit
	"github.com/iliyamo/restaurant-table-reservation/internal/model"      // date layout for the cache scope
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"      // reservation event consumer
	"github.com/iliyamo/restaurant-table-reservation/internal/repository" // stores
	"github.com/iliyamo/restaurant-table-reservation/internal/router"     // Internal router setup
	"github.com/iliyamo/restaurant-table-reservation/internal/service"    // booking logic
)

func main() {
	cfg := config.Load() // Load environment config
	e := echo.New()      // Create Echo instance
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover(), echomw.RequestID(), echomw.CORS(), echomw.Logger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is optional: without it sessions stay in memory and the
	// catalog cache and rate limiter are disabled.
	rdb := config.NewRedisClient(ctx)
	if rdb != nil {
		defer rdb.Close()
	}

	catalog := repository.NewSeedCatalogRepo()
	health := &handler.HealthHandler{Redis: rdb}
	var (
		ledger  service.Ledger             = repository.NewMemoryLedgerRepo(repository.SeedLedger())
		archive service.ReservationArchive = repository.NewMemoryReservationRepo()
	)
	if cfg.StoreDriver == "mysql" {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			e.Logger.Fatalf("mysql: %v", err)
		}
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			e.Logger.Fatalf("mysql schema: %v", err)
		}
		if err := repository.SeedMySQLLedger(ctx, db, repository.SeedLedger()); err != nil {
			e.Logger.Fatalf("mysql seed: %v", err)
		}
		ledger = repository.NewMySQLLedgerRepo(db)
		archive = repository.NewMySQLReservationRepo(db)
		health.DB = db
	}

	var sessions service.SessionStore = repository.NewMemorySessionStore(cfg.SessionTTL)
	if cfg.SessionStore == "redis" {
		if rdb == nil {
			e.Logger.Fatal("SESSION_STORE=redis but Redis is not reachable")
		}
		sessions = repository.NewRedisSessionStore(rdb, cfg.SessionTTL, "session")
	}

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.EventsOn {
		events = service.NewRabbitPublisher(cfg.RabbitURL)
		consumer := &queue.Consumer{URL: cfg.RabbitURL, LogDir: cfg.LogDir, Logger: e.Logger}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				e.Logger.Errorf("reservation-consumer stopped: %v", err)
			}
		}()
	}

	avail := service.NewAvailabilityService(catalog, ledger, cfg.Location)
	booking := service.NewBookingService(service.BookingDeps{
		Catalog:      catalog,
		Availability: avail,
		Sessions:     sessions,
		Archive:      archive,
		Events:       events,
		Config:       cfg.Booking,
		Logger:       e.Logger,
	})

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	// Availability depends on "today", so cached answers roll over at
	// midnight in the restaurants' time zone.
	today := func() string { return avail.Now().Format(model.DateLayout) }
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb, today)

	router.RegisterRoutes(e, health)
	router.RegisterCatalog(e, handler.NewCatalogHandler(catalog, avail), limiter, cache)
	router.RegisterBooking(e, handler.NewBookingHandler(booking, cfg.JWTSecret, cfg.SessionTTL), cfg.JWTSecret, limiter)

	addr := ":" + cfg.Port // Address string with port
	go func() {
		e.Logger.Infof("listening on %s (env=%s, sessions=%s, store=%s, events=%t)",
			addr, cfg.Env, cfg.SessionStore, cfg.StoreDriver, cfg.EventsOn)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err) // Log and exit if server fails
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Errorf("shutdown: %v", err)
	}
	// Let payments that are already running confirm before the stores close.
	booking.Wait()
}

// logLevel maps LOG_LEVEL to a gommon level; unknown values mean INFO.
func logLevel(s string) log.Lvl {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return log.DEBUG
	case "WARN", "WARNING":
		return log.WARN
	case "ERROR":
		return log.ERROR
	case "OFF":
		return log.OFF
	}
	return log.INFO
}
