package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant_web/internal/config"
	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/events"
	"github.com/Skotchmaster/restaurant_web/internal/httpserver"
	"github.com/Skotchmaster/restaurant_web/internal/models"
	"github.com/Skotchmaster/restaurant_web/internal/repo"
	"github.com/Skotchmaster/restaurant_web/internal/search"
	"github.com/Skotchmaster/restaurant_web/internal/service"
	"github.com/Skotchmaster/restaurant_web/internal/session"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
	"github.com/Skotchmaster/restaurant_web/pkg/db"
	"github.com/Skotchmaster/restaurant_web/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := gdb.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	api := apiclient.NewClient(cfg.APIBaseURL, cfg.APIAuthScheme, cfg.APITimeout)
	store := session.NewStore(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure, api)
	prod := events.New(cfg.KafkaBrokers)

	var index search.Index
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword, logger)
		if err != nil {
			log.Fatalf("elasticsearch client: %v", err)
		}
		index = search.NewDishIndex(es, cfg.ESIndex)
	} else {
		logger.Info("search_disabled", "reason", "ES_URL not set")
	}

	view := httpserver.View{NoticeTTL: cfg.NoticeTTL, CookieSecure: cfg.CookieSecure}
	ratings := domain.RatingPolicy{Editable: cfg.RatingEditable}
	menu := &service.MenuService{API: api, Index: index, Ratings: ratings}
	orders := &service.OrderService{API: api, Events: prod}

	deps := &httpserver.Deps{
		Logger:   logger,
		Sessions: store,
		Public: &httpserver.PublicHTTP{
			View:     view,
			Sessions: store,
			Accounts: &service.AccountService{API: api, Events: prod},
			Events:   prod,
		},
		Customer: &httpserver.CustomerHTTP{
			View:      view,
			Menu:      menu,
			Cart:      &service.CartService{Repo: &repo.GormRepo{DB: gdb}, API: api, Events: prod},
			Orders:    orders,
			Addresses: &service.AddressService{API: api},
			Ratings:   &service.RatingService{API: api, Policy: ratings},
		},
		Employee: &httpserver.EmployeeHTTP{View: view, Orders: orders},
		Manager: &httpserver.ManagerHTTP{
			View:      view,
			Dishes:    &service.DishService{API: api, Index: index, Events: prod, Menu: menu},
			Staff:     &service.StaffService{API: api},
			Discounts: &service.DiscountService{API: api},
			Reports:   &service.ReportService{API: api},
		},
		Ready: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		CookieSecure: cfg.CookieSecure,
	}

	e := echo.New()
	e.HideBanner = true
	if err := httpserver.Register(e, deps); err != nil {
		log.Fatalf("register routes: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("server_starting", "addr", cfg.ListenAddr, "api", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db_close_failed", "error", err)
		}
	}

	logger.Info("shutdown_complete")
}
