package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex-athletics/storefront/internal/api"
	"github.com/apex-athletics/storefront/internal/auth"
	"github.com/apex-athletics/storefront/internal/catalog"
	"github.com/apex-athletics/storefront/internal/config"
	"github.com/apex-athletics/storefront/internal/events"
	"github.com/apex-athletics/storefront/internal/feed"
	"github.com/apex-athletics/storefront/internal/orders"
	"github.com/apex-athletics/storefront/internal/site"
	"github.com/apex-athletics/storefront/internal/storage"
	"github.com/apex-athletics/storefront/pkg/models"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	store := storage.New(cfg.DataDir, logger)
	if err := seedCollections(store); err != nil {
		logger.WithError(err).Fatal("Failed to prepare data directory")
	}

	authority := auth.NewAuthority(cfg.AdminEmail, cfg.AdminPassword, logger)
	catalogService := catalog.NewService(store, logger)
	siteService := site.NewService(store, logger)
	orderService := orders.NewService(store, catalogService, logger)

	handler := api.NewHandler(authority, catalogService, siteService, orderService, logger)

	hub := feed.NewHub(logger)
	handler.SetOrderFeed(hub)

	if cfg.KafkaBrokers != "" {
		producer, err := events.NewKafkaProducer(cfg.KafkaBrokers, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create Kafka producer")
		}
		defer producer.Close()
		handler.SetOrderPublisher(producer)
		logger.WithField("brokers", cfg.KafkaBrokers).Info("Order event publishing enabled")
	}

	router := api.NewRouter(handler, logger)

	srv := &http.Server{
		Addr:         cfg.Host + ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":        srv.Addr,
			"admin_email": cfg.AdminEmail,
			"data_dir":    cfg.DataDir,
		}).Info("Starting storefront server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server gracefully stopped")
}

// seedCollections creates any missing collection file so a fresh checkout
// boots without manual setup. Existing data is never touched.
func seedCollections(store *storage.Store) error {
	if err := store.Seed(catalog.Collection, []models.Product{}); err != nil {
		return err
	}
	if err := store.Seed(site.Collection, site.DefaultConfig()); err != nil {
		return err
	}
	return store.Seed(orders.Collection, []models.Order{})
}
