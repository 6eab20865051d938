package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shoestore/internal/cart"
	"shoestore/internal/config"
	"shoestore/internal/db"
	"shoestore/internal/events"
	"shoestore/internal/httpserver"
	orderrepo "shoestore/internal/repository/order"
	productrepo "shoestore/internal/repository/product"
	verificationrepo "shoestore/internal/repository/verification"
	catalogsvc "shoestore/internal/service/catalog"
	ordersvc "shoestore/internal/service/order"
	otpsvc "shoestore/internal/service/otp"
	sessionsvc "shoestore/internal/service/session"
	"shoestore/internal/storage"

	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var publisher ordersvc.Publisher
	if cfg.AMQPURL != "" {
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			logger.Fatalf("connect to amqp: %v", err)
		}
		defer conn.Close()
		pub, err := events.NewPublisher(conn)
		if err != nil {
			logger.Fatalf("init publisher: %v", err)
		}
		defer pub.Close()
		publisher = pub
	} else {
		logger.Println("AMQP_URL not set, order events disabled")
	}

	images, err := storage.NewLocal(cfg.UploadDir, cfg.FileURLHost)
	if err != nil {
		logger.Fatalf("init image storage: %v", err)
	}

	productRepo := productrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	verificationRepo := verificationrepo.NewPostgres(dbpool)

	sessionService := sessionsvc.New(cfg.AdminEmails, cfg.SessionTTL)
	catalogService := catalogsvc.New(productRepo, logger)
	orderService := ordersvc.New(orderRepo, productRepo, publisher, logger)
	otpService := otpsvc.New(verificationRepo, logger, cfg.OTPTTL, cfg.DevExposeOTP)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Sessions: sessionService,
		Catalog:  catalogService,
		Orders:   orderService,
		Verifier: otpService,
		Carts:    cart.NewRegistry(nil),
		Images:   images,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
