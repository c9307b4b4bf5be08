package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/diagonalley/diagonalley-backend/internal/config"
	"github.com/diagonalley/diagonalley-backend/internal/events"
	"github.com/diagonalley/diagonalley-backend/internal/logging"
	"github.com/diagonalley/diagonalley-backend/internal/modules/auth"
	"github.com/diagonalley/diagonalley-backend/internal/modules/lightning"
	"github.com/diagonalley/diagonalley-backend/internal/modules/order"
	"github.com/diagonalley/diagonalley-backend/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logging.New("diagonalley-settlement")
	defer log.Sync()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("ping database", zap.Error(err))
	}

	rdb := redisx.New(cfg.RedisAddr)
	gateway := lightning.NewHostGateway(cfg.LightningURL)

	walletRepo := auth.NewPostgresRepository(db)
	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, walletRepo, gateway, rdb, log)

	worker := order.NewSettlementWorker(orderService, redisx.NewDeduper(rdb), log)
	consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroup, events.TopicInvoicePaid, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("settlement consumer started",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", events.TopicInvoicePaid))
	if err := consumer.Run(ctx, worker.HandleInvoicePaid); err != nil {
		log.Fatal("consumer stopped", zap.Error(err))
	}
}
