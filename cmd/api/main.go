package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/diagonalley/diagonalley-backend/internal/config"
	"github.com/diagonalley/diagonalley-backend/internal/logging"
	"github.com/diagonalley/diagonalley-backend/internal/modules/auth"
	"github.com/diagonalley/diagonalley-backend/internal/modules/catalog"
	"github.com/diagonalley/diagonalley-backend/internal/modules/chat"
	"github.com/diagonalley/diagonalley-backend/internal/modules/keys"
	"github.com/diagonalley/diagonalley-backend/internal/modules/lightning"
	"github.com/diagonalley/diagonalley-backend/internal/modules/market"
	"github.com/diagonalley/diagonalley-backend/internal/modules/order"
	"github.com/diagonalley/diagonalley-backend/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logging.New(cfg.ServiceName)
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

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	walletRepo := auth.NewPostgresRepository(db)
	keyChecker := auth.NewKeyChecker(walletRepo)

	productRepo := catalog.NewProductPostgresRepository(db)
	stallRepo := catalog.NewStallPostgresRepository(db)
	zoneRepo := catalog.NewZonePostgresRepository(db)
	catalogService := catalog.NewService(productRepo, stallRepo, zoneRepo, walletRepo)
	catalog.NewHandler(catalogService, keyChecker).RegisterRoutes(router)

	marketRepo := market.NewPostgresRepository(db)
	marketService := market.NewService(marketRepo, stallRepo)
	market.NewHandler(marketService, keyChecker).RegisterRoutes(router)

	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, walletRepo, gateway, rdb, log)
	order.NewHandler(orderService, keyChecker).RegisterRoutes(router)

	chatRepo := chat.NewPostgresRepository(db)
	chatService := chat.NewService(chatRepo)
	chat.NewHandler(chatService, keyChecker).RegisterRoutes(router)

	keys.NewHandler(orderService).RegisterRoutes(router)

	log.Info("api listening", zap.String("addr", cfg.HTTPAddr))
	if err := http.ListenAndServe(cfg.HTTPAddr, router); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
