package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"easysmm-backend/internal/common/config"
	"easysmm-backend/internal/common/logger"
	"easysmm-backend/internal/common/middleware"
	"easysmm-backend/internal/features/auth"
	"easysmm-backend/internal/features/catalog"
	"easysmm-backend/internal/features/notifications"
	orderhttp "easysmm-backend/internal/features/order/delivery/http"
	orderpg "easysmm-backend/internal/features/order/repository/postgres"
	orderservice "easysmm-backend/internal/features/order/service"
	"easysmm-backend/internal/features/payment"
	statshttp "easysmm-backend/internal/features/stats/delivery/http"
	statsservice "easysmm-backend/internal/features/stats/service"
	userhttp "easysmm-backend/internal/features/user/delivery/http"
	userpg "easysmm-backend/internal/features/user/repository/postgres"
	userredis "easysmm-backend/internal/features/user/repository/redis"
	userservice "easysmm-backend/internal/features/user/service"
	wallethttp "easysmm-backend/internal/features/wallet/delivery/http"
	walletpg "easysmm-backend/internal/features/wallet/repository/postgres"
	walletservice "easysmm-backend/internal/features/wallet/service"
	"easysmm-backend/internal/platform/db"
	redisp "easysmm-backend/internal/platform/redis"
	"easysmm-backend/internal/platform/telegram"
	"easysmm-backend/internal/platform/tonapi"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}

	logger.Init("easysmm-api", cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer database.Close()

	rdb, err := redisp.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	tonClient := tonapi.NewClient(cfg.Ton.TonAPIBase, cfg.Ton.TonAPIToken)
	tgClient := telegram.NewClient(cfg.Telegram.BotToken)
	verifier := auth.NewVerifier(cfg.Telegram.BotToken)
	cat := catalog.Default()

	userRepo := userredis.NewCachedRepository(userpg.NewPostgresRepository(database), rdb)
	userSvc := userservice.NewUserService(userRepo)

	orderRepo := orderpg.NewPostgresRepository(database)
	paymentVerifier := payment.NewVerifier(tonClient, cfg.Ton.Wallet)
	notifier := notifications.NewService(tgClient, cfg.Telegram.AdminID)
	orderSvc := orderservice.NewOrderService(orderRepo, cat, paymentVerifier, notifier, cfg.Ton.Wallet)

	statsSvc := statsservice.NewStatsService(orderRepo, cat)

	walletRepo := walletpg.NewPostgresRepository(database)
	walletSvc := walletservice.NewWalletService(walletRepo, tonClient, rdb)

	router := buildRouter(cfg, verifier, userSvc, orderSvc, statsSvc, walletSvc, cat)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func buildRouter(
	cfg *config.Config,
	verifier *auth.Verifier,
	userSvc userservice.UserService,
	orderSvc orderservice.OrderService,
	statsSvc statsservice.StatsService,
	walletSvc walletservice.WalletService,
	cat catalog.Catalog,
) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.SecureHeaders(),
		gin.Recovery(),
	)

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.Origin},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "init_data"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	userHandler := userhttp.NewUserHandler(userSvc)
	orderHandler := orderhttp.NewOrderHandler(orderSvc, cat)
	statsHandler := statshttp.NewStatsHandler(statsSvc)
	walletHandler := wallethttp.NewWalletHandler(walletSvc)

	authed := router.Group("/", middleware.Auth(verifier, cfg.Telegram.AdminID))

	// Identity sync stays outside the ban gate so a banned user still gets
	// isBanned=true instead of a bare 403.
	userHandler.RegisterSync(authed)

	gated := authed.Group("/", middleware.CheckBanned(userSvc))
	userHandler.RegisterRoutes(gated)
	orderHandler.RegisterRoutes(gated)
	statsHandler.RegisterRoutes(gated)
	walletHandler.RegisterRoutes(gated)

	return router
}
