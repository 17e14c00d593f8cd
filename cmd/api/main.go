package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bimakw/ratemybags/internal/application/services"
	"github.com/bimakw/ratemybags/internal/config"
	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/infrastructure/cache"
	"github.com/bimakw/ratemybags/internal/infrastructure/database"
	"github.com/bimakw/ratemybags/internal/infrastructure/ethereum"
	"github.com/bimakw/ratemybags/internal/infrastructure/realtime"
	"github.com/bimakw/ratemybags/internal/infrastructure/render"
	"github.com/bimakw/ratemybags/internal/infrastructure/zapper"
	"github.com/bimakw/ratemybags/internal/presentation/handlers"
	"github.com/bimakw/ratemybags/internal/presentation/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.Log.Level, cfg.Log.Format)
	defer logger.Sync()

	logger.Info("Starting ratemybags API",
		zap.Int("port", cfg.API.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chains, err := config.LoadChains()
	if err != nil {
		logger.Fatal("Failed to load chain registry", zap.Error(err))
	}

	// Connect to database
	db, err := database.NewPostgresDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("Failed to apply schema", zap.Error(err))
		}
	}

	// Redis when reachable, in-process cache otherwise
	var appCache cache.Cache
	var cacheChecker handlers.HealthChecker
	redisCache, err := cache.NewRedisCache(cfg.Redis, cfg.API.CacheTTL, logger)
	if err != nil {
		logger.Warn("Failed to connect to Redis, using in-memory cache", zap.Error(err))
		appCache = cache.NewMemoryCache(cfg.API.CacheTTL, logger)
	} else {
		defer redisCache.Close()
		appCache = redisCache
		cacheChecker = redisCache
	}

	// Create repositories
	portfolioRepo := database.NewPortfolioRepo(db.DB())
	ratingRepo := database.NewRatingRepo(db.DB())
	reactionRepo := database.NewReactionRepo(db.DB())
	mintRepo := database.NewMintRepo(db.DB())

	balances := zapper.NewClient(cfg.Zapper, logger)

	// Minting needs a node, a signer and a contract
	var minter services.Minter
	var chainChecker handlers.HealthChecker
	if cfg.Ethereum.MintingEnabled() {
		ethClient, err := ethereum.NewClient(cfg.Ethereum, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Ethereum node", zap.Error(err))
		}
		defer ethClient.Close()

		m, err := ethereum.NewMinter(ethClient, cfg.Ethereum, logger)
		if err != nil {
			logger.Fatal("Failed to create minter", zap.Error(err))
		}
		minter = m
		chainChecker = ethClient
	} else {
		logger.Warn("ETH_PRIVATE_KEY or ETH_CONTRACT_ADDRESS not set, minting disabled")
	}

	var wallet services.WalletProvider
	if cfg.Ethereum.WalletRPCURL != "" {
		w, err := ethereum.DialWallet(ctx, cfg.Ethereum.WalletRPCURL, logger)
		if err != nil {
			logger.Warn("Failed to connect to wallet provider", zap.Error(err))
		} else {
			defer w.Close()
			wallet = w

			watcher := ethereum.NewChainWatcher(w, cfg.Ethereum.ChainPoll, logger)
			watcher.Subscribe(func(chainID int64) {
				if !chains.Supported(chainID) {
					logger.Warn("Wallet switched to an unsupported network", zap.Int64("chain_id", chainID))
				}
			})
			go watcher.Run(ctx)
		}
	}

	// Change feed
	hub := realtime.NewHub[entities.ChangeEvent](256, logger)
	go hub.Run(ctx)

	listener, err := database.NewChangeListener(db.DSN(), logger)
	if err != nil {
		logger.Warn("Failed to start change listener, realtime updates disabled", zap.Error(err))
	} else {
		defer listener.Close()
		go listener.Run(ctx, hub)
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		logger.Fatal("Failed to load fonts", zap.Error(err))
	}

	// Create services
	portfolioService := services.NewPortfolioService(
		portfolioRepo, ratingRepo, reactionRepo, mintRepo,
		balances, appCache, cfg.Zapper.BalanceTTL, logger,
	)
	ratingService := services.NewRatingService(portfolioRepo, ratingRepo, logger)
	reactionService := services.NewReactionService(portfolioRepo, reactionRepo, logger)
	mintService := services.NewMintService(portfolioService, mintRepo, minter, logger)
	frameService := services.NewFrameService(portfolioRepo, ratingService, reactionService, cfg.Frame.ImageURL, logger)
	walletService := services.NewWalletService(wallet, chains, chains.DefaultChainID, portfolioService, logger)

	// Create handlers
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService, logger)
	ratingHandler := handlers.NewRatingHandler(ratingService, logger)
	reactionHandler := handlers.NewReactionHandler(reactionService, logger)
	mintHandler := handlers.NewMintHandler(mintService, logger)
	walletHandler := handlers.NewWalletHandler(walletService, logger)
	realtimeHandler := handlers.NewRealtimeHandler(hub, portfolioService, logger)
	frameHandler := handlers.NewFrameHandler(frameService, logger)
	ogHandler := handlers.NewOGHandler(renderer, logger)

	healthHandler := handlers.NewHealthHandler(db,
		handlers.Dependency{Name: "cache", Checker: cacheChecker},
		handlers.Dependency{Name: "chain", Checker: chainChecker},
	)

	// Setup router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RateLimiter(cfg.API.RateLimitRPS))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Get("/live", healthHandler.Live)
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		portfolioHandler.RegisterRoutes(r)
		realtimeHandler.RegisterRoutes(r)

		// Writes get a tighter per-endpoint budget
		r.Group(func(r chi.Router) {
			r.Use(middleware.WriteRateLimiter(cfg.API.WriteRateLimit))
			ratingHandler.RegisterRoutes(r)
			reactionHandler.RegisterRoutes(r)
			mintHandler.RegisterRoutes(r)
			walletHandler.RegisterRoutes(r)
		})
	})

	// Frame and preview image are fetched by Farcaster clients
	r.Route("/api", func(r chi.Router) {
		frameHandler.RegisterRoutes(r)
		ogHandler.RegisterRoutes(r)
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
	}

	// Run server in goroutine
	go func() {
		logger.Info("API server starting", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Received shutdown signal, shutting down server...")

	// Stop background loops before draining connections
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func setupLogger(level, format string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoding := "json"
	if format == "console" {
		encoding = "console"
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, _ := config.Build()
	return logger
}
