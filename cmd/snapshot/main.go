// Command snapshot builds the NFT metadata of one wallet's portfolio and,
// with -mint, mints it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bimakw/ratemybags/internal/application/services"
	"github.com/bimakw/ratemybags/internal/config"
	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/infrastructure/database"
	"github.com/bimakw/ratemybags/internal/infrastructure/ethereum"
	"github.com/bimakw/ratemybags/internal/infrastructure/zapper"
)

func main() {
	address := flag.String("address", "", "wallet address to snapshot")
	mint := flag.Bool("mint", false, "mint the snapshot after building it")
	flag.Parse()

	if *address == "" {
		fmt.Fprintln(os.Stderr, "usage: snapshot -address 0x... [-mint]")
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so stdout carries only the result
	logger := setupLogger(cfg.Log.Level)
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Connect to database
	db, err := database.NewPostgresDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	portfolioRepo := database.NewPortfolioRepo(db.DB())
	mintRepo := database.NewMintRepo(db.DB())
	portfolioService := services.NewPortfolioService(
		portfolioRepo,
		database.NewRatingRepo(db.DB()),
		database.NewReactionRepo(db.DB()),
		mintRepo,
		zapper.NewClient(cfg.Zapper, logger),
		nil,
		cfg.Zapper.BalanceTTL,
		logger,
	)

	var (
		minter   services.Minter
		contract string
	)
	if *mint {
		ethClient, err := ethereum.NewClient(cfg.Ethereum, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Ethereum node", zap.Error(err))
		}
		defer ethClient.Close()

		head, err := ethClient.HeadBlock(ctx)
		if err != nil {
			logger.Fatal("Ethereum node not responding", zap.Error(err))
		}
		logger.Info("Connected", zap.Uint64("head", head))

		m, err := ethereum.NewMinter(ethClient, cfg.Ethereum, logger)
		if err != nil {
			logger.Fatal("Failed to create minter", zap.Error(err))
		}
		minter = m
		contract = m.Address().Hex()
	}
	mintService := services.NewMintService(portfolioService, mintRepo, minter, logger)

	snapshot, err := portfolioService.FetchPortfolio(ctx, *address)
	if err != nil {
		logger.Fatal("Failed to fetch portfolio", zap.Error(err))
	}
	portfolioID := snapshot.Portfolio.ID

	var result interface{}
	failed := false
	if *mint {
		res, err := mintService.Mint(ctx, portfolioID)
		if err != nil {
			logger.Fatal("Failed to mint", zap.Error(err), zap.String("portfolio_id", portfolioID))
		}
		result = mintOutput{Contract: contract, MintResult: res}
		failed = !res.Success
	} else {
		uri, err := mintService.TokenURI(ctx, portfolioID)
		if err != nil {
			logger.Fatal("Failed to build metadata", zap.Error(err), zap.String("portfolio_id", portfolioID))
		}
		result = uri.Data
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Fatal("Failed to write result", zap.Error(err))
	}
	if failed {
		logger.Sync()
		os.Exit(1)
	}
}

// mintOutput is the -mint result printed on stdout
type mintOutput struct {
	Contract string `json:"contract"`
	*entities.MintResult
}

func setupLogger(level string) *zap.Logger {
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

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, _ := config.Build()
	return logger
}
