// Package app initialises and wires the simulator's services, clients, and
// storage. It is the shared core behind cmd/trading-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dobbo22/StockTradingApp/internal/clients/eodhd"
	"github.com/dobbo22/StockTradingApp/internal/common"
	"github.com/dobbo22/StockTradingApp/internal/interfaces"
	"github.com/dobbo22/StockTradingApp/internal/services/market"
	"github.com/dobbo22/StockTradingApp/internal/services/portfolio"
	"github.com/dobbo22/StockTradingApp/internal/services/trading"
	"github.com/dobbo22/StockTradingApp/internal/services/user"
	"github.com/dobbo22/StockTradingApp/internal/storage"
)

// App holds all initialised services, clients, and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	QuoteProvider    interfaces.QuoteProvider
	PortfolioService interfaces.PortfolioService
	TradingService   interfaces.TradingService
	MarketService    interfaces.MarketService
	UserService      interfaces.UserService
	Refresher        *portfolio.Refresher
	StartupTime      time.Time

	refresherCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initialises storage, clients, and services from configuration.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Config resolution: explicit path, STOCKSIM_CONFIG, binary dir, then
	// the development fallback.
	if configPath == "" {
		configPath = os.Getenv("STOCKSIM_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "stocksim.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/stocksim.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage paths to the binary directory.
	for _, area := range []*common.AreaConfig{&config.Storage.Internal, &config.Storage.Ledger, &config.Storage.Market} {
		if area.Path != "" && !filepath.IsAbs(area.Path) {
			area.Path = filepath.Join(binDir, area.Path)
		}
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(config.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if config.Clients.EODHD.APIKey == "" {
		logger.Warn().Msg("EODHD API key not configured - quotes will be unavailable and snapshots degraded")
	}

	quoteClient := eodhd.NewClient(config.Clients.EODHD.APIKey,
		eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
		eodhd.WithLogger(logger),
		eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
		eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
	)

	portfolioService := portfolio.NewService(storageManager, quoteClient, config.Quotes, logger)
	tradingService := trading.NewService(storageManager, logger)
	marketService := market.NewService(storageManager, quoteClient, config.Quotes, logger)
	userService := user.NewService(storageManager, config.Trading, logger)

	refresher := portfolio.NewRefresher(portfolioService, config.Quotes.GetRefreshInterval(), logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		QuoteProvider:    quoteClient,
		PortfolioService: portfolioService,
		TradingService:   tradingService,
		MarketService:    marketService,
		UserService:      userService,
		Refresher:        refresher,
		StartupTime:      startupStart,
	}

	logger.Info().
		Str("version", common.GetVersion()).
		Str("environment", config.Environment).
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")

	return a, nil
}

// StartRefresher launches the background snapshot refresher.
func (a *App) StartRefresher() {
	ctx, cancel := context.WithCancel(context.Background())
	a.refresherCancel = cancel
	go a.Refresher.Run(ctx)
}

// Shutdown stops background work and closes storage.
func (a *App) Shutdown() {
	if a.refresherCancel != nil {
		a.refresherCancel()
	}
	if err := a.Storage.Close(); err != nil {
		a.Logger.Error().Err(err).Msg("Storage close failed")
	}
	a.Logger.Info().Msg("Application shut down")
}
