package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"erp-sync/core/database"
	"erp-sync/core/loader"
	"erp-sync/core/logger"
	"erp-sync/core/middleware/auth"
	"erp-sync/core/middleware/rayid"
	"erp-sync/feature/pricing"
	"erp-sync/feature/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the erp-sync server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE:  runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	logg := rt.logger
	zap.ReplaceGlobals(logg)
	cfg := rt.cfg

	// Price history is optional
	var repo *pricing.Repository
	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Warn("Price history database unavailable", zap.Error(err))
		} else {
			repo = pricing.NewRepository(db)
			if err := repo.EnsureSchema(cfg.Database.AutoMigrate); err != nil {
				return err
			}
			logg.Info("Connected to price history database", zap.String("driver", cfg.Database.Driver))
		}
	}

	// Interfaces stay nil when bookkeeping is off
	var prices pricing.PriceSource
	var stocks stock.StockSource
	if rt.bookkeeping != nil {
		prices = rt.bookkeeping
		stocks = rt.bookkeeping
	}

	mgr := loader.NewManager(logg)
	mgr.Register(pricing.NewFeature(pricing.NewService(rt.erp, rt.fetcher, repo, logg), prices))
	mgr.Register(stock.NewFeature(
		stock.NewService(rt.erp, rt.fetcher, logg),
		stocks,
		stock.NewExporter(rt.storage, cfg.Storage.Bucket),
	))

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every log line carries it
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	var skip []string
	if rt.metrics != nil && cfg.Server.MetricsPath != "" {
		skip = append(skip, cfg.Server.MetricsPath)
	}
	app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: skip}))

	if len(skip) > 0 {
		app.Get(cfg.Server.MetricsPath, adaptor.HTTPHandler(rt.metrics.Handler()))
	}

	if err := mgr.LoadAll(app); err != nil {
		return err
	}

	go func() {
		logg.Info("Starting server", zap.String("address", cfg.Server.Address()))
		if err := app.Listen(cfg.Server.Address()); err != nil {
			logg.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logg.Info("Shutting down server...")
	return app.Shutdown()
}
