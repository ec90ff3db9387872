package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"

	"github.com/bitapeslabs/pbcurve/internal/config"
	"github.com/bitapeslabs/pbcurve/internal/handler"
	"github.com/bitapeslabs/pbcurve/internal/logging"
	"github.com/bitapeslabs/pbcurve/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	app := fiber.New()
	logger := logging.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	curveService := service.NewCurveService(logger, cfg.MaxMintsPerBatch)
	curveHandler := handler.NewCurveHandler(logger, curveService)

	app.Get("/snapshot", curveHandler.HandleSnapshot())
	app.Get("/mint", curveHandler.HandleMint())
	app.Post("/simulate", curveHandler.HandleSimulate())
	app.Get("/raise", curveHandler.HandleTotalRaise())
	app.Get("/final-mc", curveHandler.HandleFinalMarketCap())
	app.Get("/progress", curveHandler.HandleProgress())
	app.Get("/progress/avg", curveHandler.HandleAvgProgress())
	app.Get("/quote/asset-out", curveHandler.HandleAssetOut())
	app.Get("/quote/quote-in", curveHandler.HandleQuoteIn())
	app.Get("/quote/cumulative", curveHandler.HandleCumulativeQuote())

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			_ = app.Shutdown()
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_ = app.Shutdown()

	<-shutdownCtx.Done()
	return nil
}
