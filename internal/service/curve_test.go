package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/holiman/uint256"

	"github.com/bitapeslabs/pbcurve/pkg/bondingcurve"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() bondingcurve.Config {
	return bondingcurve.Config{
		TotalSupply:         uint256.NewInt(1_000_000_000),
		SellAmount:          uint256.NewInt(800_000_000),
		VirtualTokenReserve: uint256.NewInt(30_000_000),
		MarketCapTargetSats: uint256.NewInt(3_000_000_000),
	}
}

func TestCurveService_Snapshot(t *testing.T) {
	t.Parallel()

	svc := NewCurveService(testLogger(), 16)
	snap, err := svc.Snapshot(testConfig(), new(uint256.Int))
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if snap.Y.Cmp(uint256.NewInt(830_000_000)) != 0 {
		t.Fatalf("unexpected y0: %s", snap.Y.Dec())
	}
}

func TestCurveService_InvalidConfig(t *testing.T) {
	t.Parallel()

	svc := NewCurveService(testLogger(), 16)
	cfg := testConfig()
	cfg.VirtualTokenReserve = new(uint256.Int)

	if _, err := svc.Snapshot(cfg, new(uint256.Int)); err != bondingcurve.ErrInvalidConfig {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestCurveService_Mint(t *testing.T) {
	t.Parallel()

	svc := NewCurveService(testLogger(), 16)
	newStep, tokensOut, err := svc.Mint(testConfig(), new(uint256.Int), uint256.NewInt(1_000_000))
	if err != nil {
		t.Fatalf("Mint error: %v", err)
	}
	if newStep.IsZero() || tokensOut.IsZero() {
		t.Fatalf("expected a non-trivial mint, got new_step=%s tokens_out=%s", newStep.Dec(), tokensOut.Dec())
	}
}

func TestCurveService_SimulateMints_CapsBatch(t *testing.T) {
	t.Parallel()

	svc := NewCurveService(testLogger(), 2)
	batch := []*uint256.Int{
		uint256.NewInt(1), uint256.NewInt(2), uint256.NewInt(3),
	}

	if _, err := svc.SimulateMints(testConfig(), batch); err != ErrBatchTooLarge {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}

	results, err := svc.SimulateMints(testConfig(), batch[:2])
	if err != nil {
		t.Fatalf("SimulateMints error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestCurveService_QuoteRoundtrip(t *testing.T) {
	t.Parallel()

	svc := NewCurveService(testLogger(), 16)
	step := uint256.NewInt(1_000)
	assetOut := uint256.NewInt(500_000)

	quote, err := svc.QuoteInGivenAssetOut(testConfig(), step, assetOut)
	if err != nil {
		t.Fatalf("QuoteInGivenAssetOut error: %v", err)
	}
	got, err := svc.AssetOutGivenQuoteIn(testConfig(), step, quote)
	if err != nil {
		t.Fatalf("AssetOutGivenQuoteIn error: %v", err)
	}
	if got.Lt(assetOut) {
		t.Fatalf("quoted payment bought %s, want at least %s", got.Dec(), assetOut.Dec())
	}
}
