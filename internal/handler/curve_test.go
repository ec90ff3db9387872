package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/holiman/uint256"

	"github.com/bitapeslabs/pbcurve/internal/service"
	"github.com/bitapeslabs/pbcurve/pkg/bondingcurve"
)

const curveQuery = "total_supply=1000000000&sell_amount=800000000&vt=30000000&mc_target_sats=3000000000"

func testCurve(t *testing.T) *bondingcurve.Curve {
	t.Helper()
	c, err := bondingcurve.New(bondingcurve.Config{
		TotalSupply:         uint256.NewInt(1_000_000_000),
		SellAmount:          uint256.NewInt(800_000_000),
		VirtualTokenReserve: uint256.NewInt(30_000_000),
		MarketCapTargetSats: uint256.NewInt(3_000_000_000),
	})
	if err != nil {
		t.Fatalf("New curve: %v", err)
	}
	return c
}

func newTestApp() *fiber.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewCurveService(logger, 8)
	h := NewCurveHandler(logger, svc)

	app := fiber.New()
	app.Get("/snapshot", h.HandleSnapshot())
	app.Get("/mint", h.HandleMint())
	app.Post("/simulate", h.HandleSimulate())
	app.Get("/raise", h.HandleTotalRaise())
	app.Get("/final-mc", h.HandleFinalMarketCap())
	app.Get("/progress", h.HandleProgress())
	app.Get("/progress/avg", h.HandleAvgProgress())
	app.Get("/quote/asset-out", h.HandleAssetOut())
	app.Get("/quote/quote-in", h.HandleQuoteIn())
	app.Get("/quote/cumulative", h.HandleCumulativeQuote())
	return app
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

func TestSnapshotHandler_Success(t *testing.T) {
	t.Parallel()
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/snapshot?"+curveQuery+"&step=0", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var body SnapshotResponse
	if err := json.Unmarshal(readBody(t, resp), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	want, _ := testCurve(t).Snapshot(new(uint256.Int))
	if body.Step != "0" || body.X != want.X.Dec() || body.Y != want.Y.Dec() {
		t.Fatalf("unexpected snapshot: %+v", body)
	}
}

func TestSnapshotHandler_Validation(t *testing.T) {
	t.Parallel()
	app := newTestApp()

	cases := map[string]string{
		"missing params":  "/snapshot?step=0",
		"missing step":    "/snapshot?" + curveQuery,
		"bad decimal":     "/snapshot?" + curveQuery + "&step=abc",
		"negative":        "/snapshot?" + curveQuery + "&step=-1",
		"too wide":        "/snapshot?" + curveQuery + "&step=340282366920938463463374607431768211456",
		"step past range": "/snapshot?" + curveQuery + "&step=800000001",
	}

	for name, path := range cases {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: app.Test error: %v", name, err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, resp.StatusCode)
		}
	}
}

func TestMintHandler_Success(t *testing.T) {
	t.Parallel()
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/mint?"+curveQuery+"&step=0&sats_in=1000000", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var body MintResponse
	if err := json.Unmarshal(readBody(t, resp), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	newStep, tokensOut, err := testCurve(t).Mint(new(uint256.Int), uint256.NewInt(1_000_000))
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if body.NewStep != newStep.Dec() || body.TokensOut != tokensOut.Dec() {
		t.Fatalf("unexpected mint result: %+v", body)
	}
}

func TestMintHandler_ZeroInput(t *testing.T) {
	t.Parallel()
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/mint?"+curveQuery+"&step=0&sats_in=0", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero sats_in, got %d", resp.StatusCode)
	}
}

func simulateBody(mints []string) []byte {
	b, _ := json.Marshal(SimulateRequest{
		TotalSupply:         "1000000000",
		SellAmount:          "800000000",
		VT:                  "30000000",
		MarketCapTargetSats: "3000000000",
		Mints:               mints,
	})
	return b
}

func TestSimulateHandler_MatchesSequentialMints(t *testing.T) {
	t.Parallel()
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/simulate",
		bytes.NewReader(simulateBody([]string{"500000", "2000000", "750000"})))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var results []MintResultResponse
	if err := json.Unmarshal(readBody(t, resp), &results); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	curve := testCurve(t)
	step := new(uint256.Int)
	for i, in := range []uint64{500_000, 2_000_000, 750_000} {
		newStep, tokensOut, err := curve.Mint(step, uint256.NewInt(in))
		if err != nil {
			t.Fatalf("Mint %d: %v", i, err)
		}
		if results[i].StartStep != step.Dec() || results[i].TokensOut != tokensOut.Dec() {
			t.Fatalf("result %d diverged from sequential mints: %+v", i, results[i])
		}
		step = newStep
	}
}

func TestSimulateHandler_AllOrNothing(t *testing.T) {
	t.Parallel()
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/simulate",
		bytes.NewReader(simulateBody([]string{"500000", "0", "750000"})))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a failing batch, got %d", resp.StatusCode)
	}
}

func TestSimulateHandler_BatchCap(t *testing.T) {
	t.Parallel()
	app := newTestApp()

	mints := make([]string, 9) // cap in newTestApp is 8
	for i := range mints {
		mints[i] = "1000"
	}
	req := httptest.NewRequest(http.MethodPost, "/simulate", bytes.NewReader(simulateBody(mints)))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized batch, got %d", resp.StatusCode)
	}
}

func TestReportHandlers(t *testing.T) {
	t.Parallel()
	app := newTestApp()
	curve := testCurve(t)

	finalMC, err := curve.FinalMarketCapSats()
	if err != nil {
		t.Fatalf("FinalMarketCapSats: %v", err)
	}
	cumulative, err := curve.CumulativeQuoteToStep(uint256.NewInt(400_000_000))
	if err != nil {
		t.Fatalf("CumulativeQuoteToStep: %v", err)
	}

	cases := map[string]struct {
		path string
		want string
	}{
		"raise":      {"/raise?" + curveQuery, curve.TotalRaiseSats().Dec()},
		"final mc":   {"/final-mc?" + curveQuery, finalMC.Dec()},
		"progress":   {"/progress?" + curveQuery + "&step=500000000", "50"},
		"avg":        {"/progress/avg?" + curveQuery + "&steps=2,3,4", "2"},
		"cumulative": {"/quote/cumulative?" + curveQuery + "&step=400000000", cumulative.Dec()},
	}

	for name, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: app.Test error: %v", name, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: unexpected status %d", name, resp.StatusCode)
		}
		if got := string(readBody(t, resp)); got != tc.want {
			t.Fatalf("%s: got %q want %q", name, got, tc.want)
		}
	}
}

func TestQuoteHandlers_Roundtrip(t *testing.T) {
	t.Parallel()
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/quote/quote-in?"+curveQuery+"&step=1000&asset_out=500000", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	quote := string(readBody(t, resp))

	req = httptest.NewRequest(http.MethodGet, "/quote/asset-out?"+curveQuery+"&step=1000&quote_in="+quote, nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	out := new(uint256.Int)
	if err := out.SetFromDecimal(string(readBody(t, resp))); err != nil {
		t.Fatalf("parse asset out: %v", err)
	}
	if out.Lt(uint256.NewInt(500_000)) {
		t.Fatalf("quoted payment bought %s, want at least 500000", out.Dec())
	}
}

func TestQuoteInHandler_ExceedsPool(t *testing.T) {
	t.Parallel()
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/quote/quote-in?"+curveQuery+"&step=0&asset_out=800000001", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for exceeding pool, got %d", resp.StatusCode)
	}
	if got := string(readBody(t, resp)); got != ErrExceedsPoolBadRequest.Message {
		t.Fatalf("expected ExceedsPool message, got %q", got)
	}
}
