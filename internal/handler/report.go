package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/holiman/uint256"
)

// Aggregate endpoints return a single decimal string, matching the scalar
// shape of the curve operations they expose.

// HandleTotalRaise serves GET /raise.
func (h *CurveHandler) HandleTotalRaise() fiber.Handler {
	return func(c fiber.Ctx) error {
		cfg, err := parseCurveConfig(c)
		if err != nil {
			return err
		}
		raise, err := h.service.TotalRaiseSats(cfg)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.SendString(raise.Dec())
	}
}

// HandleFinalMarketCap serves GET /final-mc.
func (h *CurveHandler) HandleFinalMarketCap() fiber.Handler {
	return func(c fiber.Ctx) error {
		cfg, err := parseCurveConfig(c)
		if err != nil {
			return err
		}
		mc, err := h.service.FinalMarketCapSats(cfg)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.SendString(mc.Dec())
	}
}

// HandleProgress serves GET /progress.
func (h *CurveHandler) HandleProgress() fiber.Handler {
	return func(c fiber.Ctx) error {
		cfg, err := parseCurveConfig(c)
		if err != nil {
			return err
		}
		step, err := parseStep(c)
		if err != nil {
			return err
		}
		progress, err := h.service.ProgressAtStep(cfg, step)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.SendString(progress.Dec())
	}
}

// HandleAvgProgress serves GET /progress/avg. Steps arrive as one
// comma-separated list of decimal strings.
func (h *CurveHandler) HandleAvgProgress() fiber.Handler {
	return func(c fiber.Ctx) error {
		cfg, err := parseCurveConfig(c)
		if err != nil {
			return err
		}

		raw := c.Query("steps")
		if raw == "" {
			return NewFieldRequired("steps")
		}
		parts := strings.Split(raw, ",")
		steps := make([]*uint256.Int, 0, len(parts))
		for i, p := range parts {
			v, err := parseUint128("steps["+strconv.Itoa(i)+"]", strings.TrimSpace(p))
			if err != nil {
				return err
			}
			steps = append(steps, v)
		}

		avg, err := h.service.AvgProgress(cfg, steps)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.SendString(avg.Dec())
	}
}

// HandleAssetOut serves GET /quote/asset-out.
func (h *CurveHandler) HandleAssetOut() fiber.Handler {
	return func(c fiber.Ctx) error {
		cfg, err := parseCurveConfig(c)
		if err != nil {
			return err
		}
		step, err := parseStep(c)
		if err != nil {
			return err
		}
		quoteIn, err := parseUint128("quote_in", c.Query("quote_in"))
		if err != nil {
			return err
		}

		out, err := h.service.AssetOutGivenQuoteIn(cfg, step, quoteIn)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.SendString(out.Dec())
	}
}

// HandleQuoteIn serves GET /quote/quote-in.
func (h *CurveHandler) HandleQuoteIn() fiber.Handler {
	return func(c fiber.Ctx) error {
		cfg, err := parseCurveConfig(c)
		if err != nil {
			return err
		}
		step, err := parseStep(c)
		if err != nil {
			return err
		}
		assetOut, err := parseUint128("asset_out", c.Query("asset_out"))
		if err != nil {
			return err
		}

		quote, err := h.service.QuoteInGivenAssetOut(cfg, step, assetOut)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.SendString(quote.Dec())
	}
}

// HandleCumulativeQuote serves GET /quote/cumulative.
func (h *CurveHandler) HandleCumulativeQuote() fiber.Handler {
	return func(c fiber.Ctx) error {
		cfg, err := parseCurveConfig(c)
		if err != nil {
			return err
		}
		step, err := parseStep(c)
		if err != nil {
			return err
		}

		total, err := h.service.CumulativeQuoteToStep(cfg, step)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.SendString(total.Dec())
	}
}
