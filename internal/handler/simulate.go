package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/holiman/uint256"

	"github.com/bitapeslabs/pbcurve/pkg/bondingcurve"
)

// SimulateRequest is the JSON body of POST /simulate: one curve config and
// a vector of decimal-string payment amounts, batched to amortize
// per-request overhead.
type SimulateRequest struct {
	TotalSupply         string   `json:"total_supply"`
	SellAmount          string   `json:"sell_amount"`
	VT                  string   `json:"vt"`
	MarketCapTargetSats string   `json:"mc_target_sats"`
	Mints               []string `json:"mints"`
}

// MintResultResponse is one entry of the simulation output, in input
// order: the step the trade started at and the tokens it produced.
type MintResultResponse struct {
	StartStep string `json:"start_step"`
	TokensOut string `json:"tokens_out"`
}

// HandleSimulate serves POST /simulate.
func (h *CurveHandler) HandleSimulate() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req SimulateRequest
		if err := c.Bind().Body(&req); err != nil {
			h.logger.Debug("failed to bind simulate body", "err", err)
			return ErrInvalidBody
		}

		cfg, err := h.parseSimulateConfig(&req)
		if err != nil {
			return err
		}

		mints := make([]*uint256.Int, 0, len(req.Mints))
		for i, m := range req.Mints {
			v, err := parseUint128("mints["+strconv.Itoa(i)+"]", m)
			if err != nil {
				return err
			}
			mints = append(mints, v)
		}

		results, err := h.service.SimulateMints(cfg, mints)
		if err != nil {
			return h.handleServiceError(err)
		}

		out := make([]MintResultResponse, 0, len(results))
		for _, r := range results {
			out = append(out, MintResultResponse{
				StartStep: r.StartStep.Dec(),
				TokensOut: r.TokensOut.Dec(),
			})
		}

		h.logger.Debug("simulation served", "mints", len(out))
		return c.JSON(out)
	}
}

func (h *CurveHandler) parseSimulateConfig(req *SimulateRequest) (bondingcurve.Config, error) {
	total, err := parseUint128("total_supply", req.TotalSupply)
	if err != nil {
		return bondingcurve.Config{}, err
	}
	sell, err := parseUint128("sell_amount", req.SellAmount)
	if err != nil {
		return bondingcurve.Config{}, err
	}
	vt, err := parseUint128("vt", req.VT)
	if err != nil {
		return bondingcurve.Config{}, err
	}
	mc, err := parseUint128("mc_target_sats", req.MarketCapTargetSats)
	if err != nil {
		return bondingcurve.Config{}, err
	}

	return bondingcurve.Config{
		TotalSupply:         total,
		SellAmount:          sell,
		VirtualTokenReserve: vt,
		MarketCapTargetSats: mc,
	}, nil
}
