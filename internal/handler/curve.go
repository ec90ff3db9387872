package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/bitapeslabs/pbcurve/internal/service"
	"github.com/bitapeslabs/pbcurve/pkg/bondingcurve"
)

type CurveHandler struct {
	BaseHandler
	service *service.CurveService
}

func NewCurveHandler(logger *slog.Logger, svc *service.CurveService) *CurveHandler {
	return &CurveHandler{
		BaseHandler: BaseHandler{
			logger: logger,
		},
		service: svc,
	}
}

// SnapshotResponse mirrors a curve snapshot with every value rendered as a
// decimal string.
type SnapshotResponse struct {
	Step string `json:"step"`
	X    string `json:"x"`
	Y    string `json:"y"`
}

// MintResponse carries the outcome of a single mint.
type MintResponse struct {
	NewStep   string `json:"new_step"`
	TokensOut string `json:"tokens_out"`
}

// HandleSnapshot serves GET /snapshot.
func (h *CurveHandler) HandleSnapshot() fiber.Handler {
	return func(c fiber.Ctx) error {
		cfg, err := parseCurveConfig(c)
		if err != nil {
			return err
		}
		step, err := parseStep(c)
		if err != nil {
			return err
		}

		snap, err := h.service.Snapshot(cfg, step)
		if err != nil {
			return h.handleServiceError(err)
		}

		return c.JSON(SnapshotResponse{
			Step: snap.Step.Dec(),
			X:    snap.X.Dec(),
			Y:    snap.Y.Dec(),
		})
	}
}

// HandleMint serves GET /mint.
func (h *CurveHandler) HandleMint() fiber.Handler {
	return func(c fiber.Ctx) error {
		cfg, err := parseCurveConfig(c)
		if err != nil {
			return err
		}
		step, err := parseStep(c)
		if err != nil {
			return err
		}
		satsIn, err := parseUint128("sats_in", c.Query("sats_in"))
		if err != nil {
			return err
		}

		newStep, tokensOut, err := h.service.Mint(cfg, step, satsIn)
		if err != nil {
			return h.handleServiceError(err)
		}

		h.logger.Debug("mint served", "step", step.Dec(), "sats_in", satsIn.Dec(), "tokens_out", tokensOut.Dec())
		return c.JSON(MintResponse{
			NewStep:   newStep.Dec(),
			TokensOut: tokensOut.Dec(),
		})
	}
}

func (h *CurveHandler) handleServiceError(err error) error {
	switch err {
	case bondingcurve.ErrInvalidConfig:
		return ErrInvalidConfigBadRequest
	case bondingcurve.ErrOutOfRange:
		return ErrOutOfRangeBadRequest
	case bondingcurve.ErrZeroInput:
		return ErrZeroInputBadRequest
	case bondingcurve.ErrExceedsPool:
		return ErrExceedsPoolBadRequest
	case service.ErrBatchTooLarge:
		return ErrBatchTooLargeBadRequest
	default:
		h.logger.Error("curve operation failed", "err", err)
		return ErrCurveOpFailedInternal
	}
}
