package service

import (
	"log/slog"

	"github.com/holiman/uint256"

	"github.com/bitapeslabs/pbcurve/pkg/bondingcurve"
)

// CurveService builds bonding curves from request parameters and runs the
// curve operations behind the HTTP handlers. The service holds no curve
// state: every call carries the full configuration and constructs a fresh
// immutable curve, so concurrent requests never coordinate.
type CurveService struct {
	BaseService
	maxMintsPerBatch int
}

// NewCurveService constructs a CurveService using the provided logger and
// batch cap.
func NewCurveService(logger *slog.Logger, maxMintsPerBatch int) *CurveService {
	return &CurveService{
		BaseService:      BaseService{logger: logger},
		maxMintsPerBatch: maxMintsPerBatch,
	}
}

func (s *CurveService) build(cfg bondingcurve.Config) (*bondingcurve.Curve, error) {
	curve, err := bondingcurve.New(cfg)
	if err != nil {
		s.logger.Debug("curve construction rejected", "err", err)
		return nil, err
	}
	return curve, nil
}

// Snapshot returns the curve state at the given step.
func (s *CurveService) Snapshot(cfg bondingcurve.Config, step *uint256.Int) (bondingcurve.Snapshot, error) {
	curve, err := s.build(cfg)
	if err != nil {
		return bondingcurve.Snapshot{}, err
	}
	snap, err := curve.Snapshot(step)
	if err != nil {
		return bondingcurve.Snapshot{}, err
	}
	s.logger.Debug("snapshot computed", "step", snap.Step.Dec(), "x", snap.X.Dec(), "y", snap.Y.Dec())
	return snap, nil
}

// Mint applies a purchase at the given step and returns the new step and
// tokens received.
func (s *CurveService) Mint(cfg bondingcurve.Config, step, satsIn *uint256.Int) (newStep, tokensOut *uint256.Int, err error) {
	curve, err := s.build(cfg)
	if err != nil {
		return nil, nil, err
	}
	newStep, tokensOut, err = curve.Mint(step, satsIn)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("mint computed",
		"step", step.Dec(), "sats_in", satsIn.Dec(),
		"new_step", newStep.Dec(), "tokens_out", tokensOut.Dec())
	return newStep, tokensOut, nil
}

// SimulateMints runs a batch of purchases sequentially from step 0. The
// batch size is capped; a failed trade discards the whole batch.
func (s *CurveService) SimulateMints(cfg bondingcurve.Config, satsIn []*uint256.Int) ([]bondingcurve.MintResult, error) {
	if len(satsIn) > s.maxMintsPerBatch {
		return nil, ErrBatchTooLarge
	}
	curve, err := s.build(cfg)
	if err != nil {
		return nil, err
	}
	results, err := curve.SimulateMints(satsIn)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("batch simulated", "mints", len(results))
	return results, nil
}

// TotalRaiseSats returns the sats collected if the full step range sells.
func (s *CurveService) TotalRaiseSats(cfg bondingcurve.Config) (*uint256.Int, error) {
	curve, err := s.build(cfg)
	if err != nil {
		return nil, err
	}
	return curve.TotalRaiseSats(), nil
}

// FinalMarketCapSats projects the fully diluted valuation at completion.
func (s *CurveService) FinalMarketCapSats(cfg bondingcurve.Config) (*uint256.Int, error) {
	curve, err := s.build(cfg)
	if err != nil {
		return nil, err
	}
	return curve.FinalMarketCapSats()
}

// ProgressAtStep returns the percentage of the total supply sold at step.
func (s *CurveService) ProgressAtStep(cfg bondingcurve.Config, step *uint256.Int) (*uint256.Int, error) {
	curve, err := s.build(cfg)
	if err != nil {
		return nil, err
	}
	return curve.ProgressAtStep(step), nil
}

// AvgProgress applies the curve's product-over-sum reduction to steps.
func (s *CurveService) AvgProgress(cfg bondingcurve.Config, steps []*uint256.Int) (*uint256.Int, error) {
	curve, err := s.build(cfg)
	if err != nil {
		return nil, err
	}
	return curve.AvgProgress(steps)
}

// AssetOutGivenQuoteIn quotes tokens for a payment without committing a
// state transition.
func (s *CurveService) AssetOutGivenQuoteIn(cfg bondingcurve.Config, step, quoteIn *uint256.Int) (*uint256.Int, error) {
	curve, err := s.build(cfg)
	if err != nil {
		return nil, err
	}
	return curve.AssetOutGivenQuoteIn(step, quoteIn)
}

// QuoteInGivenAssetOut quotes the payment required for an exact token
// amount.
func (s *CurveService) QuoteInGivenAssetOut(cfg bondingcurve.Config, step, assetOut *uint256.Int) (*uint256.Int, error) {
	curve, err := s.build(cfg)
	if err != nil {
		return nil, err
	}
	return curve.QuoteInGivenAssetOut(step, assetOut)
}

// CumulativeQuoteToStep returns the payment needed to reach step from 0.
func (s *CurveService) CumulativeQuoteToStep(cfg bondingcurve.Config, step *uint256.Int) (*uint256.Int, error) {
	curve, err := s.build(cfg)
	if err != nil {
		return nil, err
	}
	return curve.CumulativeQuoteToStep(step)
}
