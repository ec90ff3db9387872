package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/holiman/uint256"

	"github.com/bitapeslabs/pbcurve/pkg/bondingcurve"
)

// maxValueBits is the range the boundary accepts: the curve's 128-bit
// working width. Wider decimals are rejected before the core sees them.
const maxValueBits = 128

// parseUint128 converts a decimal string into a 128-bit value.
func parseUint128(field, s string) (*uint256.Int, error) {
	if s == "" {
		return nil, NewFieldRequired(field)
	}
	v := new(uint256.Int)
	if err := v.SetFromDecimal(s); err != nil {
		return nil, NewInvalidUint128(field)
	}
	if v.BitLen() > maxValueBits {
		return nil, NewInvalidUint128(field)
	}
	return v, nil
}

// parseCurveConfig reads the four curve parameters every endpoint carries
// from the query string. Positivity is the core's concern; the boundary
// only enforces format and range.
func parseCurveConfig(c fiber.Ctx) (bondingcurve.Config, error) {
	total, err := parseUint128("total_supply", c.Query("total_supply"))
	if err != nil {
		return bondingcurve.Config{}, err
	}
	sell, err := parseUint128("sell_amount", c.Query("sell_amount"))
	if err != nil {
		return bondingcurve.Config{}, err
	}
	vt, err := parseUint128("vt", c.Query("vt"))
	if err != nil {
		return bondingcurve.Config{}, err
	}
	mc, err := parseUint128("mc_target_sats", c.Query("mc_target_sats"))
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

// parseStep reads the step query parameter.
func parseStep(c fiber.Ctx) (*uint256.Int, error) {
	return parseUint128("step", c.Query("step"))
}
