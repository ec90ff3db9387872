// Package bondingcurve implements a constant-product bonding curve with
// virtual token reserves.
//
// Invariant: X * Y = k
// Where:
//   - X is the sats-side (conceptual) reserve
//   - Y is the token-side reserve = vt + (sell_amount - step)
//
// X0 is derived from the desired final fully diluted valuation:
//
//	MC_final_sats ≈ (X0 * Y0 / vt^2) * total_supply
//	=> X0 ≈ mc_target_sats * vt^2 / (Y0 * total_supply)
//
// All arithmetic is integer-only over a 128-bit working width. Values live
// in 256-bit registers, so a product of two in-range operands cannot wrap
// before the width check runs; any result wider than 128 bits fails with
// ErrInvalidConfig instead of truncating.
package bondingcurve

import "github.com/holiman/uint256"

// wordBits is the working integer width. Results wider than this count as
// overflow even though the registers hold 256 bits.
const wordBits = 128

var (
	one     = uint256.NewInt(1)
	hundred = uint256.NewInt(100)

	// maxWord is 2^128 - 1, the saturation bound for the working width.
	maxWord = func() *uint256.Int {
		m := new(uint256.Int).Lsh(uint256.NewInt(1), wordBits)
		return m.Sub(m, uint256.NewInt(1))
	}()
)

func fitsWord(v *uint256.Int) bool { return v.BitLen() <= wordBits }

// Config holds the construction parameters for a curve. All values must be
// positive and fit the working width; they are only meaningful together.
type Config struct {
	TotalSupply         *uint256.Int // total token units that will ever exist
	SellAmount          *uint256.Int // token units sold across the curve
	VirtualTokenReserve *uint256.Int // vt: price-floor offset, never spent
	MarketCapTargetSats *uint256.Int // desired final FDV in sats
}

// Curve is an immutable set of derived parameters. Once constructed it is
// safe to share read-only across any number of goroutines; every operation
// is pure and no method mutates receiver state.
type Curve struct {
	totalSupply *uint256.Int
	sellAmount  *uint256.Int
	vt          *uint256.Int

	y0 *uint256.Int // vt + sellAmount
	x0 *uint256.Int // sats-side reserve at step 0, back-solved from the FDV target
	k  *uint256.Int // x0 * y0, fixed for the curve's lifetime
}

// New validates cfg and derives the curve parameters. Every arithmetic
// step is checked against the working width; a zero parameter, a zero
// denominator or a zero x0 all fail with ErrInvalidConfig.
func New(cfg Config) (*Curve, error) {
	params := []*uint256.Int{
		cfg.TotalSupply, cfg.SellAmount,
		cfg.VirtualTokenReserve, cfg.MarketCapTargetSats,
	}
	for _, p := range params {
		if p == nil || p.IsZero() || !fitsWord(p) {
			return nil, ErrInvalidConfig
		}
	}

	total := cfg.TotalSupply.Clone()
	sell := cfg.SellAmount.Clone()
	vt := cfg.VirtualTokenReserve.Clone()

	y0 := new(uint256.Int).Add(vt, sell)
	if !fitsWord(y0) {
		return nil, ErrInvalidConfig
	}

	vtSq := new(uint256.Int).Mul(vt, vt)
	if !fitsWord(vtSq) {
		return nil, ErrInvalidConfig
	}
	num := new(uint256.Int).Mul(cfg.MarketCapTargetSats, vtSq)
	if !fitsWord(num) {
		return nil, ErrInvalidConfig
	}
	den := new(uint256.Int).Mul(y0, total)
	if !fitsWord(den) || den.IsZero() {
		return nil, ErrInvalidConfig
	}

	x0 := new(uint256.Int).Div(num, den)
	if x0.IsZero() {
		return nil, ErrInvalidConfig
	}

	k := new(uint256.Int).Mul(x0, y0)
	if !fitsWord(k) {
		return nil, ErrInvalidConfig
	}

	return &Curve{
		totalSupply: total,
		sellAmount:  sell,
		vt:          vt,
		y0:          y0,
		x0:          x0,
		k:           k,
	}, nil
}

// Accessors return copies so holders of a Curve can never be affected by
// what callers do with the returned values.

func (c *Curve) TotalSupply() *uint256.Int         { return c.totalSupply.Clone() }
func (c *Curve) SellAmount() *uint256.Int          { return c.sellAmount.Clone() }
func (c *Curve) VirtualTokenReserve() *uint256.Int { return c.vt.Clone() }
func (c *Curve) Y0() *uint256.Int                  { return c.y0.Clone() }
func (c *Curve) X0() *uint256.Int                  { return c.x0.Clone() }
func (c *Curve) K() *uint256.Int                   { return c.k.Clone() }

// MaxStep returns the last valid step, i.e. the sell amount.
func (c *Curve) MaxStep() *uint256.Int { return c.sellAmount.Clone() }

// yAt returns the token-side reserve vt + (sellAmount - step).
func (c *Curve) yAt(step *uint256.Int) (*uint256.Int, error) {
	if step.Gt(c.sellAmount) {
		return nil, ErrOutOfRange
	}
	y := new(uint256.Int).Sub(c.sellAmount, step)
	return y.Add(y, c.vt), nil
}

// xFromY returns floor(k / y). y is never zero for a valid step because
// vt > 0 bounds it from below.
func (c *Curve) xFromY(y *uint256.Int) *uint256.Int {
	return new(uint256.Int).Div(c.k, y)
}

// Snapshot is a read-only view of the curve at one step. It is a
// disconnected copy of derived numbers: mutating it does not touch the
// curve that produced it.
type Snapshot struct {
	Step *uint256.Int
	X    *uint256.Int // sats-side conceptual reserve
	Y    *uint256.Int // token-side reserve (vt + remaining real)
}

// PriceNum and PriceDen expose the spot price as the fraction X / Y, never
// pre-divided, so callers choose their own rounding when converting to a
// decimal price.

func (s Snapshot) PriceNum() *uint256.Int { return s.X }
func (s Snapshot) PriceDen() *uint256.Int { return s.Y }

// Snapshot returns the curve state (step, X, Y) at the given step.
func (c *Curve) Snapshot(step *uint256.Int) (Snapshot, error) {
	y, err := c.yAt(step)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Step: step.Clone(), X: c.xFromY(y), Y: y}, nil
}

// Mint applies a purchase of satsIn at the given step and returns the
// resulting step and the tokens received. The virtual reserve is a hard
// floor the token-side reserve never crosses, so the curve asymptotically
// approaches sellAmount and reaches it exactly only when the floor is hit.
//
// For a fixed step, a larger satsIn never yields fewer tokens, and the
// returned step never exceeds the sell amount.
func (c *Curve) Mint(step, satsIn *uint256.Int) (newStep, tokensOut *uint256.Int, err error) {
	if satsIn.IsZero() {
		return nil, nil, ErrZeroInput
	}

	y, err := c.yAt(step)
	if err != nil {
		return nil, nil, err
	}
	x := c.xFromY(y)

	x2 := new(uint256.Int).Add(x, satsIn)
	if !fitsWord(x2) {
		return nil, nil, ErrInvalidConfig
	}

	yPrime := new(uint256.Int).Div(c.k, x2)
	if yPrime.Lt(c.vt) {
		yPrime.Set(c.vt)
	}

	// floor(k/x) can exceed y by the division remainder, so a tiny satsIn
	// may leave yPrime above y; the payout saturates at zero.
	tokensOut = new(uint256.Int)
	if y.Gt(yPrime) {
		tokensOut.Sub(y, yPrime)
	}

	newStep = new(uint256.Int).Add(step, tokensOut)
	if newStep.Gt(c.sellAmount) {
		newStep.Set(c.sellAmount)
	}
	return newStep, tokensOut, nil
}

// MintResult records one simulated purchase: the step the trade started at
// and the tokens it produced.
type MintResult struct {
	StartStep *uint256.Int
	TokensOut *uint256.Int
}

// SimulateMints folds a sequence of purchases from step 0, each trade's
// resulting step feeding the next trade. A failure anywhere discards the
// whole batch, successful prefix included.
func (c *Curve) SimulateMints(satsIn []*uint256.Int) ([]MintResult, error) {
	step := new(uint256.Int)
	results := make([]MintResult, 0, len(satsIn))

	for _, in := range satsIn {
		newStep, tokensOut, err := c.Mint(step, in)
		if err != nil {
			return nil, err
		}
		results = append(results, MintResult{StartStep: step, TokensOut: tokensOut})
		step = newStep
	}

	return results, nil
}

// TotalRaiseSats returns the sats collected if the entire step range is
// sold. Curve-native: X_final - X0 with X_final = floor(k / vt), never
// negative.
func (c *Curve) TotalRaiseSats() *uint256.Int {
	xFinal := new(uint256.Int).Div(c.k, c.vt)
	if xFinal.Lt(c.x0) {
		return new(uint256.Int)
	}
	return xFinal.Sub(xFinal, c.x0)
}

// FinalMarketCapSats projects the fully diluted valuation once the sale
// completes and only the virtual reserve remains relevant:
// floor(k / vt^2) * total_supply, saturating at the working-width maximum.
func (c *Curve) FinalMarketCapSats() (*uint256.Int, error) {
	vtSq := new(uint256.Int).Mul(c.vt, c.vt)
	if !fitsWord(vtSq) {
		return nil, ErrInvalidConfig
	}
	pFinal := new(uint256.Int).Div(c.k, vtSq)
	mc := pFinal.Mul(pFinal, c.totalSupply)
	if !fitsWord(mc) {
		mc.Set(maxWord)
	}
	return mc, nil
}

// ProgressAtStep returns floor(step * 100 / total_supply) with a
// saturating multiply. The denominator is the total supply, not the sell
// amount, so a curve selling less than the full supply never reports 100%.
func (c *Curve) ProgressAtStep(step *uint256.Int) *uint256.Int {
	scaled := new(uint256.Int).Mul(step, hundred)
	if !fitsWord(scaled) {
		scaled.Set(maxWord)
	}
	return scaled.Div(scaled, c.totalSupply)
}

// AvgProgress divides the product of the given steps by their sum. The
// name is historical: this is product-over-sum, not an arithmetic mean.
// An empty slice or a zero sum fails with ErrZeroInput; a product wider
// than the working width fails with ErrInvalidConfig.
func (c *Curve) AvgProgress(steps []*uint256.Int) (*uint256.Int, error) {
	if len(steps) == 0 {
		return nil, ErrZeroInput
	}

	product := uint256.NewInt(1)
	sum := new(uint256.Int)
	for _, s := range steps {
		product.Mul(product, s)
		if !fitsWord(product) {
			return nil, ErrInvalidConfig
		}
		sum.Add(sum, s)
		if !fitsWord(sum) {
			return nil, ErrInvalidConfig
		}
	}
	if sum.IsZero() {
		return nil, ErrZeroInput
	}
	return product.Div(product, sum), nil
}

// AssetOutGivenQuoteIn quotes the tokens a payment would buy at the given
// step without committing any state transition.
func (c *Curve) AssetOutGivenQuoteIn(step, quoteIn *uint256.Int) (*uint256.Int, error) {
	_, tokensOut, err := c.Mint(step, quoteIn)
	if err != nil {
		return nil, err
	}
	return tokensOut, nil
}

// QuoteInGivenAssetOut returns the smallest payment whose mint at the
// given step yields at least assetOut tokens. Rounding is against the
// caller so the quote is always sufficient. Fails with ErrExceedsPool when
// assetOut cannot be served from the remaining real reserve (y - vt).
func (c *Curve) QuoteInGivenAssetOut(step, assetOut *uint256.Int) (*uint256.Int, error) {
	if assetOut.IsZero() {
		return nil, ErrZeroInput
	}

	y, err := c.yAt(step)
	if err != nil {
		return nil, err
	}
	remaining := new(uint256.Int).Sub(y, c.vt)
	if assetOut.Gt(remaining) {
		return nil, ErrExceedsPool
	}

	x := c.xFromY(y)
	yPrime := new(uint256.Int).Sub(y, assetOut)

	// Smallest x2 with floor(k/x2) <= yPrime is floor(k/(yPrime+1)) + 1.
	bound := new(uint256.Int).Add(yPrime, one)
	x2 := new(uint256.Int).Div(c.k, bound)
	x2.Add(x2, one)

	if !x2.Gt(x) {
		// The target is reachable with any positive payment.
		return uint256.NewInt(1), nil
	}
	return x2.Sub(x2, x), nil
}

// CumulativeQuoteToStep returns the total payment required to move the
// curve from step 0 to the given step: xFromY(yAt(step)) - x0.
func (c *Curve) CumulativeQuoteToStep(step *uint256.Int) (*uint256.Int, error) {
	y, err := c.yAt(step)
	if err != nil {
		return nil, err
	}
	x := c.xFromY(y)
	if x.Lt(c.x0) {
		return new(uint256.Int), nil
	}
	return x.Sub(x, c.x0), nil
}
