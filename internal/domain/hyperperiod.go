package domain

import (
	"math"
	"math/big"
)

const (
	DefaultMaxHyperperiod = 1e7
	DefaultMaxDenominator = 1000

	// relative error allowed when a period is read back from its rational form
	rationalTolerance = 1e-9
)

// HyperperiodPolicy bounds the hyperperiod computation.
type HyperperiodPolicy struct {
	MaxHyperperiod float64
	MaxDenominator int64
}

func DefaultHyperperiodPolicy() HyperperiodPolicy {
	return HyperperiodPolicy{
		MaxHyperperiod: DefaultMaxHyperperiod,
		MaxDenominator: DefaultMaxDenominator,
	}
}

// withDefaults replaces non-positive limits with the defaults.
func (p HyperperiodPolicy) withDefaults() HyperperiodPolicy {
	if p.MaxHyperperiod <= 0 {
		p.MaxHyperperiod = DefaultMaxHyperperiod
	}
	if p.MaxDenominator <= 0 {
		p.MaxDenominator = DefaultMaxDenominator
	}
	return p
}

// Hyperperiod is the analysis horizon of a task set. When Exact is false, Value is
// the capped surrogate and Tol is the largest offset, in time units, between the
// surrogate and the nearest multiple of a period.
type Hyperperiod struct {
	Value float64 `json:"value"`
	Exact bool    `json:"exact"`
	Tol   float64 `json:"tol"`
}

// ComputeHyperperiod returns the least common multiple of the task periods.
//
// Periods are approximated by rationals p/q with q <= MaxDenominator; the LCM of
// reduced rationals is lcm(p_i)/gcd(q_i). If a period has no such rational within
// 1e-9 relative error, or the LCM exceeds MaxHyperperiod, the result is the
// surrogate MaxHyperperiod rounded up to a multiple of the largest period.
func ComputeHyperperiod(tasks []Task, policy HyperperiodPolicy) Hyperperiod {
	policy = policy.withDefaults()

	limit := new(big.Rat).SetFloat64(policy.MaxHyperperiod)
	lcmNum := big.NewInt(1)
	gcdDen := big.NewInt(0)
	exact := true

	for _, t := range tasks {
		num, den := approximateRational(t.Period, policy.MaxDenominator)
		if num <= 0 || math.Abs(float64(num)/float64(den)-t.Period) > rationalTolerance*t.Period {
			exact = false
			break
		}

		n := big.NewInt(num)
		lcmNum = lcmBig(lcmNum, n)
		gcdDen = new(big.Int).GCD(nil, nil, gcdDen, big.NewInt(den))

		// the LCM can only grow as periods are added
		if new(big.Rat).SetFrac(lcmNum, gcdDen).Cmp(limit) > 0 {
			exact = false
			break
		}
	}

	if exact {
		value, _ := new(big.Rat).SetFrac(lcmNum, gcdDen).Float64()
		return Hyperperiod{Value: value, Exact: true}
	}

	return surrogateHyperperiod(tasks, policy.MaxHyperperiod)
}

func surrogateHyperperiod(tasks []Task, limit float64) Hyperperiod {
	maxPeriod := 0.0
	for _, t := range tasks {
		maxPeriod = math.Max(maxPeriod, t.Period)
	}

	value := math.Ceil(limit/maxPeriod) * maxPeriod

	tol := 0.0
	for _, t := range tasks {
		ratio := value / t.Period
		tol = math.Max(tol, math.Abs(ratio-math.Round(ratio))*t.Period)
	}

	return Hyperperiod{Value: value, Exact: false, Tol: tol}
}

// approximateRational returns the last continued-fraction convergent of x whose
// denominator does not exceed maxDen.
func approximateRational(x float64, maxDen int64) (int64, int64) {
	if x <= 0 || x > float64(math.MaxInt64/2) {
		return 0, 1
	}

	h0, h1 := int64(0), int64(1)
	k0, k1 := int64(1), int64(0)
	f := x
	for range 64 {
		a := math.Floor(f)
		ai := int64(a)
		h2 := ai*h1 + h0
		k2 := ai*k1 + k0
		if k2 > maxDen || h2 < 0 {
			break
		}
		h0, h1 = h1, h2
		k0, k1 = k1, k2

		frac := f - a
		if frac < 1e-12 {
			break
		}
		f = 1 / frac
	}

	if k1 == 0 {
		return 0, 1
	}
	return h1, k1
}

func lcmBig(a, b *big.Int) *big.Int {
	g := new(big.Int).GCD(nil, nil, a, b)
	out := new(big.Int).Div(a, g)
	return out.Mul(out, b)
}
