package scheduler

const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	lcgModulus    = 1 << 31
)

// LCG is a linear congruential generator. The same seed always yields the
// same sequence, which makes rebalance runs reproducible.
type LCG struct {
	state uint64
}

// NewLCG seeds a generator. Negative seeds are folded into [0, 2^31).
func NewLCG(seed int64) *LCG {
	s := seed % lcgModulus
	if s < 0 {
		s += lcgModulus
	}
	return &LCG{state: uint64(s)}
}

// Float64 advances the generator and returns a value in [0, 1).
func (g *LCG) Float64() float64 {
	g.state = (g.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(g.state) / float64(lcgModulus)
}

// Intn returns a value in [0, n). It returns 0 when n <= 0.
func (g *LCG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(g.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}
