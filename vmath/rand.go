package vmath

// defaultSeed replaces a zero seed, xorshift has a fixed point at zero
const defaultSeed uint32 = 0x12345678

// FastRand is a 32-bit xorshift generator
// Not safe for concurrent use; each simulation owns its instance
type FastRand struct {
	state uint32
}

func NewFastRand(seed uint32) *FastRand {
	if seed == 0 {
		seed = defaultSeed
	}
	return &FastRand{state: seed}
}

func (r *FastRand) Next() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Float64 returns a uniform draw in [0, 1)
func (r *FastRand) Float64() float64 {
	return float64(r.Next()) / 4294967296.0
}

// Range returns a uniform draw in [lo, hi)
func (r *FastRand) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint32(n))
}

// Shuffle permutes n elements with Fisher-Yates, walking from the top index down
func (r *FastRand) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := int(r.Next() % uint32(i+1))
		swap(i, j)
	}
}
