package simulation

// RNG is a SplitMix64 generator (Steele, Lea & Flood, 2014).
//
// The algorithm is fixed so that a seed yields the same sequence on every
// platform and Go release; math/rand's default source gives no such promise.
// RNG also implements math/rand.Source64.
type RNG struct {
	state uint64
}

const (
	golden = 0x9E3779B97F4A7C15
	mixA   = 0xBF58476D1CE4E5B9
	mixB   = 0x94D049BB133111EB
)

func mix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * mixA
	z = (z ^ (z >> 27)) * mixB
	return z ^ (z >> 31)
}

// NewRNG returns a generator seeded with seed.
func NewRNG(seed int64) *RNG {
	return &RNG{state: uint64(seed)}
}

// NewStream derives an independent generator for sub-stream index of seed.
// Iteration i of a run always draws from stream i.
func NewStream(seed int64, index uint64) *RNG {
	return &RNG{state: mix64(uint64(seed) ^ mix64(index+golden))}
}

// Uint64 advances the generator and returns the next 64 random bits.
func (r *RNG) Uint64() uint64 {
	r.state += golden
	return mix64(r.state)
}

// Next returns a uniform float in [0,1) built from the top 53 bits.
func (r *RNG) Next() float64 {
	return float64(r.Uint64()>>11) * (1.0 / (1 << 53))
}

func (r *RNG) Int63() int64 {
	return int64(r.Uint64() >> 1)
}

func (r *RNG) Seed(seed int64) {
	r.state = uint64(seed)
}
