package simulation

import (
	"math/rand"
	"testing"
)

var _ rand.Source64 = (*RNG)(nil)

func TestRNG_ReferenceSequence(t *testing.T) {
	// Reference SplitMix64 outputs for seed 42.
	want := []uint64{0xbdd732262feb6e95, 0x28efe333b266f103, 0x47526757130f9f52}
	r := NewRNG(42)
	for i, w := range want {
		if got := r.Uint64(); got != w {
			t.Errorf("draw %d: got %#x, want %#x", i, got, w)
		}
	}

	r.Seed(42)
	if got := r.Next(); got != 0.7415648787718233 {
		t.Errorf("Next() after reseed = %v, want 0.7415648787718233", got)
	}
}

func TestRNG_SameSeedSameSequence(t *testing.T) {
	a, b := NewRNG(-7), NewRNG(-7)
	for i := 0; i < 1000; i++ {
		x, y := a.Next(), b.Next()
		if x != y {
			t.Fatalf("sequences diverged at %d: %v vs %v", i, x, y)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("Next() out of [0,1): %v", x)
		}
	}
}

func TestNewStream(t *testing.T) {
	want := []float64{0.7906546757343162, 0.052227385260500414, 0.272771964268555}
	s := NewStream(42, 0)
	for i, w := range want {
		if got := s.Next(); got != w {
			t.Errorf("stream 0 draw %d: got %v, want %v", i, got, w)
		}
	}

	first := NewStream(42, 1).Next()
	if first == NewStream(42, 2).Next() || first == NewStream(43, 1).Next() {
		t.Error("distinct streams should not start on the same value")
	}
	if first != NewStream(42, 1).Next() {
		t.Error("a stream must be reproducible from seed and index")
	}
}

func TestRNG_BacksMathRand(t *testing.T) {
	a := rand.New(NewRNG(9))
	b := rand.New(NewRNG(9))
	for i := 0; i < 10; i++ {
		if a.Intn(100) != b.Intn(100) {
			t.Fatal("math/rand wrapper lost determinism")
		}
	}
}
