package smoothing

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

// sampleFreqs is a small distribution with several distinct count values.
func sampleFreqs() map[string]int {
	return map[string]int{
		"a": 10, "b": 7, "c": 4, "d": 3, "e": 2, "f": 2,
		"g": 1, "h": 1, "i": 1, "j": 1,
	}
}

func TestLaplaceScenario(t *testing.T) {
	dist, err := Laplace(map[string]int{"a": 2, "b": 1}, 4)
	if err != nil {
		t.Fatalf("Laplace() failed: %v", err)
	}
	if !almostEqual(dist.Prob("a"), 3.0/7.0) {
		t.Errorf("expected p(a) = 3/7, got %v", dist.Prob("a"))
	}
	if !almostEqual(dist.Prob("b"), 2.0/7.0) {
		t.Errorf("expected p(b) = 2/7, got %v", dist.Prob("b"))
	}
	if !almostEqual(dist.Unseen, 1.0/7.0) {
		t.Errorf("expected unseen p = 1/7, got %v", dist.Unseen)
	}
	if dist.UnseenSlots != 2 {
		t.Errorf("expected 2 unseen slots, got %d", dist.UnseenSlots)
	}
	if !almostEqual(dist.Prob("zzz"), 1.0/7.0) {
		t.Errorf("expected unobserved event to get 1/7, got %v", dist.Prob("zzz"))
	}
}

func TestDistributionsSumToOne(t *testing.T) {
	freqs := sampleFreqs()
	methods := []Method{
		MethodLaplace, MethodELE, MethodLidstone, MethodCertaintyDegree,
		MethodWittenBell, MethodSimpleGoodTuring, MethodUniform, MethodRandom,
	}
	for _, bins := range []int{len(freqs) + 1, 20, 1000} {
		for _, m := range methods {
			t.Run(fmt.Sprintf("%s/%d", m, bins), func(t *testing.T) {
				dist, err := Smooth(m, freqs, bins, WithGamma(0.3), WithRand(rand.New(rand.NewPCG(1, 2))))
				if err != nil {
					t.Fatalf("Smooth() failed: %v", err)
				}
				if total := dist.Total(); !almostEqual(total, 1) {
					t.Errorf("expected total probability 1, got %v", total)
				}
				if dist.UnseenSlots != bins-len(freqs) {
					t.Errorf("expected %d unseen slots, got %d", bins-len(freqs), dist.UnseenSlots)
				}
			})
		}
	}
}

func TestMLEIndependentOfBins(t *testing.T) {
	freqs := sampleFreqs()
	a, err := MLE(freqs, len(freqs))
	if err != nil {
		t.Fatalf("MLE() failed: %v", err)
	}
	b, err := MLE(freqs, 1_000_000)
	if err != nil {
		t.Fatalf("MLE() failed: %v", err)
	}
	for k, p := range a.Probs {
		if p != b.Probs[k] {
			t.Errorf("expected MLE to ignore bins, p(%s) = %v vs %v", k, p, b.Probs[k])
		}
	}
	if !almostEqual(a.Prob("a"), 10.0/32.0) {
		t.Errorf("expected p(a) = 10/32, got %v", a.Prob("a"))
	}
	if a.Unseen != 0 || a.UnseenMass() != 0 {
		t.Errorf("expected no unseen mass for MLE, got %v", a.UnseenMass())
	}
}

func TestLaplaceApproachesMLE(t *testing.T) {
	freqs := map[string]int{"a": 3_000_000, "b": 1_000_000}
	mleDist, _ := MLE(freqs, 4)
	lapDist, err := Laplace(freqs, 4)
	if err != nil {
		t.Fatalf("Laplace() failed: %v", err)
	}
	if math.Abs(mleDist.Prob("a")-lapDist.Prob("a")) > 1e-5 {
		t.Errorf("expected laplace to approach mle for large counts, got %v vs %v", lapDist.Prob("a"), mleDist.Prob("a"))
	}
}

func TestLidstoneSpecialCases(t *testing.T) {
	freqs := sampleFreqs()
	bins := 30

	lap, _ := Laplace(freqs, bins)
	lid1, err := Lidstone(freqs, bins, 1)
	if err != nil {
		t.Fatalf("Lidstone() failed: %v", err)
	}
	eleDist, _ := ELE(freqs, bins)
	lidHalf, _ := Lidstone(freqs, bins, 0.5)

	for k := range freqs {
		if lap.Probs[k] != lid1.Probs[k] {
			t.Errorf("expected lidstone(1) == laplace for %s: %v vs %v", k, lid1.Probs[k], lap.Probs[k])
		}
		if eleDist.Probs[k] != lidHalf.Probs[k] {
			t.Errorf("expected lidstone(0.5) == ele for %s: %v vs %v", k, lidHalf.Probs[k], eleDist.Probs[k])
		}
	}
	if lap.Unseen != lid1.Unseen || eleDist.Unseen != lidHalf.Unseen {
		t.Error("expected unseen probabilities to match")
	}

	// gamma = 0 is the relative frequency
	lid0, _ := Lidstone(freqs, bins, 0)
	mleDist, _ := MLE(freqs, bins)
	for k := range freqs {
		if !almostEqual(lid0.Probs[k], mleDist.Probs[k]) {
			t.Errorf("expected lidstone(0) == mle for %s", k)
		}
	}
}

func TestLidstoneGammaOverridesOption(t *testing.T) {
	freqs := map[string]int{"a": 1}
	dist, err := Lidstone(freqs, 2, 2, WithGamma(100))
	if err != nil {
		t.Fatalf("Lidstone() failed: %v", err)
	}
	if !almostEqual(dist.Prob("a"), 3.0/5.0) {
		t.Errorf("expected explicit gamma to win, got p(a) = %v", dist.Prob("a"))
	}
}

func TestUniform(t *testing.T) {
	dist, err := Uniform(map[string]int{"a": 100, "b": 1, "c": 0}, 8)
	if err != nil {
		t.Fatalf("Uniform() failed: %v", err)
	}
	for _, k := range []string{"a", "b", "c", "unseen"} {
		if dist.Prob(k) != 1.0/8.0 {
			t.Errorf("expected p(%s) = 1/8, got %v", k, dist.Prob(k))
		}
	}
	if !almostEqual(dist.Total(), 1) {
		t.Errorf("expected total 1, got %v", dist.Total())
	}

	empty, err := Uniform(map[string]int{}, 5)
	if err != nil {
		t.Fatalf("Uniform() on an empty alphabet failed: %v", err)
	}
	if empty.UnseenSlots != 5 || !almostEqual(empty.Total(), 1) {
		t.Errorf("expected 5 unseen slots summing to 1, got %d slots, %v", empty.UnseenSlots, empty.Total())
	}

	if _, err := Uniform(map[string]int{}, 0); !errors.Is(err, ErrInvalidBins) {
		t.Errorf("expected ErrInvalidBins for zero bins, got %v", err)
	}
}

func TestRandomReproducible(t *testing.T) {
	freqs := map[string]int{"a": 1, "b": 1, "c": 1}
	d1, err := Random(freqs, 6, WithRand(rand.New(rand.NewPCG(42, 7))))
	if err != nil {
		t.Fatalf("Random() failed: %v", err)
	}
	d2, _ := Random(freqs, 6, WithRand(rand.New(rand.NewPCG(42, 7))))
	for k := range freqs {
		if d1.Probs[k] != d2.Probs[k] {
			t.Errorf("expected identical draws for identical seeds, got %v vs %v", d1.Probs[k], d2.Probs[k])
		}
	}
	if !almostEqual(d1.Total(), 1) {
		t.Errorf("expected total 1, got %v", d1.Total())
	}
}

func TestRandomLargeAlphabet(t *testing.T) {
	freqs := map[string]int{"a": 1, "b": 2}
	bins := 1 << 24

	var dist Distribution[string]
	allocs := testing.AllocsPerRun(1, func() {
		var err error
		dist, err = Random(freqs, bins, WithRand(rand.New(rand.NewPCG(1, 2))))
		if err != nil {
			t.Fatalf("Random() failed: %v", err)
		}
	})
	if allocs > 100 {
		t.Errorf("expected a bounded number of allocations, got %v", allocs)
	}
	if dist.UnseenSlots != bins-2 {
		t.Errorf("expected %d unseen slots, got %d", bins-2, dist.UnseenSlots)
	}
	if !almostEqual(dist.Total(), 1) {
		t.Errorf("expected total 1, got %v", dist.Total())
	}
}

func TestCertaintyDegree(t *testing.T) {
	// Only singletons: no evidence beyond the alphabet, so the result is uniform.
	singles, err := CertaintyDegree(map[string]int{"a": 1, "b": 1, "c": 1}, 6)
	if err != nil {
		t.Fatalf("CertaintyDegree() failed: %v", err)
	}
	for _, k := range []string{"a", "b", "c", "x"} {
		if !almostEqual(singles.Prob(k), 1.0/6.0) {
			t.Errorf("expected uniform 1/6 for %s, got %v", k, singles.Prob(k))
		}
	}

	// Heavy repetition pulls the estimate towards the relative frequency.
	repeated, _ := CertaintyDegree(map[string]int{"a": 3000, "b": 1000}, 6)
	if math.Abs(repeated.Prob("a")-0.75) > 1e-3 {
		t.Errorf("expected p(a) close to 0.75, got %v", repeated.Prob("a"))
	}
	if repeated.Unseen >= singles.Unseen {
		t.Errorf("expected less unseen mass for a repetitive sample, got %v >= %v", repeated.Unseen, singles.Unseen)
	}
}

func TestWittenBell(t *testing.T) {
	dist, err := WittenBell(map[string]int{"a": 2, "b": 1}, 4)
	if err != nil {
		t.Fatalf("WittenBell() failed: %v", err)
	}
	// N = 3, T = 2
	if !almostEqual(dist.Prob("a"), 2.0/5.0) {
		t.Errorf("expected p(a) = 2/5, got %v", dist.Prob("a"))
	}
	if !almostEqual(dist.UnseenMass(), 2.0/5.0) {
		t.Errorf("expected unseen mass = 2/5, got %v", dist.UnseenMass())
	}
	if !almostEqual(dist.Unseen, 1.0/5.0) {
		t.Errorf("expected each unseen = 1/5, got %v", dist.Unseen)
	}

	_, err = WittenBell(map[string]int{"a": 2, "b": 1}, 2)
	if !errors.Is(err, ErrInvalidBins) {
		t.Errorf("expected ErrInvalidBins with no unseen slots, got %v", err)
	}
}

func TestZeroCountEventsAreUnseen(t *testing.T) {
	freqs := map[string]int{"a": 3, "b": 1, "c": 2, "z": 0}
	for _, m := range []Method{MethodWittenBell, MethodSimpleGoodTuring, MethodCertaintyDegree, MethodLaplace} {
		dist, err := Smooth(m, freqs, 6)
		if err != nil {
			t.Fatalf("%s: Smooth() failed: %v", m, err)
		}
		if !almostEqual(dist.Prob("z"), dist.Unseen) {
			t.Errorf("%s: expected zero-count event to get the unseen probability, got %v vs %v", m, dist.Prob("z"), dist.Unseen)
		}
		if !almostEqual(dist.Total(), 1) {
			t.Errorf("%s: expected total 1, got %v", m, dist.Total())
		}
	}
}

func TestSmoothErrors(t *testing.T) {
	freqs := map[string]int{"a": 2, "b": 1}

	tests := []struct {
		name   string
		method Method
		freqs  map[string]int
		bins   int
		opts   []Option
		want   error
	}{
		{"unknown method", Method("unknown_method"), freqs, 4, nil, ErrUnknownMethod},
		{"too few bins", MethodLaplace, freqs, 1, nil, ErrInvalidBins},
		{"empty distribution", MethodLaplace, map[string]int{}, 4, nil, ErrEmptyDistribution},
		{"empty is invalid bins", MethodWittenBell, map[string]int{}, 4, nil, ErrInvalidBins},
		{"zero total", MethodMLE, map[string]int{"a": 0}, 4, nil, ErrEmptyDistribution},
		{"negative count", MethodELE, map[string]int{"a": -1}, 4, nil, ErrNegativeCount},
		{"negative gamma", MethodLidstone, freqs, 4, []Option{WithGamma(-0.1)}, ErrInvalidGamma},
		{"nan gamma", MethodLidstone, freqs, 4, []Option{WithGamma(math.NaN())}, ErrInvalidGamma},
		{"infinite gamma", MethodLidstone, freqs, 4, []Option{WithGamma(math.Inf(1))}, ErrInvalidGamma},
		{"single count value", MethodSimpleGoodTuring, map[string]int{"a": 1, "b": 1}, 4, nil, ErrInsufficientData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, err := Smooth(tt.method, tt.freqs, tt.bins, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if dist.Probs != nil {
				t.Errorf("expected no distribution on error, got %+v", dist)
			}
		})
	}
}

func TestParseMethod(t *testing.T) {
	tests := map[string]Method{
		"laplace":     MethodLaplace,
		" SGT ":       MethodSimpleGoodTuring,
		"good-turing": MethodSimpleGoodTuring,
		"Witten-Bell": MethodWittenBell,
		"certainty":   MethodCertaintyDegree,
	}
	for name, want := range tests {
		got, err := ParseMethod(name)
		if err != nil {
			t.Errorf("ParseMethod(%q) failed: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseMethod(%q) = %q, want %q", name, got, want)
		}
	}
	if _, err := ParseMethod("kneser-ney"); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}
	if len(Methods()) != 9 {
		t.Errorf("expected 9 registered methods, got %d", len(Methods()))
	}
}

func TestSortedIsStable(t *testing.T) {
	dist, _ := MLE(map[string]int{"b": 1, "a": 1, "c": 2}, 3)
	entries := dist.Sorted()
	got := []string{entries[0].Event, entries[1].Event, entries[2].Event}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted() = %v, want %v", got, want)
		}
	}
}

func BenchmarkSmooth(b *testing.B) {
	freqs := make(map[int]int, 5000)
	for i := 0; i < 5000; i++ {
		freqs[i] = 1 + (i*7919)%97
	}
	for _, m := range []Method{MethodLaplace, MethodWittenBell, MethodSimpleGoodTuring} {
		b.Run(string(m), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Smooth(m, freqs, 10000); err != nil {
					b.Fatalf("Smooth() failed: %v", err)
				}
			}
		})
	}
}
