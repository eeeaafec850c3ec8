package smoothing

import (
	"bytes"
	"errors"
	"log/slog"
	"fmt"
	"math"
	"slices"
	"strings"
	"testing"
)

func TestSimpleGoodTuringSmallSample(t *testing.T) {
	// N_1 = 2, N_2 = 1: the fitted line is log Z = log 2 - log r, so r* = r
	// for both cells and p0 = N_1/N = 1/2.
	dist, err := SimpleGoodTuring(map[string]int{"a": 1, "b": 1, "c": 2}, 5)
	if err != nil {
		t.Fatalf("SimpleGoodTuring() failed: %v", err)
	}
	want := map[string]float64{"a": 0.125, "b": 0.125, "c": 0.25}
	for k, p := range want {
		if !almostEqual(dist.Prob(k), p) {
			t.Errorf("expected p(%s) = %v, got %v", k, p, dist.Prob(k))
		}
	}
	if !almostEqual(dist.Unseen, 0.25) {
		t.Errorf("expected each unseen = 0.25, got %v", dist.Unseen)
	}
	if !almostEqual(dist.Total(), 1) {
		t.Errorf("expected total 1, got %v", dist.Total())
	}
}

func TestSimpleGoodTuringUnseenMass(t *testing.T) {
	freqs := sampleFreqs()
	dist, err := SimpleGoodTuring(freqs, 100)
	if err != nil {
		t.Fatalf("SimpleGoodTuring() failed: %v", err)
	}
	// p0 = N_1 / N = 4 / 32
	if !almostEqual(dist.UnseenMass(), 4.0/32.0) {
		t.Errorf("expected unseen mass 4/32, got %v", dist.UnseenMass())
	}
	if !almostEqual(dist.Unseen, 4.0/32.0/90.0) {
		t.Errorf("expected unseen mass split over 90 slots, got %v", dist.Unseen)
	}
	if dist.Prob("a") <= dist.Prob("j") {
		t.Errorf("expected the most frequent event to outrank a singleton, got %v <= %v", dist.Prob("a"), dist.Prob("j"))
	}
	if dist.Prob("j") >= 1.0/32.0 {
		t.Errorf("expected singletons to be discounted below their relative frequency, got %v", dist.Prob("j"))
	}
}

// prosodyFreqs rebuilds the prosody sample of Gale and Sampson (1995) from
// its frequencies of frequencies, as (r, N_r) pairs.
func prosodyFreqs() map[string]int {
	table := [][2]int{
		{1, 120}, {2, 40}, {3, 24}, {4, 13}, {5, 15}, {6, 5}, {7, 11}, {8, 2},
		{9, 2}, {10, 1}, {12, 3}, {14, 2}, {15, 1}, {16, 1}, {17, 3}, {19, 1},
		{20, 3}, {21, 2}, {23, 3}, {24, 3}, {25, 3}, {26, 2}, {27, 2}, {28, 1},
		{31, 2}, {32, 2}, {33, 1}, {34, 2}, {36, 2}, {41, 3}, {43, 1}, {45, 3},
		{46, 1}, {47, 1}, {50, 1}, {71, 1}, {84, 1}, {101, 1}, {105, 1}, {121, 1},
		{124, 1}, {146, 1}, {162, 1}, {193, 1}, {199, 1}, {224, 1}, {226, 1},
		{254, 1}, {257, 1}, {339, 1}, {421, 1}, {456, 1}, {481, 1}, {483, 1},
		{1140, 1}, {1256, 1}, {1322, 1}, {1530, 1}, {2131, 1}, {2395, 1},
		{6925, 1}, {7846, 1},
	}
	freqs := make(map[string]int)
	for _, row := range table {
		for i := 0; i < row[1]; i++ {
			freqs[fmt.Sprintf("r%d_%d", row[0], i)] = row[0]
		}
	}
	return freqs
}

func TestSimpleGoodTuringMonotone(t *testing.T) {
	freqs := prosodyFreqs()
	var total int
	for _, c := range freqs {
		total += c
	}

	dist, err := SimpleGoodTuring(freqs, len(freqs)+1000)
	if err != nil {
		t.Fatalf("SimpleGoodTuring() failed: %v", err)
	}
	if !almostEqual(dist.Total(), 1) {
		t.Errorf("expected total 1, got %v", dist.Total())
	}
	if !almostEqual(dist.UnseenMass(), 120/float64(total)) {
		t.Errorf("expected unseen mass N_1/N = %v, got %v", 120/float64(total), dist.UnseenMass())
	}

	events := make([]string, 0, len(freqs))
	for k := range freqs {
		events = append(events, k)
	}
	slices.SortFunc(events, func(a, b string) int { return freqs[a] - freqs[b] })
	for i := 1; i < len(events); i++ {
		prev, cur := events[i-1], events[i]
		if dist.Prob(cur) < dist.Prob(prev)-tolerance {
			t.Errorf("p(%s) = %v (count %d) is below p(%s) = %v (count %d)",
				cur, dist.Prob(cur), freqs[cur], prev, dist.Prob(prev), freqs[prev])
		}
	}
	if p := dist.Prob(events[0]); p >= 1/float64(total) {
		t.Errorf("expected singletons to be discounted below 1/N, got %v", p)
	}
}

func TestSimpleGoodTuringNoSingletons(t *testing.T) {
	dist, err := SimpleGoodTuring(map[string]int{"a": 2, "b": 3, "c": 3}, 10)
	if err != nil {
		t.Fatalf("SimpleGoodTuring() failed: %v", err)
	}
	if dist.Unseen != 0 {
		t.Errorf("expected no unseen mass without singletons, got %v", dist.Unseen)
	}
	if !almostEqual(dist.Total(), 1) {
		t.Errorf("expected total 1, got %v", dist.Total())
	}
}

func TestSimpleGoodTuringErrors(t *testing.T) {
	_, err := SimpleGoodTuring(map[string]int{"a": 4, "b": 4, "c": 4}, 10)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for a single count value, got %v", err)
	}

	_, err = SimpleGoodTuring(map[string]int{"a": 1, "b": 2}, 2)
	if !errors.Is(err, ErrInsufficientData) || !errors.Is(err, ErrInvalidBins) {
		t.Errorf("expected an error matching ErrInsufficientData and ErrInvalidBins, got %v", err)
	}
}

func TestSimpleGoodTuringLogsFit(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if _, err := SimpleGoodTuring(sampleFreqs(), 50, WithLogger(logger)); err != nil {
		t.Fatalf("SimpleGoodTuring() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Good-Turing fit") {
		t.Errorf("expected a fit diagnostic in the log, got %q", buf.String())
	}
}

func TestFitFrequencies(t *testing.T) {
	// Z_1 = 2 and Z_2 = 1 lie on log Z = log 2 - log r.
	rs := []int{1, 2}
	slope, intercept := fitFrequencies(rs, map[int]int{1: 2, 2: 1})
	if !almostEqual(slope, -1) {
		t.Errorf("expected slope -1, got %v", slope)
	}
	if !almostEqual(intercept, math.Log(2)) {
		t.Errorf("expected intercept log 2, got %v", intercept)
	}
}
