package report

import (
	"fmt"
	"time"

	"github.com/tresoldi/lpngram/pkg/smoothing"
)

// Run is one archived smoothing result: the parameters it was computed with
// and the probability of every observed event.
type Run struct {
	ID          string    `json:"id" yaml:"id"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Method      string    `json:"method" yaml:"method"`
	Order       int       `json:"order" yaml:"order"`
	Bins        int       `json:"bins" yaml:"bins"`
	Gamma       float64   `json:"gamma,omitempty" yaml:"gamma,omitempty"`
	SampleSize  int       `json:"sample_size" yaml:"sample_size"`
	Unseen      float64   `json:"unseen" yaml:"unseen"`
	UnseenSlots int       `json:"unseen_slots" yaml:"unseen_slots"`
	Probs       []Prob    `json:"probs,omitempty" yaml:"probs,omitempty"`
}

// Prob is the archived count and smoothed probability of a single event.
type Prob struct {
	Event string  `json:"event" yaml:"event"`
	Count int     `json:"count" yaml:"count"`
	Prob  float64 `json:"prob" yaml:"prob"`
}

// NewRun builds a Run from a frequency distribution and its smoothed
// counterpart. Events are stored in their fmt.Sprint form, most probable first.
func NewRun[K comparable](label string, order int, gamma float64, freqs map[K]int, dist smoothing.Distribution[K]) Run {
	run := Run{
		Label:       label,
		Method:      string(dist.Method),
		Order:       order,
		Bins:        dist.Bins,
		Gamma:       gamma,
		Unseen:      dist.Unseen,
		UnseenSlots: dist.UnseenSlots,
	}
	for _, c := range freqs {
		run.SampleSize += c
	}
	for _, e := range dist.Sorted() {
		run.Probs = append(run.Probs, Prob{
			Event: fmt.Sprint(e.Event),
			Count: freqs[e.Event],
			Prob:  e.Prob,
		})
	}
	return run
}
