package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tresoldi/lpngram/pkg/report"
)

// countRow is one counted n-gram in command output. Pos is only set for
// positional n-grams.
type countRow struct {
	Ngram string `json:"ngram" yaml:"ngram"`
	Pos   *int   `json:"pos,omitempty" yaml:"pos,omitempty"`
	Count int    `json:"count" yaml:"count"`
}

// encode writes v as JSON or YAML. It reports false for the text formats,
// which every caller renders itself.
func encode(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return true, encoder.Encode(v)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return true, err
		}
		return true, encoder.Close()
	case "text", "tsv":
		return false, nil
	}
	return true, fmt.Errorf("unknown output format %q (want text, json, yaml or tsv)", format)
}

func writeCounts(w io.Writer, format string, rows []countRow, total int) error {
	if handled, err := encode(w, format, rows); handled {
		return err
	}

	if format == "tsv" {
		for _, r := range rows {
			if r.Pos != nil {
				_, _ = fmt.Fprintf(w, "%s\t%d\t%d\n", r.Ngram, *r.Pos, r.Count)
			} else {
				_, _ = fmt.Fprintf(w, "%s\t%d\n", r.Ngram, r.Count)
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range rows {
		if r.Pos != nil {
			_, _ = fmt.Fprintf(tw, "%s\t@%d\t%s\n", r.Ngram, *r.Pos, humanize.Comma(int64(r.Count)))
		} else {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", r.Ngram, humanize.Comma(int64(r.Count)))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s n-grams, %s shown\n", humanize.Comma(int64(total)), humanize.Comma(int64(len(rows))))
	return err
}

func writeRun(w io.Writer, format string, run report.Run) error {
	if handled, err := encode(w, format, run); handled {
		return err
	}

	if format == "tsv" {
		for _, p := range run.Probs {
			_, _ = fmt.Fprintf(w, "%s\t%d\t%g\n", p.Event, p.Count, p.Prob)
		}
		_, err := fmt.Fprintf(w, "<unseen>\t0\t%g\n", run.Unseen)
		return err
	}

	var header strings.Builder
	_, _ = fmt.Fprintf(&header, "method %s, order %d, %s bins, %s events in the sample",
		run.Method, run.Order, humanize.Comma(int64(run.Bins)), humanize.Comma(int64(run.SampleSize)))
	if run.ID != "" {
		_, _ = fmt.Fprintf(&header, ", run %s", run.ID)
	}
	_, _ = fmt.Fprintln(w, header.String())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprintln(tw, "event\tcount\tprob\t")
	for _, p := range run.Probs {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%.6f\t\n", p.Event, p.Count, p.Prob)
	}
	_, _ = fmt.Fprintf(tw, "<unseen> x%s\t0\t%.6f\t\n", humanize.Comma(int64(run.UnseenSlots)), run.Unseen)
	return tw.Flush()
}

func writeRuns(w io.Writer, format string, runs []report.Run) error {
	if handled, err := encode(w, format, runs); handled {
		return err
	}

	if format == "tsv" {
		for _, r := range runs {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				r.ID, r.CreatedAt.Format(time.RFC3339), r.Method, r.Order, r.Bins, r.SampleSize, r.Label)
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tCREATED\tMETHOD\tORDER\tBINS\tSAMPLE\tLABEL")
	for _, r := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			r.ID, humanize.Time(r.CreatedAt), r.Method, r.Order,
			humanize.Comma(int64(r.Bins)), humanize.Comma(int64(r.SampleSize)), r.Label)
	}
	return tw.Flush()
}

func writeStats(w io.Writer, format string, stats *report.Stats) error {
	if handled, err := encode(w, format, stats); handled {
		return err
	}

	_, _ = fmt.Fprintf(w, "%s runs, %s archived probabilities\n",
		humanize.Comma(int64(stats.Runs)), humanize.Comma(int64(stats.Probs)))
	methods := make([]string, 0, len(stats.ByMethod))
	for m := range stats.ByMethod {
		methods = append(methods, m)
	}
	slices.Sort(methods)
	for _, m := range methods {
		_, _ = fmt.Fprintf(w, "  %-16s %s\n", m, humanize.Comma(int64(stats.ByMethod[m])))
	}
	return nil
}
