package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/model"
)

// DefaultFanoutLimit bounds the concurrent month resolutions of one request.
const DefaultFanoutLimit = 5

// MonthRef identifies a BS month.
type MonthRef struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Normalize moves a month outside 1..12 into the adjacent year.
func (r MonthRef) Normalize() MonthRef {
	for r.Month < 1 {
		r.Month += 12
		r.Year--
	}
	for r.Month > 12 {
		r.Month -= 12
		r.Year++
	}
	return r
}

// Next returns the following BS month.
func (r MonthRef) Next() MonthRef {
	return MonthRef{Year: r.Year, Month: r.Month + 1}.Normalize()
}

type monthOutcome struct {
	ref   MonthRef
	month model.BsMonth
	err   error
}

// resolveAll resolves every ref concurrently, at most limit at a time.
// Outcomes are returned in ref order; a failing ref never cancels the others.
func resolveAll(ctx context.Context, resolver MonthResolver, refs []MonthRef, limit int) []monthOutcome {
	outcomes := make([]monthOutcome, len(refs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			month, err := resolver.ResolveBsMonth(ctx, ref.Year, ref.Month)
			outcomes[i] = monthOutcome{ref: ref, month: month, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func dedupeRefs(refs []MonthRef) []MonthRef {
	seen := make(map[MonthRef]bool, len(refs))
	out := make([]MonthRef, 0, len(refs))
	for _, r := range refs {
		r = r.Normalize()
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
