// Package epitope calls epitope regions within antigens from overlapping hit
// clone alignments, builds consensus sequences for the called regions, and
// annotates antigens whose clone support is redundant with other antigens.
package epitope

import (
	"github.com/dasnellings/phipTools/align"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"log"
	"sort"
)

// Region is one called epitope interval from a single (sample, antigen)
// resolution pass. Start and End are half-open zero-based coordinates on the
// antigen. Weight is the total clone coverage weight over the interval.
// Clones are deduplicated in first-appearance order. Subseqs holds the query
// subsequence of each contributing alignment clipped to [Start, End), one
// entry per alignment rather than per clone.
type Region struct {
	Start    int
	End      int
	Priority int
	Weight   float64
	Clones   []string
	Subseqs  []string
}

// event marks the start or end of one alignment on the antigen coordinate
// axis. Start events carry +weight at HitFrom-1, end events -weight at HitTo.
type event struct {
	rec   int
	pos   int
	value float64
}

// Resolve calls epitope regions for the alignments of one (sample, antigen)
// pair by iterative weighted interval peeling. Each clone contributes a total
// weight of 1 split evenly across its alignments, so multi-mapping clones do
// not inflate coverage. Every iteration emits all position ranges achieving
// the current maximum cumulative coverage weight (ties share a priority,
// ascending start order), removes the contributing alignments, and repeats
// until no alignments remain. Priorities start at 1.
func Resolve(recs []align.Record) []Region {
	if len(recs) == 0 {
		return nil
	}

	cloneAlignments := make(map[string]int)
	for i := range recs {
		cloneAlignments[recs[i].Clone]++
	}

	events := make([]event, 0, len(recs)*2)
	for i := range recs {
		if recs[i].HitTo < recs[i].HitFrom {
			log.Fatalf("malformed alignment for clone %s on %s: hit_from %d > hit_to %d\n",
				recs[i].Clone, recs[i].Antigen, recs[i].HitFrom, recs[i].HitTo)
		}
		w := 1 / float64(cloneAlignments[recs[i].Clone])
		events = append(events, event{rec: i, pos: recs[i].HitFrom - 1, value: w})
		events = append(events, event{rec: i, pos: recs[i].HitTo, value: -w})
	}
	sort.SliceStable(events, func(a, b int) bool {
		return events[a].pos < events[b].pos
	})

	var regions []Region
	priority := 1
	for len(events) > 0 {
		vals := make([]float64, len(events))
		for i := range events {
			vals[i] = events[i].value
		}
		cum := make([]float64, len(events))
		floats.CumSum(cum, vals)
		max := floats.Max(cum)

		consumed := make(map[int]bool)
		for i := range cum {
			if cum[i] != max {
				continue
			}
			// A maximum is always followed by at least the final
			// closing event, so i+1 is in range.
			start := events[i].pos
			end := events[i+1].pos

			// Alignments with positive net contribution through
			// this boundary are still open and support the region.
			net := make(map[int]float64)
			for j := 0; j <= i; j++ {
				net[events[j].rec] += events[j].value
			}
			var contributors []int
			for rec, v := range net {
				if v > 0 {
					contributors = append(contributors, rec)
				}
			}
			slices.Sort(contributors)

			var reg Region
			reg.Start = start
			reg.End = end
			reg.Priority = priority
			reg.Weight = max
			seenClone := make(map[string]bool)
			for _, ri := range contributors {
				if !seenClone[recs[ri].Clone] {
					seenClone[recs[ri].Clone] = true
					reg.Clones = append(reg.Clones, recs[ri].Clone)
				}
				reg.Subseqs = append(reg.Subseqs, clip(recs[ri].QSeq, start-(recs[ri].HitFrom-1), end-start))
				consumed[ri] = true
			}
			regions = append(regions, reg)
		}

		kept := events[:0]
		for _, e := range events {
			if !consumed[e.rec] {
				kept = append(kept, e)
			}
		}
		events = kept
		priority++
	}
	return regions
}

// clip returns up to n bytes of s starting at from, tolerating ranges that
// run past either end of s.
func clip(s string, from, n int) string {
	if from < 0 {
		n += from
		from = 0
	}
	if from >= len(s) || n <= 0 {
		return ""
	}
	if from+n > len(s) {
		n = len(s) - from
	}
	return s[from : from+n]
}

// CoverageProfile returns the per-position clone coverage weight over the
// antigen for a set of alignments, using the same fractional weighting as
// Resolve. The profile length is the largest HitTo among the records.
func CoverageProfile(recs []align.Record) []float64 {
	cloneAlignments := make(map[string]int)
	var length int
	for i := range recs {
		cloneAlignments[recs[i].Clone]++
		if recs[i].HitTo > length {
			length = recs[i].HitTo
		}
	}
	profile := make([]float64, length)
	for i := range recs {
		w := 1 / float64(cloneAlignments[recs[i].Clone])
		for p := recs[i].HitFrom - 1; p < recs[i].HitTo; p++ {
			profile[p] += w
		}
	}
	return profile
}
