// Package align stores BLAST-style alignments of phage clone inserts against
// candidate antigens, restricted to clones that are hits in at least one
// sample. The store is read-only after construction.
package align

import (
	"golang.org/x/exp/slices"
	"log"
)

// Record is a single alignment of a phage clone insert against a candidate
// antigen. HitFrom and HitTo are 1-based inclusive subject coordinates.
// QSeq and HSeq are the aligned query and subject strings and may contain
// gap characters.
type Record struct {
	Clone   string
	Antigen string
	HitFrom int
	HitTo   int
	Evalue  float64
	QSeq    string
	HSeq    string
}

// Store holds alignment records for hit clones, indexed by clone.
type Store struct {
	records []Record
	byClone map[string][]int
}

// NewStore filters recs to clones present in hitClones and builds a Store.
// Records with evalue above maxEvalue are excluded when maxEvalue > 0. When
// maxAlignmentsPerClone > 0, only the lowest-evalue alignments of each clone
// are kept. A record with HitTo < HitFrom is a fatal input error.
func NewStore(recs []Record, hitClones map[string]bool, maxEvalue float64, maxAlignmentsPerClone int) *Store {
	s := &Store{byClone: make(map[string][]int)}
	for i := range recs {
		if recs[i].HitTo < recs[i].HitFrom {
			log.Fatalf("malformed alignment for clone %s on %s: hit_from %d > hit_to %d\n",
				recs[i].Clone, recs[i].Antigen, recs[i].HitFrom, recs[i].HitTo)
		}
		if !hitClones[recs[i].Clone] {
			continue
		}
		if maxEvalue > 0 && recs[i].Evalue > maxEvalue {
			continue
		}
		s.records = append(s.records, recs[i])
	}
	if maxAlignmentsPerClone > 0 {
		s.capPerClone(maxAlignmentsPerClone)
	}
	for i := range s.records {
		s.byClone[s.records[i].Clone] = append(s.byClone[s.records[i].Clone], i)
	}
	return s
}

// capPerClone keeps only the n lowest-evalue records per clone, preserving
// the original record order among the survivors.
func (s *Store) capPerClone(n int) {
	idxByClone := make(map[string][]int)
	for i := range s.records {
		idxByClone[s.records[i].Clone] = append(idxByClone[s.records[i].Clone], i)
	}
	keep := make(map[int]bool)
	for _, idx := range idxByClone {
		slices.SortStableFunc(idx, func(a, b int) int {
			switch {
			case s.records[a].Evalue < s.records[b].Evalue:
				return -1
			case s.records[a].Evalue > s.records[b].Evalue:
				return 1
			default:
				return 0
			}
		})
		if len(idx) > n {
			idx = idx[:n]
		}
		for _, i := range idx {
			keep[i] = true
		}
	}
	var kept []Record
	for i := range s.records {
		if keep[i] {
			kept = append(kept, s.records[i])
		}
	}
	s.records = kept
}

// Records returns all stored records. The returned slice must not be
// modified.
func (s *Store) Records() []Record {
	return s.records
}

// Clones returns the sorted set of clones with at least one stored record.
func (s *Store) Clones() []string {
	var ans []string
	for clone := range s.byClone {
		ans = append(ans, clone)
	}
	slices.Sort(ans)
	return ans
}

// CloneAntigens maps each clone to the antigens it aligns to, ordered by
// best evalue first and deduplicated.
func (s *Store) CloneAntigens() map[string][]string {
	ans := make(map[string][]string)
	for clone, idx := range s.byClone {
		order := make([]int, len(idx))
		copy(order, idx)
		slices.SortStableFunc(order, func(a, b int) int {
			switch {
			case s.records[a].Evalue < s.records[b].Evalue:
				return -1
			case s.records[a].Evalue > s.records[b].Evalue:
				return 1
			default:
				return 0
			}
		})
		seen := make(map[string]bool)
		var antigens []string
		for _, i := range order {
			if seen[s.records[i].Antigen] {
				continue
			}
			seen[s.records[i].Antigen] = true
			antigens = append(antigens, s.records[i].Antigen)
		}
		ans[clone] = antigens
	}
	return ans
}

// Select returns the records whose clone is in clones and whose target is
// antigen, in stored order.
func (s *Store) Select(clones map[string]bool, antigen string) []Record {
	var ans []Record
	for i := range s.records {
		if s.records[i].Antigen == antigen && clones[s.records[i].Clone] {
			ans = append(ans, s.records[i])
		}
	}
	return ans
}
