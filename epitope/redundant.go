package epitope

import (
	"golang.org/x/exp/slices"
	"strings"
)

// SupportInfo summarizes the clone support of one antigen across all samples.
type SupportInfo struct {
	Antigen   string
	Clones    []string // union of supporting clones over every call, sorted
	NumClones int
	Redundant bool
}

// AnnotateRedundant marks antigens whose clone support is redundant with
// better-supported antigens, a common artifact of near-duplicate paralogs in
// the proteome reference. Antigens are processed in order of decreasing total
// clone support (ties by antigen identifier); an antigen contributing fewer
// than minClonesPerAntigen clones beyond those already seen is redundant.
// Only non-redundant antigens extend the seen set, so the novel-but-
// insufficient clones of a redundant antigen stay available as evidence for
// antigens processed later. The flag is written back onto every call and the
// per-antigen support is returned in processing order.
func AnnotateRedundant(calls []Call, minClonesPerAntigen int) []SupportInfo {
	antigenClones := make(map[string]map[string]bool)
	for i := range calls {
		set, found := antigenClones[calls[i].Antigen]
		if !found {
			set = make(map[string]bool)
			antigenClones[calls[i].Antigen] = set
		}
		for _, clone := range calls[i].Clones {
			set[clone] = true
		}
	}

	infos := make([]SupportInfo, 0, len(antigenClones))
	for antigen, set := range antigenClones {
		var clones []string
		for clone := range set {
			clones = append(clones, clone)
		}
		slices.Sort(clones)
		infos = append(infos, SupportInfo{Antigen: antigen, Clones: clones, NumClones: len(clones)})
	}
	slices.SortFunc(infos, func(a, b SupportInfo) int {
		if a.NumClones != b.NumClones {
			return b.NumClones - a.NumClones
		}
		return strings.Compare(a.Antigen, b.Antigen)
	})

	seen := make(map[string]bool)
	redundant := make(map[string]bool)
	for i := range infos {
		var newClones int
		for _, clone := range infos[i].Clones {
			if !seen[clone] {
				newClones++
			}
		}
		infos[i].Redundant = newClones < minClonesPerAntigen
		redundant[infos[i].Antigen] = infos[i].Redundant
		if !infos[i].Redundant {
			for _, clone := range infos[i].Clones {
				seen[clone] = true
			}
		}
	}

	for i := range calls {
		calls[i].Redundant = redundant[calls[i].Antigen]
	}
	return infos
}
