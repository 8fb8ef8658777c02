package antigens

import (
	"fmt"
	"github.com/dasnellings/phipTools/align"
	"github.com/dasnellings/phipTools/epitope"
	"github.com/guptarohit/asciigraph"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
	"log"
	"strings"
)

// Call runs the full antigen calling pipeline: read blast alignments and hit
// clones, call epitopes per sample and antigen, annotate redundant antigens,
// and write the call table. Records with evalue above maxEvalue are excluded
// when maxEvalue > 0; when maxAlignmentsPerClone > 0 only the lowest-evalue
// alignments per clone are considered.
func Call(blastFile, hitsFile, outFile string, maxEvalue float64, maxAlignmentsPerClone int, opts epitope.Options) {
	if opts.Verbose > 0 {
		log.Println("reading blast alignments")
	}
	recs := ReadBlast(blastFile)
	if opts.Verbose > 0 {
		log.Printf("read %d alignments from %s\n", len(recs), blastFile)
	}

	sampleToClones := ReadHits(hitsFile)
	hitClones := HitClones(sampleToClones)
	if opts.Verbose > 0 {
		log.Printf("read hits for %d samples (%d unique clones) from %s\n",
			len(sampleToClones), len(hitClones), hitsFile)
	}

	store := align.NewStore(recs, hitClones, maxEvalue, maxAlignmentsPerClone)
	if len(store.Records()) == 0 {
		log.Println("no alignments for hit clones, consider increasing the FDR in upstream hit calling")
	}

	calls := epitope.CallAntigens(store, sampleToClones, opts)

	infos := epitope.AnnotateRedundant(calls, opts.MinClonesPerAntigen)
	if len(infos) > 0 {
		indicator := make([]float64, len(infos))
		var numRedundant int
		for i := range infos {
			if infos[i].Redundant {
				indicator[i] = 1
				numRedundant++
			}
		}
		log.Printf("labeled %d of %d antigens (%.2f%%) as redundant\n",
			numRedundant, len(infos), stat.Mean(indicator, nil)*100)
	}

	if opts.Verbose > 1 {
		printCoverageProfiles(store, hitClones, infos)
	}

	WriteCalls(outFile, calls)
	log.Printf("wrote %d calls to %s\n", len(calls), outFile)
}

// printCoverageProfiles renders a terminal coverage plot per non-redundant
// antigen, pooling hit clones over all samples.
func printCoverageProfiles(store *align.Store, hitClones map[string]bool, infos []epitope.SupportInfo) {
	sorted := make([]epitope.SupportInfo, len(infos))
	copy(sorted, infos)
	slices.SortFunc(sorted, func(a, b epitope.SupportInfo) int {
		return strings.Compare(a.Antigen, b.Antigen)
	})
	for _, info := range sorted {
		if info.Redundant {
			continue
		}
		profile := epitope.CoverageProfile(store.Select(hitClones, info.Antigen))
		fmt.Printf("%s (%d clones)\n", info.Antigen, info.NumClones)
		fmt.Println(asciigraph.Plot(profile, asciigraph.Height(5), asciigraph.Precision(1)))
	}
}
