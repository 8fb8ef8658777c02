package epitope

import (
	"github.com/dasnellings/phipTools/align"
	"golang.org/x/exp/slices"
	"log"
	"strings"
	"sync"
)

// Call is one called epitope for one sample and one antigen. Start and End
// are half-open zero-based coordinates on the antigen. Priority is 1 for the
// best-supported region of the antigen, 2 for the next, etc, with ties
// sharing a value. Redundant is filled in by AnnotateRedundant.
type Call struct {
	SampleID         string
	Antigen          string
	Start            int
	End              int
	CloneConsensus   string
	AntigenSequence  string
	MatchesConsensus bool
	Priority         int
	NumClones        int
	Clones           []string
	Redundant        bool
}

// Options control antigen calling.
type Options struct {
	MinClonesPerAntigen int     // antigens need at least this many supporting hit clones
	Threshold           float64 // consensus agreement fraction
	MaxSamples          int     // process only the first n sorted samples when > 0
	Threads             int     // (sample, antigen) worker count
	Verbose             int
}

// DefaultOptions returns the standard calling parameters.
func DefaultOptions() Options {
	return Options{
		MinClonesPerAntigen: 2,
		Threshold:           DefaultThreshold,
		Threads:             1,
	}
}

type job struct {
	sampleID string
	antigen  string
	clones   map[string]bool
}

// CallAntigens calls epitopes for every sample and every antigen with enough
// supporting hit clones. Hit clones without any alignment are logged and
// skipped. Samples and antigens are independent, so (sample, antigen) pairs
// are distributed over opts.Threads workers; the result is sorted by sample,
// antigen, priority, and start so output does not depend on thread count.
// Empty input yields an empty table.
func CallAntigens(store *align.Store, sampleToClones map[string][]string, opts Options) []Call {
	if opts.Threads < 1 {
		opts.Threads = 1
	}

	var samples []string
	for sampleID := range sampleToClones {
		samples = append(samples, sampleID)
	}
	slices.Sort(samples)
	if opts.MaxSamples > 0 && len(samples) > opts.MaxSamples {
		if opts.Verbose > 0 {
			log.Printf("subselecting to %d samples\n", opts.MaxSamples)
		}
		samples = samples[:opts.MaxSamples]
	}

	cloneAntigens := store.CloneAntigens()
	antigenSequences := store.AntigenSequences()

	var jobs []job
	for _, sampleID := range samples {
		jobs = append(jobs, sampleJobs(sampleID, sampleToClones[sampleID], cloneAntigens, opts)...)
	}

	jobChan := make(chan job, len(jobs))
	for _, j := range jobs {
		jobChan <- j
	}
	close(jobChan)

	callChan := make(chan []Call, len(jobs))
	wg := new(sync.WaitGroup)
	for i := 0; i < opts.Threads; i++ {
		wg.Add(1)
		go func() {
			for j := range jobChan {
				callChan <- analyzeAntigenForSample(store, j, antigenSequences[j.antigen], opts.Threshold)
			}
			wg.Done()
		}()
	}
	wg.Wait()
	close(callChan)

	var calls []Call
	for c := range callChan {
		calls = append(calls, c...)
	}
	slices.SortFunc(calls, compareCalls)
	return calls
}

// sampleJobs determines the antigens eligible for calling in one sample:
// those aligned to by at least MinClonesPerAntigen of the sample's hit
// clones. Hit clones with no alignment at all are dropped with a diagnostic.
func sampleJobs(sampleID string, hitClones []string, cloneAntigens map[string][]string, opts Options) []job {
	clones := make([]string, len(hitClones))
	copy(clones, hitClones)
	slices.Sort(clones)
	clones = slices.Compact(clones)

	var missing []string
	aligned := make(map[string]bool)
	for _, clone := range clones {
		if _, found := cloneAntigens[clone]; !found {
			missing = append(missing, clone)
			continue
		}
		aligned[clone] = true
	}
	if len(missing) > 0 {
		log.Printf("skipping %d unaligned hit clones for %s: %s\n",
			len(missing), sampleID, strings.Join(missing, " "))
	}

	supportingClones := make(map[string]int)
	for clone := range aligned {
		for _, antigen := range cloneAntigens[clone] {
			supportingClones[antigen]++
		}
	}

	var antigens []string
	for antigen, count := range supportingClones {
		if count >= opts.MinClonesPerAntigen {
			antigens = append(antigens, antigen)
		}
	}
	slices.Sort(antigens)

	if opts.Verbose > 0 {
		log.Printf("processing %d antigens (%d clones) for sample %s\n",
			len(antigens), len(aligned), sampleID)
	}

	ans := make([]job, len(antigens))
	for i := range antigens {
		ans[i] = job{sampleID: sampleID, antigen: antigens[i], clones: aligned}
	}
	return ans
}

// analyzeAntigenForSample resolves epitope regions for one (sample, antigen)
// pair and builds one Call per region.
func analyzeAntigenForSample(store *align.Store, j job, sequence string, threshold float64) []Call {
	regions := Resolve(store.Select(j.clones, j.antigen))
	calls := make([]Call, len(regions))
	for i, reg := range regions {
		sub := clip(sequence, reg.Start, reg.End-reg.Start)
		consensus := Consensus(reg.Subseqs, threshold)
		calls[i] = Call{
			SampleID:         j.sampleID,
			Antigen:          j.antigen,
			Start:            reg.Start,
			End:              reg.End,
			CloneConsensus:   consensus,
			AntigenSequence:  sub,
			MatchesConsensus: MatchesPattern(consensus, sub),
			Priority:         reg.Priority,
			NumClones:        len(reg.Clones),
			Clones:           reg.Clones,
		}
	}
	return calls
}

func compareCalls(a, b Call) int {
	switch {
	case a.SampleID != b.SampleID:
		return strings.Compare(a.SampleID, b.SampleID)
	case a.Antigen != b.Antigen:
		return strings.Compare(a.Antigen, b.Antigen)
	case a.Priority != b.Priority:
		return a.Priority - b.Priority
	default:
		return a.Start - b.Start
	}
}
