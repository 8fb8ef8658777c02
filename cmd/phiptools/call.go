package main

import (
	"flag"
	"fmt"
	"github.com/dasnellings/phipTools/antigens"
	"github.com/dasnellings/phipTools/epitope"
	"github.com/vertgenlab/gonomics/exception"
	"os"
	"runtime"
	"runtime/pprof"
)

func callUsage(callFlags *flag.FlagSet) {
	fmt.Print(
		"call - call antigen epitopes from blast alignments and hit clones\n\n" +
			"Usage:\n" +
			"  phiptools call [options] -blast blast.csv -hits hits.csv -o antigens.csv\n\n" +
			"Options:\n")
	callFlags.PrintDefaults()
}

func runCall(args []string) {
	var err error
	callFlags := flag.NewFlagSet("call", flag.ExitOnError)

	cpuprofile := callFlags.String("cpuprofile", "", "write cpu profile")
	memprofile := callFlags.String("memprofile", "", "write memory profile")
	blast := callFlags.String("blast", "", "Blast results csv of clones aligned against a proteome reference. Required columns: clone, title, hit_from, hit_to, evalue, qseq, hseq.")
	hits := callFlags.String("hits", "", "Hits csv from upstream hit calling. Required columns: sample_id, clone1, clone2.")
	output := callFlags.String("o", "stdout", "Output csv of antigen calls.")
	minClonesPerAntigen := callFlags.Int("minClonesPerAntigen", 2, "Process only antigens with at least INT hit clones.")
	threshold := callFlags.Float64("threshold", epitope.DefaultThreshold, "Fraction of clone subsequences that must agree at a position to enter the consensus.")
	maxEvalue := callFlags.Float64("maxEvalue", 0, "Process only alignments with evalue <= FLOAT. Set to 0 for no filter.")
	maxAlignmentsPerClone := callFlags.Int("maxAlignmentsPerClone", 0, "Consider at most INT alignments per clone, keeping the lowest evalues. Set to 0 for no limit.")
	maxSamples := callFlags.Int("maxSamples", 0, "Process only the first INT samples in sorted order. For debugging. Set to 0 for no limit.")
	threads := callFlags.Int("threads", 1, "Number of worker threads for per-sample, per-antigen calling.")
	verbose := callFlags.Int("verbose", 0, "Level of verbosity in log. At 2 or greater, prints a terminal coverage plot per non-redundant antigen.")

	err = callFlags.Parse(args)
	exception.PanicOnErr(err)
	callFlags.Usage = func() { callUsage(callFlags) }

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			errExit(err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			errExit(err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	if *blast == "" || *hits == "" {
		callFlags.Usage()
		errExit("\nERROR: must specify blast results (-blast) and hits (-hits)")
	}
	if *threads < 1 {
		callFlags.Usage()
		errExit("\nERROR: threads must be >= 1")
	}

	opts := epitope.Options{
		MinClonesPerAntigen: *minClonesPerAntigen,
		Threshold:           *threshold,
		MaxSamples:          *maxSamples,
		Threads:             *threads,
		Verbose:             *verbose,
	}
	antigens.Call(*blast, *hits, *output, *maxEvalue, *maxAlignmentsPerClone, opts)

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			errExit(err.Error())
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			errExit(err.Error())
		}
	}
}
