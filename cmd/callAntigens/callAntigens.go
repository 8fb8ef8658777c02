package main

import (
	"flag"
	"fmt"
	"github.com/dasnellings/phipTools/antigens"
	"github.com/dasnellings/phipTools/epitope"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
)

func usage() {
	fmt.Print(
		"callAntigens - Identify epitopes in proteins targeted by PhIP-seq hit clones.\n" +
			"Processes each sample and antigen independently, calling maximally covered\n" +
			"regions of overlapping clone alignments, then annotates antigens whose clone\n" +
			"support is redundant with better-supported antigens.\n\n" +
			"options:\n")
	flag.PrintDefaults()
}

func main() {
	blast := flag.String("blast", "", "Blast results csv of clones aligned against a proteome reference. Required columns: clone, title, hit_from, hit_to, evalue, qseq, hseq.")
	hits := flag.String("hits", "", "Hits csv from upstream hit calling. Required columns: sample_id, clone1, clone2.")
	output := flag.String("o", "stdout", "Output csv of antigen calls.")
	minClonesPerAntigen := flag.Int("minClonesPerAntigen", 2, "Process only antigens with at least INT hit clones.")
	threshold := flag.Float64("threshold", epitope.DefaultThreshold, "Fraction of clone subsequences that must agree at a position to enter the consensus.")
	maxEvalue := flag.Float64("maxEvalue", 0, "Process only alignments with evalue <= FLOAT. Set to 0 for no filter.")
	maxAlignmentsPerClone := flag.Int("maxAlignmentsPerClone", 0, "Consider at most INT alignments per clone, keeping the lowest evalues. Set to 0 for no limit.")
	maxSamples := flag.Int("maxSamples", 0, "Process only the first INT samples in sorted order. For debugging. Set to 0 for no limit.")
	threads := flag.Int("threads", 1, "Number of worker threads for per-sample, per-antigen calling.")
	verbose := flag.Int("verbose", 0, "Level of verbosity in log. At 2 or greater, prints a terminal coverage plot per non-redundant antigen.")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")
	flag.Parse()
	flag.Usage = usage

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if *blast == "" || *hits == "" {
		usage()
		log.Fatalln("ERROR: must input blast results (-blast) and hits (-hits)")
	}
	if *threads < 1 {
		usage()
		log.Fatalln("ERROR: threads must be >= 1")
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
			log.Fatal("could not create memory profile: ", err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}
