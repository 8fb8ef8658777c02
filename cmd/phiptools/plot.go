package main

import (
	"flag"
	"fmt"
	"github.com/dasnellings/phipTools/antigens"
	"github.com/vertgenlab/gonomics/exception"
)

func plotUsage(plotFlags *flag.FlagSet) {
	fmt.Print(
		"plot - plot coverage profiles for called antigens\n\n" +
			"Usage:\n" +
			"  phiptools plot [options] -blast blast.csv -hits hits.csv -calls antigens.csv -outDir figures\n\n" +
			"Options:\n")
	plotFlags.PrintDefaults()
}

func runPlot(args []string) {
	var err error
	plotFlags := flag.NewFlagSet("plot", flag.ExitOnError)

	blast := plotFlags.String("blast", "", "Blast results csv of clones aligned against a proteome reference. Required columns: clone, title, hit_from, hit_to, evalue, qseq, hseq.")
	hits := plotFlags.String("hits", "", "Hits csv from upstream hit calling. Required columns: sample_id, clone1, clone2.")
	calls := plotFlags.String("calls", "", "Antigen calls csv from 'phiptools call'.")
	outDir := plotFlags.String("outDir", ".", "Output directory for figures and the antigens.csv summary.")
	minSamples := plotFlags.Int("minSamples", 0, "Plot only antigens called in at least INT samples. Set to 0 for no filter.")
	maxAntigens := plotFlags.Int("maxAntigens", 0, "Plot only the first INT antigens in sorted order. For debugging. Set to 0 for no limit.")
	includeRedundant := plotFlags.Bool("includeRedundant", false, "Include redundant antigens.")
	verbose := plotFlags.Int("verbose", 0, "Level of verbosity in log.")

	err = plotFlags.Parse(args)
	exception.PanicOnErr(err)
	plotFlags.Usage = func() { plotUsage(plotFlags) }

	if *blast == "" || *hits == "" || *calls == "" {
		plotFlags.Usage()
		errExit("\nERROR: must specify blast results (-blast), hits (-hits), and antigen calls (-calls)")
	}

	antigens.Plot(*blast, *hits, *calls, *outDir, *minSamples, *maxAntigens, *includeRedundant, *verbose)
}
