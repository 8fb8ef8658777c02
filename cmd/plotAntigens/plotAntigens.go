package main

import (
	"flag"
	"fmt"
	"github.com/dasnellings/phipTools/antigens"
	"log"
)

func usage() {
	fmt.Print(
		"plotAntigens - Plot coverage profiles for called antigens.\n" +
			"Renders one figure per antigen showing per-sample clone coverage weight\n" +
			"with called epitope regions marked along the baseline.\n\n" +
			"options:\n")
	flag.PrintDefaults()
}

func main() {
	blast := flag.String("blast", "", "Blast results csv of clones aligned against a proteome reference. Required columns: clone, title, hit_from, hit_to, evalue, qseq, hseq.")
	hits := flag.String("hits", "", "Hits csv from upstream hit calling. Required columns: sample_id, clone1, clone2.")
	calls := flag.String("calls", "", "Antigen calls csv from callAntigens.")
	outDir := flag.String("outDir", ".", "Output directory for figures and the antigens.csv summary.")
	minSamples := flag.Int("minSamples", 0, "Plot only antigens called in at least INT samples. Set to 0 for no filter.")
	maxAntigens := flag.Int("maxAntigens", 0, "Plot only the first INT antigens in sorted order. For debugging. Set to 0 for no limit.")
	includeRedundant := flag.Bool("includeRedundant", false, "Include redundant antigens.")
	verbose := flag.Int("verbose", 0, "Level of verbosity in log.")
	flag.Parse()
	flag.Usage = usage

	if *blast == "" || *hits == "" || *calls == "" {
		usage()
		log.Fatalln("ERROR: must input blast results (-blast), hits (-hits), and antigen calls (-calls)")
	}

	antigens.Plot(*blast, *hits, *calls, *outDir, *minSamples, *maxAntigens, *includeRedundant, *verbose)
}
