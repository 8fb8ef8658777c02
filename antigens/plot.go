package antigens

import (
	"encoding/csv"
	"fmt"
	"github.com/dasnellings/phipTools/align"
	"github.com/dasnellings/phipTools/epitope"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"golang.org/x/exp/slices"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"log"
	"path/filepath"
)

// Plot renders one coverage figure per called antigen into outDir, plus an
// antigens.csv mapping each antigen to its figure file. Redundant antigens
// are skipped unless includeRedundant is set. When minSamples > 0, only
// antigens called in at least that many samples are plotted; when
// maxAntigens > 0, only the first n antigens in sorted order are plotted.
func Plot(blastFile, hitsFile, callsFile, outDir string, minSamples, maxAntigens int, includeRedundant bool, verbose int) {
	calls := ReadCalls(callsFile)
	if verbose > 0 {
		log.Printf("read %d calls from %s\n", len(calls), callsFile)
	}

	if !includeRedundant {
		kept := calls[:0]
		for i := range calls {
			if !calls[i].Redundant {
				kept = append(kept, calls[i])
			}
		}
		calls = kept
	}

	if minSamples > 0 {
		antigenSamples := make(map[string]map[string]bool)
		for i := range calls {
			if antigenSamples[calls[i].Antigen] == nil {
				antigenSamples[calls[i].Antigen] = make(map[string]bool)
			}
			antigenSamples[calls[i].Antigen][calls[i].SampleID] = true
		}
		kept := calls[:0]
		for i := range calls {
			if len(antigenSamples[calls[i].Antigen]) >= minSamples {
				kept = append(kept, calls[i])
			}
		}
		calls = kept
	}

	var antigens []string
	callsByAntigen := make(map[string][]epitope.Call)
	for i := range calls {
		if callsByAntigen[calls[i].Antigen] == nil {
			antigens = append(antigens, calls[i].Antigen)
		}
		callsByAntigen[calls[i].Antigen] = append(callsByAntigen[calls[i].Antigen], calls[i])
	}
	slices.Sort(antigens)
	if maxAntigens > 0 && len(antigens) > maxAntigens {
		antigens = antigens[:maxAntigens]
	}

	sampleToClones := ReadHits(hitsFile)
	store := align.NewStore(ReadBlast(blastFile), HitClones(sampleToClones), 0, 0)

	summary := fileio.EasyCreate(filepath.Join(outDir, "antigens.csv"))
	defer cleanup(summary)
	w := csv.NewWriter(summary)
	err := w.Write([]string{"antigen", "file"})
	exception.PanicOnErr(err)

	for i, antigen := range antigens {
		file := fmt.Sprintf("antigen_%03d.png", i+1)
		plotAntigen(store, sampleToClones, callsByAntigen[antigen], antigen, filepath.Join(outDir, file))
		err = w.Write([]string{antigen, file})
		exception.PanicOnErr(err)
		if verbose > 0 {
			log.Printf("plotted %s to %s\n", antigen, file)
		}
	}
	w.Flush()
	exception.PanicOnErr(w.Error())
}

// plotAntigen draws the per-sample coverage weight profiles of one antigen
// with the called regions as heavy segments along the baseline.
func plotAntigen(store *align.Store, sampleToClones map[string][]string, calls []epitope.Call, antigen, file string) {
	p := plot.New()
	p.Title.Text = antigen
	p.X.Label.Text = "position"
	p.Y.Label.Text = "coverage weight"

	var samples []string
	seen := make(map[string]bool)
	for i := range calls {
		if !seen[calls[i].SampleID] {
			seen[calls[i].SampleID] = true
			samples = append(samples, calls[i].SampleID)
		}
	}
	slices.Sort(samples)

	var args []interface{}
	for _, sample := range samples {
		cloneSet := make(map[string]bool)
		for _, clone := range sampleToClones[sample] {
			cloneSet[clone] = true
		}
		profile := epitope.CoverageProfile(store.Select(cloneSet, antigen))
		xys := make(plotter.XYs, len(profile))
		for i := range profile {
			xys[i].X = float64(i)
			xys[i].Y = profile[i]
		}
		args = append(args, sample, xys)
	}
	err := plotutil.AddLines(p, args...)
	exception.PanicOnErr(err)

	for i := range calls {
		seg, err := plotter.NewLine(plotter.XYs{
			{X: float64(calls[i].Start), Y: 0},
			{X: float64(calls[i].End), Y: 0},
		})
		exception.PanicOnErr(err)
		seg.Width = vg.Points(3)
		p.Add(seg)
	}

	err = p.Save(25*vg.Centimeter, 10*vg.Centimeter, file)
	exception.PanicOnErr(err)
}
