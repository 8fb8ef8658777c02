// Package antigens ties together alignment input, epitope calling, redundancy
// annotation, and plotting for PhIP-seq antigen identification.
package antigens

import (
	"encoding/csv"
	"fmt"
	"github.com/dasnellings/phipTools/align"
	"github.com/dasnellings/phipTools/epitope"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"io"
	"log"
	"strconv"
	"strings"
)

func cleanup(f io.Closer) {
	err := f.Close()
	exception.PanicOnErr(err)
}

// callColumns is the output header of the antigen call table.
var callColumns = []string{
	"sample_id",
	"antigen",
	"start_position",
	"end_position",
	"clone_consensus",
	"antigen_sequence",
	"antigen_matches_consensus",
	"priority_within_antigen",
	"num_clones",
	"clones",
	"redundant",
}

// parseCsvLine splits one csv record, honoring quoted fields.
func parseCsvLine(line string) []string {
	fields, err := csv.NewReader(strings.NewReader(line)).Read()
	exception.PanicOnErr(err)
	return fields
}

// columnIndex maps column names to their positions in the header line.
// Missing required columns are fatal.
func columnIndex(file string, header []string, required ...string) map[string]int {
	idx := make(map[string]int, len(header))
	for i := range header {
		idx[header[i]] = i
	}
	for _, name := range required {
		if _, found := idx[name]; !found {
			log.Fatalf("ERROR: %s is missing required column %q\n", file, name)
		}
	}
	return idx
}

func parseInt(file, s string) int {
	ans, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("ERROR: could not convert %q to an integer in %s\n", s, file)
	}
	return ans
}

func parseFloat(file, s string) float64 {
	ans, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Fatalf("ERROR: could not convert %q to a number in %s\n", s, file)
	}
	return ans
}

// validCloneID reports whether a clone identifier can round-trip through the
// space-separated clones column of the call table.
func validCloneID(s string) bool {
	return s != "" && !strings.ContainsAny(s, " \t")
}

func checkCloneID(file, s string) string {
	if !validCloneID(s) {
		log.Fatalf("ERROR: invalid clone identifier %q in %s: clone identifiers must be non-empty and contain no whitespace\n", s, file)
	}
	return s
}

func parseBool(file, s string) bool {
	ans, err := strconv.ParseBool(strings.ToLower(s))
	if err != nil {
		log.Fatalf("ERROR: could not convert %q to a bool in %s\n", s, file)
	}
	return ans
}

// ReadBlast reads a csv of blast alignments of phage clones against a
// proteome reference. Columns are located by name; clone, title, hit_from,
// hit_to, evalue, qseq, and hseq are required, extra columns are ignored.
func ReadBlast(file string) []align.Record {
	in := fileio.EasyOpen(file)
	defer cleanup(in)

	line, done := fileio.EasyNextRealLine(in)
	if done {
		log.Fatalf("ERROR: %s is empty\n", file)
	}
	idx := columnIndex(file, parseCsvLine(line),
		"clone", "title", "hit_from", "hit_to", "evalue", "qseq", "hseq")

	var recs []align.Record
	var fields []string
	for line, done = fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		fields = parseCsvLine(line)
		recs = append(recs, align.Record{
			Clone:   checkCloneID(file, fields[idx["clone"]]),
			Antigen: fields[idx["title"]],
			HitFrom: parseInt(file, fields[idx["hit_from"]]),
			HitTo:   parseInt(file, fields[idx["hit_to"]]),
			Evalue:  parseFloat(file, fields[idx["evalue"]]),
			QSeq:    fields[idx["qseq"]],
			HSeq:    fields[idx["hseq"]],
		})
	}
	return recs
}

// ReadHits reads the hits csv produced by upstream hit calling and returns
// each sample's hit clones. Every row contributes both members of its clone
// pair; duplicates are removed.
func ReadHits(file string) map[string][]string {
	in := fileio.EasyOpen(file)
	defer cleanup(in)

	line, done := fileio.EasyNextRealLine(in)
	if done {
		log.Fatalf("ERROR: %s is empty\n", file)
	}
	idx := columnIndex(file, parseCsvLine(line), "sample_id", "clone1", "clone2")

	seen := make(map[string]map[string]bool)
	var fields []string
	for line, done = fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		fields = parseCsvLine(line)
		sampleID := fields[idx["sample_id"]]
		if seen[sampleID] == nil {
			seen[sampleID] = make(map[string]bool)
		}
		seen[sampleID][checkCloneID(file, fields[idx["clone1"]])] = true
		seen[sampleID][checkCloneID(file, fields[idx["clone2"]])] = true
	}

	ans := make(map[string][]string, len(seen))
	for sampleID, clones := range seen {
		for clone := range clones {
			ans[sampleID] = append(ans[sampleID], clone)
		}
	}
	return ans
}

// HitClones returns the union of hit clones over all samples as a set.
func HitClones(sampleToClones map[string][]string) map[string]bool {
	ans := make(map[string]bool)
	for _, clones := range sampleToClones {
		for _, clone := range clones {
			ans[clone] = true
		}
	}
	return ans
}

// WriteCalls writes the antigen call table as csv. The clones column is
// space-separated, which the readers guarantee is unambiguous by rejecting
// clone identifiers containing whitespace.
func WriteCalls(file string, calls []epitope.Call) {
	out := fileio.EasyCreate(file)
	defer cleanup(out)

	w := csv.NewWriter(out)
	err := w.Write(callColumns)
	exception.PanicOnErr(err)
	for i := range calls {
		err = w.Write([]string{
			calls[i].SampleID,
			calls[i].Antigen,
			fmt.Sprint(calls[i].Start),
			fmt.Sprint(calls[i].End),
			calls[i].CloneConsensus,
			calls[i].AntigenSequence,
			strconv.FormatBool(calls[i].MatchesConsensus),
			fmt.Sprint(calls[i].Priority),
			fmt.Sprint(calls[i].NumClones),
			strings.Join(calls[i].Clones, " "),
			strconv.FormatBool(calls[i].Redundant),
		})
		exception.PanicOnErr(err)
	}
	w.Flush()
	exception.PanicOnErr(w.Error())
}

// ReadCalls reads a call table written by WriteCalls.
func ReadCalls(file string) []epitope.Call {
	in := fileio.EasyOpen(file)
	defer cleanup(in)

	line, done := fileio.EasyNextRealLine(in)
	if done {
		log.Fatalf("ERROR: %s is empty\n", file)
	}
	idx := columnIndex(file, parseCsvLine(line), callColumns...)

	var calls []epitope.Call
	var fields []string
	for line, done = fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		fields = parseCsvLine(line)
		calls = append(calls, epitope.Call{
			SampleID:         fields[idx["sample_id"]],
			Antigen:          fields[idx["antigen"]],
			Start:            parseInt(file, fields[idx["start_position"]]),
			End:              parseInt(file, fields[idx["end_position"]]),
			CloneConsensus:   fields[idx["clone_consensus"]],
			AntigenSequence:  fields[idx["antigen_sequence"]],
			MatchesConsensus: parseBool(file, fields[idx["antigen_matches_consensus"]]),
			Priority:         parseInt(file, fields[idx["priority_within_antigen"]]),
			NumClones:        parseInt(file, fields[idx["num_clones"]]),
			Clones:           strings.Fields(fields[idx["clones"]]),
			Redundant:        parseBool(file, fields[idx["redundant"]]),
		})
	}
	return calls
}
