package epitope

import (
	"github.com/dasnellings/phipTools/align"
	"testing"
)

// protein p1 is "MKLVANPQRSTUVWX" reconstructed from the two subject strings.
func testStore() *align.Store {
	recs := []align.Record{
		{Clone: "c1", Antigen: "p1", HitFrom: 1, HitTo: 10, Evalue: 1e-20,
			QSeq: "MKLVANPQRS", HSeq: "MKLVANPQRS"},
		{Clone: "c2", Antigen: "p1", HitFrom: 6, HitTo: 15, Evalue: 1e-18,
			QSeq: "NPQRSTUVWX", HSeq: "NPQRSTUVWX"},
		{Clone: "c1", Antigen: "p2", HitFrom: 1, HitTo: 10, Evalue: 1e-5,
			QSeq: "MKLVANPQRS", HSeq: "MKLVANPQRS"},
	}
	hits := map[string]bool{"c1": true, "c2": true, "c3": true}
	return align.NewStore(recs, hits, 0, 0)
}

func TestCallAntigens(t *testing.T) {
	store := testStore()
	// c3 is a hit with no alignment and is dropped with a diagnostic.
	sampleToClones := map[string][]string{"s1": {"c1", "c2", "c3"}}

	calls := CallAntigens(store, sampleToClones, DefaultOptions())
	if len(calls) != 1 {
		t.Fatal("expected one call, got", len(calls))
	}
	c := calls[0]
	if c.SampleID != "s1" || c.Antigen != "p1" {
		t.Error("wrong call identity", c.SampleID, c.Antigen)
	}
	if c.Start != 5 || c.End != 10 {
		t.Error("wrong called region", c.Start, c.End)
	}
	if c.CloneConsensus != "NPQRS" {
		t.Error("wrong consensus", c.CloneConsensus)
	}
	if c.AntigenSequence != "NPQRS" {
		t.Error("wrong antigen subsequence", c.AntigenSequence)
	}
	if !c.MatchesConsensus {
		t.Error("consensus must match the antigen subsequence")
	}
	if c.Priority != 1 || c.NumClones != 2 {
		t.Error("wrong priority or clone count", c.Priority, c.NumClones)
	}
}

func TestCallAntigensMinClones(t *testing.T) {
	store := testStore()
	// p2 is supported by a single clone and must never be called with the
	// default threshold of 2.
	calls := CallAntigens(store, map[string][]string{"s1": {"c1", "c2"}}, DefaultOptions())
	for i := range calls {
		if calls[i].Antigen == "p2" {
			t.Error("p2 lacks enough supporting clones to be called")
		}
	}
}

func TestCallAntigensDeterministicAcrossThreads(t *testing.T) {
	store := testStore()
	sampleToClones := map[string][]string{
		"s1": {"c1", "c2"},
		"s2": {"c1", "c2"},
	}
	single := DefaultOptions()
	multi := DefaultOptions()
	multi.Threads = 4

	a := CallAntigens(store, sampleToClones, single)
	b := CallAntigens(store, sampleToClones, multi)
	if len(a) != len(b) {
		t.Fatal("thread count changed the number of calls", len(a), len(b))
	}
	for i := range a {
		if a[i].SampleID != b[i].SampleID || a[i].Antigen != b[i].Antigen ||
			a[i].Start != b[i].Start || a[i].End != b[i].End || a[i].Priority != b[i].Priority {
			t.Error("thread count changed call order or content", a[i], b[i])
		}
	}
}

func TestCallAntigensMaxSamples(t *testing.T) {
	store := testStore()
	sampleToClones := map[string][]string{
		"s1": {"c1", "c2"},
		"s2": {"c1", "c2"},
	}
	opts := DefaultOptions()
	opts.MaxSamples = 1
	calls := CallAntigens(store, sampleToClones, opts)
	for i := range calls {
		if calls[i].SampleID != "s1" {
			t.Error("max samples must keep the first sorted sample only", calls[i].SampleID)
		}
	}
	if len(calls) == 0 {
		t.Error("expected calls for the first sample")
	}
}

func TestCallAntigensEmptyInput(t *testing.T) {
	store := align.NewStore(nil, map[string]bool{}, 0, 0)
	if calls := CallAntigens(store, nil, DefaultOptions()); len(calls) != 0 {
		t.Error("empty input must yield an empty call table", calls)
	}
}
