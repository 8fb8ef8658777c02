package antigens

import (
	"github.com/dasnellings/phipTools/epitope"
	"os"
	"path/filepath"
	"testing"
)

const testBlastCsv = `clone,title,hit_from,hit_to,evalue,qseq,hseq
c1,"gag polyprotein, fragment",1,10,1e-20,MKLVANPQRS,MKLVANPQRS
c2,"gag polyprotein, fragment",6,15,1e-18,NPQRSTUVWX,NPQRSTUVWX
`

const testHitsCsv = `,sample_id,clone1,clone2
0,s1,c1,c2
`

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestReadBlast(t *testing.T) {
	recs := ReadBlast(writeTestFile(t, "blast.csv", testBlastCsv))
	if len(recs) != 2 {
		t.Fatal("expected 2 records, got", len(recs))
	}
	if recs[0].Clone != "c1" || recs[0].Antigen != "gag polyprotein, fragment" {
		t.Error("wrong first record", recs[0])
	}
	if recs[0].HitFrom != 1 || recs[0].HitTo != 10 || recs[0].Evalue != 1e-20 {
		t.Error("wrong coordinates or evalue", recs[0])
	}
	if recs[1].QSeq != "NPQRSTUVWX" || recs[1].HSeq != "NPQRSTUVWX" {
		t.Error("wrong aligned sequences", recs[1])
	}
}

func TestReadHits(t *testing.T) {
	sampleToClones := ReadHits(writeTestFile(t, "hits.csv", testHitsCsv))
	clones := sampleToClones["s1"]
	if len(clones) != 2 {
		t.Fatal("expected 2 hit clones for s1, got", clones)
	}
	set := HitClones(sampleToClones)
	if !set["c1"] || !set["c2"] {
		t.Error("wrong hit clone union", set)
	}
}

func TestValidCloneID(t *testing.T) {
	if !validCloneID("clone_26581") {
		t.Error("ordinary clone identifiers must be accepted")
	}
	if validCloneID("") {
		t.Error("empty clone identifiers must be rejected")
	}
	if validCloneID("clone 1") || validCloneID("clone\t1") {
		t.Error("clone identifiers with whitespace cannot round-trip the clones column")
	}
}

func TestCallEndToEnd(t *testing.T) {
	blast := writeTestFile(t, "blast.csv", testBlastCsv)
	hits := writeTestFile(t, "hits.csv", testHitsCsv)
	out := filepath.Join(t.TempDir(), "antigens.csv")

	opts := epitope.DefaultOptions()
	Call(blast, hits, out, 0, 0, opts)

	calls := ReadCalls(out)
	if len(calls) != 1 {
		t.Fatal("expected one call, got", len(calls))
	}
	c := calls[0]
	if c.SampleID != "s1" || c.Antigen != "gag polyprotein, fragment" {
		t.Error("wrong call identity", c.SampleID, c.Antigen)
	}
	if c.Start != 5 || c.End != 10 {
		t.Error("wrong called region", c.Start, c.End)
	}
	if c.CloneConsensus != "NPQRS" || c.AntigenSequence != "NPQRS" || !c.MatchesConsensus {
		t.Error("wrong consensus columns", c.CloneConsensus, c.AntigenSequence, c.MatchesConsensus)
	}
	if c.Priority != 1 || c.NumClones != 2 || c.Redundant {
		t.Error("wrong priority, clone count, or redundancy", c.Priority, c.NumClones, c.Redundant)
	}
	if len(c.Clones) != 2 || c.Clones[0] != "c1" || c.Clones[1] != "c2" {
		t.Error("wrong supporting clones", c.Clones)
	}
}
