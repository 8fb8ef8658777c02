package epitope

import "testing"

func TestAnnotateRedundant(t *testing.T) {
	// p1 explains {a,b,c,d} and is processed first; p2's clones are all
	// already seen so it adds nothing new and is redundant.
	calls := []Call{
		{SampleID: "s1", Antigen: "p1", Clones: []string{"a", "b"}},
		{SampleID: "s2", Antigen: "p1", Clones: []string{"c", "d"}},
		{SampleID: "s1", Antigen: "p2", Clones: []string{"a", "b", "c"}},
	}
	infos := AnnotateRedundant(calls, 2)
	if len(infos) != 2 {
		t.Fatal("expected two antigens, got", len(infos))
	}
	if infos[0].Antigen != "p1" || infos[0].NumClones != 4 || infos[0].Redundant {
		t.Error("p1 must be processed first and kept", infos[0])
	}
	if infos[1].Antigen != "p2" || infos[1].NumClones != 3 || !infos[1].Redundant {
		t.Error("p2 must be marked redundant", infos[1])
	}
	for i := range calls {
		if calls[i].Redundant != (calls[i].Antigen == "p2") {
			t.Error("redundant flag not propagated to call", calls[i])
		}
	}
}

func TestAnnotateRedundantDisjointSupport(t *testing.T) {
	calls := []Call{
		{SampleID: "s1", Antigen: "p1", Clones: []string{"a", "b"}},
		{SampleID: "s1", Antigen: "p2", Clones: []string{"c", "d"}},
		{SampleID: "s1", Antigen: "p3", Clones: []string{"a", "c"}},
	}
	infos := AnnotateRedundant(calls, 2)
	// Equal support sizes break ties by antigen identifier.
	if infos[0].Antigen != "p1" || infos[1].Antigen != "p2" || infos[2].Antigen != "p3" {
		t.Error("wrong processing order", infos[0].Antigen, infos[1].Antigen, infos[2].Antigen)
	}
	if infos[0].Redundant || infos[1].Redundant {
		t.Error("antigens with disjoint support must both be kept")
	}
	if !infos[2].Redundant {
		t.Error("p3 adds no new clones and must be redundant")
	}
}

func TestAnnotateRedundantKeepsNovelClonesOfRedundantAntigens(t *testing.T) {
	// p2 is redundant, so its novel clone e must not enter the seen set;
	// p3 then contributes {e,f} and stays non-redundant.
	calls := []Call{
		{SampleID: "s1", Antigen: "p1", Clones: []string{"a", "b", "c"}},
		{SampleID: "s1", Antigen: "p2", Clones: []string{"c", "e"}},
		{SampleID: "s1", Antigen: "p3", Clones: []string{"e", "f"}},
	}
	infos := AnnotateRedundant(calls, 2)
	if infos[0].Antigen != "p1" || infos[0].Redundant {
		t.Error("p1 must be kept", infos[0])
	}
	if infos[1].Antigen != "p2" || !infos[1].Redundant {
		t.Error("p2 adds only one new clone and must be redundant", infos[1])
	}
	if infos[2].Antigen != "p3" || infos[2].Redundant {
		t.Error("p3 adds two clones unexplained by kept antigens and must not be redundant", infos[2])
	}
}

func TestAnnotateRedundantEmpty(t *testing.T) {
	if infos := AnnotateRedundant(nil, 2); len(infos) != 0 {
		t.Error("no calls must yield no support infos", infos)
	}
}
