package epitope

import "testing"

func TestConsensus(t *testing.T) {
	seqs := []string{"PEPTIDE", "PEPTIDE", "PEPXIDE"}
	if c := Consensus(seqs, 0.7); c != "PEP.IDE" {
		t.Error("wrong consensus", c)
	}
}

func TestConsensusEarlyTermination(t *testing.T) {
	// Most sequences have terminated at position 3, so emission stops
	// before the longest sequence runs out.
	seqs := []string{"ABCDE", "ABC", "ABC", "ABC"}
	if c := Consensus(seqs, 0.7); c != "ABC" {
		t.Error("wrong consensus", c)
	}
}

func TestConsensusTrailingPlaceholders(t *testing.T) {
	seqs := []string{"ABCDE", "ABC", "ABC"}
	if c := Consensus(seqs, 0.7); c != "ABC" {
		t.Error("trailing placeholders must be stripped", c)
	}
}

func TestConsensusEmpty(t *testing.T) {
	if c := Consensus(nil, 0.7); c != "" {
		t.Error("no sequences must yield an empty consensus", c)
	}
}

func TestConsensusIdempotent(t *testing.T) {
	seqs := []string{"MKLVAN", "MKLVAN", "MKLQAN", "MKL"}
	first := Consensus(seqs, 0.7)
	second := Consensus(seqs, 0.7)
	if first != second {
		t.Error("consensus must be deterministic", first, second)
	}
}

func TestMatchesPattern(t *testing.T) {
	if !MatchesPattern("PEP.IDE", "PEPTIDE") {
		t.Error("placeholder must match any character")
	}
	if !MatchesPattern("PEP", "PEPTIDE") {
		t.Error("consensus matches as an anchored prefix")
	}
	if MatchesPattern("PEPTIDE", "PEPSIDE") {
		t.Error("mismatched character must not match")
	}
	if MatchesPattern("PEPTIDES", "PEPTIDE") {
		t.Error("consensus longer than subsequence must not match")
	}
	if MatchesPattern("", "PEPTIDE") {
		t.Error("empty consensus must not match")
	}
}
