package epitope

import "strings"

// Placeholder marks positions with no consensus character. It also pads
// input subsequences that terminate before the longest one.
const Placeholder byte = '.'

// DefaultThreshold is the fraction of subsequences that must agree at a
// position for its character to enter the consensus.
const DefaultThreshold float64 = 0.7

// Consensus derives a per-position majority sequence from aligned
// subsequences. A position's character is emitted when at least
// threshold*len(seqs) subsequences agree on it, otherwise the placeholder is
// emitted. Emission stops early once most subsequences have terminated, and
// trailing placeholders are stripped. Zero input subsequences yield an empty
// consensus.
func Consensus(seqs []string, threshold float64) string {
	if len(seqs) == 0 {
		return ""
	}

	numNeeded := float64(len(seqs)) * threshold
	var maxLen int
	for i := range seqs {
		if len(seqs[i]) > maxLen {
			maxLen = len(seqs[i])
		}
	}

	var result []byte
	for i := 0; i < maxLen; i++ {
		char, count := modeAt(seqs, i)
		if char == Placeholder && float64(count) >= numNeeded {
			break
		}
		if float64(count) >= numNeeded {
			result = append(result, char)
		} else {
			result = append(result, Placeholder)
		}
	}
	return strings.TrimRight(string(result), string(Placeholder))
}

// modeAt tallies the characters of seqs at position i, padding terminated
// subsequences with the placeholder. Ties go to the character first
// encountered in input order.
func modeAt(seqs []string, i int) (char byte, count int) {
	counts := make(map[byte]int)
	var order []byte
	for _, s := range seqs {
		c := Placeholder
		if i < len(s) {
			c = s[i]
		}
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	for _, c := range order {
		if counts[c] > count {
			char, count = c, counts[c]
		}
	}
	return char, count
}

// MatchesPattern reports whether the consensus matches a prefix of sub when
// anchored at its start, with the placeholder matching any character. An
// empty consensus never matches.
func MatchesPattern(consensus, sub string) bool {
	if consensus == "" || len(consensus) > len(sub) {
		return false
	}
	for i := 0; i < len(consensus); i++ {
		if consensus[i] != Placeholder && consensus[i] != sub[i] {
			return false
		}
	}
	return true
}
