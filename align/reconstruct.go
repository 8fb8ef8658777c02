package align

import "strings"

// AntigenSequences rebuilds each antigen's sequence from the aligned subject
// strings of the stored records. Gap characters are removed from the subject
// string before placement at HitFrom-1. Positions never covered by an
// alignment are filled with 'X'. Records whose degapped subject length does
// not match the subject coordinate span are skipped.
func (s *Store) AntigenSequences() map[string]string {
	length := make(map[string]int)
	for i := range s.records {
		if s.records[i].HitTo > length[s.records[i].Antigen] {
			length[s.records[i].Antigen] = s.records[i].HitTo
		}
	}

	seqs := make(map[string][]byte, len(length))
	for antigen, l := range length {
		b := make([]byte, l)
		for i := range b {
			b[i] = 'X'
		}
		seqs[antigen] = b
	}

	for i := range s.records {
		sub := strings.ReplaceAll(s.records[i].HSeq, "-", "")
		if len(sub) != s.records[i].HitTo-s.records[i].HitFrom+1 {
			continue
		}
		copy(seqs[s.records[i].Antigen][s.records[i].HitFrom-1:], sub)
	}

	ans := make(map[string]string, len(seqs))
	for antigen, b := range seqs {
		ans[antigen] = string(b)
	}
	return ans
}
