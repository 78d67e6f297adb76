package tuscan

// complement maps each nucleotide to its Watson-Crick complement.
// Lowercase input complements to uppercase, everything ambiguous maps to
// N so windows containing it can never match.
var complement [256]byte

// baseIndex maps A, C, G, T to 0..3 and every other byte to -1.
var baseIndex [256]int8

func init() {
	for i := range complement {
		complement[i] = 'N'
	}
	for _, p := range []struct{ from, to byte }{
		{'A', 'T'}, {'C', 'G'}, {'G', 'C'}, {'T', 'A'},
		{'a', 'T'}, {'c', 'G'}, {'g', 'C'}, {'t', 'A'},
	} {
		complement[p.from] = p.to
	}

	for i := range baseIndex {
		baseIndex[i] = -1
	}
	baseIndex['A'] = 0
	baseIndex['C'] = 1
	baseIndex['G'] = 2
	baseIndex['T'] = 3
}

// RevComp returns the reverse complement of seq. The input is left
// unmodified.
func RevComp(seq []byte) []byte {
	rc := make([]byte, len(seq))
	for i, b := range seq {
		rc[len(seq)-1-i] = complement[b]
	}
	return rc
}
