package tuscan

const (
	// WindowLen is the span of one candidate site: 4 nt of upstream
	// context, the 20 nt protospacer, the NGG PAM and 1 nt of downstream
	// context. Feature extraction reads fixed positions relative to
	// window start, so this length is a hard invariant.
	WindowLen = 28

	// TargetLen is the length of the reported target, the protospacer
	// plus its NGG PAM.
	TargetLen = 23

	// targetOffset is where the reported target starts within a window.
	targetOffset = 4

	// 0-based offsets of the invariant GG anchor within a window
	anchorFirst  = 25
	anchorSecond = 26
)

// scanWindows calls emit for every candidate window in seq, in ascending
// offset order. A window qualifies when all of its bases are unambiguous
// A/C/G/T and the two anchor positions are both G. Windows overlap
// freely: a base can anchor one window and sit inside the next. A
// non-nil error from emit stops the scan.
func scanWindows(seq []byte, emit func(offset int, window []byte) error) error {
	// offset of the most recent base outside A/C/G/T, -1 before any
	lastBad := -1

	for i := 0; i < len(seq); i++ {
		if baseIndex[seq[i]] < 0 {
			lastBad = i
		}

		start := i - (WindowLen - 1)
		if start < 0 || lastBad >= start {
			continue
		}
		if seq[start+anchorFirst] != 'G' || seq[start+anchorSecond] != 'G' {
			continue
		}

		if err := emit(start, seq[start:start+WindowLen]); err != nil {
			return err
		}
	}

	return nil
}
