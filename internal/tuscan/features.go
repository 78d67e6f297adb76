package tuscan

import (
	"bytes"
	"fmt"
	"math"
	"strings"
)

// Mode selects which trained model, and therefore which feature layout,
// scoring runs with.
type Mode int

const (
	// Regression predicts a continuous cleavage activity score.
	Regression Mode = iota

	// Classification predicts a binary high/low activity call.
	Classification
)

func (m Mode) String() string {
	if m == Classification {
		return "Classification"
	}
	return "Regression"
}

// ParseMode parses the -m flag, case insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "regression":
		return Regression, nil
	case "classification":
		return Classification, nil
	}
	return 0, fmt.Errorf("unknown mode %q: expected Regression or Classification", s)
}

// posBase is a nucleotide identity test at a 1-based window position.
type posBase struct {
	base byte
	pos  int
}

// posPair is a dinucleotide identity test starting at a 1-based window
// position.
type posPair struct {
	di  string
	pos int
}

// The tables below are part of the trained models' contract: they were
// fixed by feature selection during training and the models read their
// inputs by index. Editing an entry silently changes every prediction,
// which is why the tests pin them literally.
var (
	// diAll is every dinucleotide in lexicographic order.
	diAll = []string{
		"AA", "AC", "AG", "AT",
		"CA", "CC", "CG", "CT",
		"GA", "GC", "GG", "GT",
		"TA", "TC", "TG", "TT",
	}

	// diRegression is the subset of dinucleotides whose presence
	// anywhere in the window survived selection for the regressor.
	diRegression = []string{"CA", "CT", "GC", "TC", "TG", "TT"}

	// single nucleotide positional features kept per model
	ntPosClassification = []posBase{
		{'G', 2}, {'A', 5}, {'C', 7}, {'T', 9}, {'G', 11}, {'A', 14},
		{'C', 16}, {'G', 18}, {'T', 20}, {'G', 21}, {'C', 23}, {'G', 24},
	}
	ntPosRegression = []posBase{
		{'A', 1}, {'G', 3}, {'C', 6}, {'T', 8}, {'G', 10}, {'A', 12},
		{'C', 13}, {'G', 15}, {'T', 17}, {'G', 19}, {'C', 20}, {'G', 22},
		{'A', 24}, {'T', 28},
	}

	// dinucleotide positional features kept per model. None start at
	// position 26: that pair spans the invariant GG anchor and carries
	// no signal.
	diPosClassification = []posPair{
		{"TG", 3}, {"CC", 5}, {"GC", 8}, {"AA", 10}, {"CT", 12},
		{"GG", 14}, {"TA", 16}, {"CA", 18}, {"GT", 19}, {"TT", 21},
		{"AG", 23}, {"AG", 25}, {"GT", 27},
	}
	diPosRegression = []posPair{
		{"AA", 1}, {"GT", 2}, {"CC", 3}, {"TG", 4}, {"GA", 5},
		{"CT", 6}, {"GC", 7}, {"AT", 8}, {"CA", 9}, {"GG", 10},
		{"TC", 11}, {"AG", 12}, {"GT", 13}, {"TT", 14}, {"CA", 15},
		{"GC", 16}, {"TG", 17}, {"AC", 18}, {"GA", 19}, {"TG", 19},
		{"CT", 20}, {"GG", 20}, {"AG", 21}, {"TT", 21}, {"GC", 22},
		{"CA", 22}, {"TG", 23}, {"GG", 23}, {"AA", 23}, {"CT", 24},
		{"GT", 24}, {"TG", 24}, {"AG", 25}, {"TG", 25}, {"GA", 27},
		{"GT", 27}, {"GG", 27},
	}

	// tailTGGT is the regressor's final feature, a one-hot on the
	// window's last four bases.
	tailTGGT = []byte("TGGT")
)

// VectorLen returns the feature vector width the mode's model expects.
func VectorLen(m Mode) int {
	if m == Classification {
		return 1 + 4 + len(diAll) + len(ntPosClassification) + len(diPosClassification)
	}
	return 1 + 4 + len(diRegression) + len(ntPosRegression) + len(diPosRegression) + 1
}

// Encode converts one window into the flat feature vector the mode's
// model was trained on. Deterministic and pure. The window must be
// WindowLen bases of uppercase A/C/G/T.
func Encode(window []byte, m Mode) []float64 {
	vec := make([]float64, 0, VectorLen(m))

	var counts [4]float64
	gc := 0
	for _, b := range window {
		counts[baseIndex[b]]++
		if b == 'C' || b == 'G' {
			gc++
		}
	}
	pct := math.Round(100*float64(gc)/WindowLen*100) / 100
	vec = append(vec, pct, counts[0], counts[1], counts[2], counts[3])

	dis, ntPos, diPos := diRegression, ntPosRegression, diPosRegression
	if m == Classification {
		dis, ntPos, diPos = diAll, ntPosClassification, diPosClassification
	}

	for _, di := range dis {
		vec = append(vec, indicator(bytes.Contains(window, []byte(di))))
	}
	for _, p := range ntPos {
		vec = append(vec, indicator(window[p.pos-1] == p.base))
	}
	for _, p := range diPos {
		vec = append(vec, indicator(window[p.pos-1] == p.di[0] && window[p.pos] == p.di[1]))
	}

	if m == Regression {
		vec = append(vec, indicator(bytes.Equal(window[WindowLen-4:], tailTGGT)))
	}

	return vec
}

func indicator(set bool) float64 {
	if set {
		return 1
	}
	return 0
}
