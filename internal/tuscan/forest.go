package tuscan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Model scores batches of feature vectors. Implementations must be safe
// for concurrent use by multiple scoring workers.
type Model interface {
	Predict(rows [][]float64) ([]float64, error)
}

// model file names inside the model directory
const (
	regressorFile  = "rf_regressor.json"
	classifierFile = "rf_classifier.json"
)

// rfTree is one decision tree in the trainer's flat array export: node i
// descends to Left[i] when row[Feature[i]] <= Threshold[i], to Right[i]
// otherwise, and a negative child marks a leaf predicting Value[i].
type rfTree struct {
	Left      []int     `json:"children_left"`
	Right     []int     `json:"children_right"`
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Value     []float64 `json:"value"`
}

// Forest is a random forest regressor or classifier deserialized from
// its JSON export. Predict never mutates it, so one Forest is shared by
// every worker.
type Forest struct {
	Kind     string   `json:"kind"`
	Features int      `json:"n_features"`
	Trees    []rfTree `json:"trees"`
}

// LoadModel reads the serialized random forest for the mode from dir.
func LoadModel(dir string, m Mode) (*Forest, error) {
	name := regressorFile
	if m == Classification {
		name = classifierFile
	}
	path := filepath.Join(dir, name)

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	f := &Forest{}
	if err := json.Unmarshal(dat, f); err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", path, err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("bad model %s: %w", path, err)
	}

	if want := VectorLen(m); f.Features != want {
		return nil, fmt.Errorf("model %s expects %d features but %s windows encode to %d", path, f.Features, m, want)
	}
	if want := strings.ToLower(m.String()); f.Kind != want {
		return nil, fmt.Errorf("model %s is a %s model, not %s", path, f.Kind, want)
	}

	return f, nil
}

// validate checks the forest's arrays line up and that every tree is
// topologically ordered, which guarantees eval terminates.
func (f *Forest) validate() error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("no trees")
	}
	if f.Features < 1 {
		return fmt.Errorf("n_features = %d", f.Features)
	}

	for ti := range f.Trees {
		t := &f.Trees[ti]
		n := len(t.Left)
		if n == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		if len(t.Right) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
			return fmt.Errorf("tree %d node arrays disagree on length", ti)
		}

		for i := 0; i < n; i++ {
			if (t.Left[i] < 0) != (t.Right[i] < 0) {
				return fmt.Errorf("tree %d node %d has one child", ti, i)
			}
			if t.Left[i] < 0 {
				continue
			}
			if t.Left[i] >= n || t.Right[i] >= n {
				return fmt.Errorf("tree %d node %d child out of range", ti, i)
			}
			if t.Left[i] <= i || t.Right[i] <= i {
				return fmt.Errorf("tree %d node %d is not topologically ordered", ti, i)
			}
			if t.Feature[i] < 0 || t.Feature[i] >= f.Features {
				return fmt.Errorf("tree %d node %d splits on feature %d of %d", ti, i, t.Feature[i], f.Features)
			}
		}
	}

	return nil
}

// Predict scores one feature vector per row. A regressor averages its
// trees, a classifier takes the majority class with ties going high.
func (f *Forest) Predict(rows [][]float64) ([]float64, error) {
	scores := make([]float64, len(rows))
	for ri, row := range rows {
		if len(row) != f.Features {
			return nil, fmt.Errorf("feature vector has %d values, model expects %d", len(row), f.Features)
		}

		sum := 0.0
		for ti := range f.Trees {
			sum += f.Trees[ti].eval(row)
		}

		if f.Kind == "classification" {
			if sum*2 >= float64(len(f.Trees)) {
				scores[ri] = 1
			}
		} else {
			scores[ri] = sum / float64(len(f.Trees))
		}
	}
	return scores, nil
}

// eval walks one feature vector down to a leaf.
func (t *rfTree) eval(row []float64) float64 {
	i := 0
	for t.Left[i] >= 0 {
		if row[t.Feature[i]] <= t.Threshold[i] {
			i = t.Left[i]
		} else {
			i = t.Right[i]
		}
	}
	return t.Value[i]
}
