package inference

import (
	"fmt"
	"math"
)

// Classifier returns a probability distribution over the classes [0, 1]
// for a single scaled row.
type Classifier interface {
	Kind() string
	Width() int
	PredictProba(x []float64) ([]float64, error)
}

// LogisticRegression is a fitted binary logistic model.
type LogisticRegression struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

func (m *LogisticRegression) Kind() string { return kindLogistic }

func (m *LogisticRegression) Width() int { return len(m.Coef) }

func (m *LogisticRegression) validate() error {
	if len(m.Coef) == 0 {
		return fmt.Errorf("logistic model has no coefficients")
	}
	return nil
}

func (m *LogisticRegression) PredictProba(x []float64) ([]float64, error) {
	if len(x) != len(m.Coef) {
		return nil, fmt.Errorf("model expects %d features, got %d", len(m.Coef), len(x))
	}
	z := m.Intercept
	for j, v := range x {
		z += m.Coef[j] * v
	}
	if math.IsNaN(z) {
		return nil, fmt.Errorf("decision value is NaN")
	}
	p := sigmoid(z)
	return []float64{1 - p, p}, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Tree is one fitted decision tree stored as parallel node arrays.
// A node is a leaf when its left child is -1; x[feature] <= threshold goes left.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

func (t *Tree) validate(width int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("tree node arrays differ in length")
	}
	for i := 0; i < n; i++ {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == -1 {
			if len(t.Value[i]) != 2 {
				return fmt.Errorf("leaf %d has %d class values, want 2", i, len(t.Value[i]))
			}
			if t.Value[i][0]+t.Value[i][1] <= 0 {
				return fmt.Errorf("leaf %d has no class mass", i)
			}
			continue
		}
		// children always come after their parent, which rules out cycles
		if l <= i || r <= i || l >= n || r >= n {
			return fmt.Errorf("node %d has invalid children %d/%d", i, l, r)
		}
		if f := t.Feature[i]; f < 0 || f >= width {
			return fmt.Errorf("node %d splits on feature %d outside width %d", i, f, width)
		}
	}
	return nil
}

func (t *Tree) leaf(x []float64) []float64 {
	i := 0
	for t.ChildrenLeft[i] != -1 {
		if x[t.Feature[i]] <= t.Threshold[i] {
			i = t.ChildrenLeft[i]
		} else {
			i = t.ChildrenRight[i]
		}
	}
	return t.Value[i]
}

// RandomForest averages the leaf class distributions of its trees.
type RandomForest struct {
	NFeatures int    `json:"n_features"`
	Trees     []Tree `json:"trees"`
}

func (m *RandomForest) Kind() string { return kindRandomForest }

func (m *RandomForest) Width() int { return m.NFeatures }

func (m *RandomForest) validate() error {
	if m.NFeatures <= 0 {
		return fmt.Errorf("forest has no features")
	}
	if len(m.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for i := range m.Trees {
		if err := m.Trees[i].validate(m.NFeatures); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func (m *RandomForest) PredictProba(x []float64) ([]float64, error) {
	if len(x) != m.NFeatures {
		return nil, fmt.Errorf("model expects %d features, got %d", m.NFeatures, len(x))
	}
	out := make([]float64, 2)
	for i := range m.Trees {
		v := m.Trees[i].leaf(x)
		total := v[0] + v[1]
		out[0] += v[0] / total
		out[1] += v[1] / total
	}
	n := float64(len(m.Trees))
	out[0] /= n
	out[1] /= n
	return out, nil
}
