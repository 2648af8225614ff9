package model

import (
	"fmt"

	"lifeexp/internal/errors"
)

// KindRandomForest is the artifact kind of a random forest regressor.
const KindRandomForest = "random_forest"

// leaf marks a node without children, as in scikit-learn's tree arrays.
const leaf = -1

// RegressionTree is a fitted CART regressor in flat array form: node i splits
// on Feature[i] at Threshold[i] (x <= threshold goes left) unless it is a
// leaf, in which case Value[i] is the output.
type RegressionTree struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

func (t *RegressionTree) validate(nFeatures int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("tree arrays disagree on node count %d", n)
	}
	for i := 0; i < n; i++ {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == leaf {
			if r != leaf {
				return fmt.Errorf("node %d has a right child but no left child", i)
			}
			continue
		}
		// children always come after their parent, which also rules out cycles
		if l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("node %d has out-of-order children %d/%d", i, l, r)
		}
		if f := t.Feature[i]; f < 0 || f >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d outside [0,%d)", i, f, nFeatures)
		}
	}
	return nil
}

func (t *RegressionTree) predict(x []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] != leaf {
		// inputs are compared at float32 precision, as the trees were fitted
		if float64(float32(x[t.Feature[node]])) <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// RandomForest averages the outputs of its trees.
type RandomForest struct {
	Trees     []RegressionTree
	nFeatures int
}

type forestJSON struct {
	Kind       string           `json:"kind"`
	NFeatures  int              `json:"n_features"`
	Estimators []RegressionTree `json:"estimators"`
}

func (j forestJSON) build() (*RandomForest, error) {
	if j.NFeatures <= 0 {
		return nil, fmt.Errorf("random forest must declare n_features")
	}
	if len(j.Estimators) == 0 {
		return nil, fmt.Errorf("random forest has no estimators")
	}
	for i := range j.Estimators {
		if err := j.Estimators[i].validate(j.NFeatures); err != nil {
			return nil, fmt.Errorf("estimator %d: %w", i, err)
		}
	}
	return &RandomForest{Trees: j.Estimators, nFeatures: j.NFeatures}, nil
}

// Kind implements ports.Regressor.
func (f *RandomForest) Kind() string { return KindRandomForest }

// NumFeatures implements ports.Regressor.
func (f *RandomForest) NumFeatures() int { return f.nFeatures }

// Predict implements ports.Regressor.
func (f *RandomForest) Predict(x []float64) (float64, error) {
	if len(x) != f.nFeatures {
		return 0, errors.ShapeMismatch("random forest", len(x), f.nFeatures)
	}
	sum := 0.0
	for i := range f.Trees {
		sum += f.Trees[i].predict(x)
	}
	return sum / float64(len(f.Trees)), nil
}
