// Package inference turns tagger log-probabilities into per-position labels
package inference

import "gonum.org/v1/gonum/floats"
import "gonum.org/v1/gonum/mat"

// Model is a tagger producing one row of tag scores per valid position
type Model interface {
	Forward(seq []int) (*mat.Dense, error)
}

// Argmax returns the index of the highest score of every row; ties go to the lower index.
func Argmax(scores *mat.Dense) []int {
	r, _ := scores.Dims()
	o := make([]int, r)
	for i := range o {
		o[i] = floats.MaxIdx(scores.RawRowView(i))
	}
	return o
}

// Predict runs the model over seq and returns the arg-max label of every position.
func Predict(m Model, seq []int) ([]int, error) {
	scores, err := m.Forward(seq)
	if err != nil {
		return nil, err
	}
	return Argmax(scores), nil
}
