package learning

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrLabelMismatch is returned when the labels do not line up with the predicted rows.
var ErrLabelMismatch = errors.New("learning: labels do not match predictions")

// NLLLoss returns the mean negative log-likelihood of labels under the rows of
// logp, and the gradient of that mean with respect to logp.
func NLLLoss(logp *mat.Dense, labels []int) (float64, *mat.Dense, error) {
	rows, cols := logp.Dims()
	if rows != len(labels) {
		return 0, nil, errors.Wrapf(ErrLabelMismatch, "%d positions, %d labels", rows, len(labels))
	}
	grad := mat.NewDense(rows, cols, nil)
	scale := 1 / float64(rows)
	var loss float64
	for i, y := range labels {
		if y < 0 || y >= cols {
			return 0, nil, errors.Wrapf(ErrLabelMismatch, "label %d at position %d outside [0, %d)", y, i, cols)
		}
		loss -= logp.At(i, y)
		grad.Set(i, y, -scale)
	}
	return loss * scale, grad, nil
}
