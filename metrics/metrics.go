// Package metrics computes binary classification scores over flat label vectors,
// with label 1 (a boundary) as the positive class.
//
// Ratios with a zero denominator are defined as 0: precision with no predicted
// positives, recall with no true positives, and F1 when there are neither.
package metrics

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmpty is returned when there is nothing to score.
var ErrEmpty = errors.New("metrics: no labels")

// Confusion counts the outcomes of a binary prediction.
type Confusion struct {
	TP, FP, TN, FN int
}

// Count tallies predicted against true labels. Any non-zero label counts as positive.
func Count(truth, predicted []int) (c Confusion, err error) {
	if len(truth) != len(predicted) {
		return c, errors.Errorf("metrics: %d true labels, %d predictions", len(truth), len(predicted))
	}
	for i, y := range truth {
		switch p := predicted[i]; {
		case y != 0 && p != 0:
			c.TP++
		case y == 0 && p != 0:
			c.FP++
		case y != 0 && p == 0:
			c.FN++
		default:
			c.TN++
		}
	}
	return c, nil
}

// Add merges the counts of o into c.
func (c *Confusion) Add(o Confusion) {
	c.TP += o.TP
	c.FP += o.FP
	c.TN += o.TN
	c.FN += o.FN
}

// Total is the number of labels counted.
func (c Confusion) Total() int {
	return c.TP + c.FP + c.TN + c.FN
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Accuracy is the share of correct predictions.
func (c Confusion) Accuracy() float64 { return ratio(c.TP+c.TN, c.Total()) }

// Precision is TP / (TP + FP).
func (c Confusion) Precision() float64 { return ratio(c.TP, c.TP+c.FP) }

// Recall is TP / (TP + FN).
func (c Confusion) Recall() float64 { return ratio(c.TP, c.TP+c.FN) }

// F1 is 2TP / (2TP + FP + FN).
func (c Confusion) F1() float64 { return ratio(2*c.TP, 2*c.TP+c.FP+c.FN) }

// Report is one snapshot of the four summary scores.
type Report struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// Report derives the four scores.
func (c Confusion) Report() (Report, error) {
	if c.Total() == 0 {
		return Report{}, ErrEmpty
	}
	return Report{
		Accuracy:  c.Accuracy(),
		Precision: c.Precision(),
		Recall:    c.Recall(),
		F1:        c.F1(),
	}, nil
}

// Compute scores predicted against truth.
func Compute(truth, predicted []int) (Report, error) {
	c, err := Count(truth, predicted)
	if err != nil {
		return Report{}, err
	}
	return c.Report()
}

func (r Report) String() string {
	return fmt.Sprintf("accuracy=%v pr=%v recall=%v f1=%v", r.Accuracy, r.Precision, r.Recall, r.F1)
}
