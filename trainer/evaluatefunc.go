package trainer

import "context"

import "github.com/pkg/errors"

import "github.com/neurlang/tagger/datasets"
import "github.com/neurlang/tagger/inference"
import "github.com/neurlang/tagger/learning"
import "github.com/neurlang/tagger/metrics"

// EvaluateFunc scores the model on a held-out split. It returns the context
// error when cancelled part way.
type EvaluateFunc func(ctx context.Context) (metrics.Report, error)

// NewEvaluateFunc predicts every sample of test with model, pools the
// predicted and true labels of all samples, and scores them. The model must
// already be in inference mode; the closure only reads it.
func NewEvaluateFunc(model inference.Model, test datasets.Dataslice, rep *Reporter) EvaluateFunc {
	return func(ctx context.Context) (metrics.Report, error) {
		bar := rep.Bar("test", test.Len(), true)
		defer bar.Done()

		var confusion metrics.Confusion
		for i := 0; i < test.Len(); i++ {
			if err := ctx.Err(); err != nil {
				return metrics.Report{}, err
			}
			sample := test.Get(i)
			predicted, err := inference.Predict(model, sample.Tokens)
			if err != nil {
				return metrics.Report{}, errors.Wrapf(err, "test sample %d", i)
			}
			if len(predicted) != len(sample.Labels) {
				return metrics.Report{}, errors.Wrapf(learning.ErrLabelMismatch,
					"test sample %d: %d positions, %d labels", i, len(predicted), len(sample.Labels))
			}
			c, err := metrics.Count(sample.Labels, predicted)
			if err != nil {
				return metrics.Report{}, err
			}
			confusion.Add(c)
			bar.Increment()
		}
		return confusion.Report()
	}
}
