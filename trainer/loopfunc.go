package trainer

import "context"
import "math/rand/v2"

import "github.com/pkg/errors"
import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/tagger/datasets"
import "github.com/neurlang/tagger/inference"
import "github.com/neurlang/tagger/learning"
import "github.com/neurlang/tagger/metrics"

// Model is a tagger which can be trained and switched to inference.
type Model interface {
	inference.Model

	// Backward accumulates gradients from the gradient of the last Forward's output.
	Backward(grad *mat.Dense) error

	// Infer runs fn in inference mode and restores the previous mode afterwards.
	Infer(fn func() error) error
}

// Optimizer updates the parameters from their gradients.
type Optimizer interface {
	Step()
	ZeroGrad()
}

// StepFunc observes the loss of every training sample.
type StepFunc func(sample int, loss float64)

// step is one optimisation step on one sample.
func step(model Model, opt Optimizer, s datasets.Sample) (float64, error) {
	opt.ZeroGrad()
	logp, err := model.Forward(s.Tokens)
	if err != nil {
		return 0, err
	}
	loss, grad, err := learning.NLLLoss(logp, s.Labels)
	if err != nil {
		return 0, err
	}
	if err := model.Backward(grad); err != nil {
		return 0, err
	}
	opt.Step()
	return loss, nil
}

func cancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil && errors.Is(err, ctx.Err())
}

// NewLoopFunc returns the training loop. Each epoch visits train in a fresh
// random order. After sample n, counted from 0 over the whole run, the model
// is evaluated whenever n is a multiple of cfg.EvalInterval.
//
// The loop checks ctx before every sample. Once ctx is done it stops and
// returns the best record so far with a nil error; an evaluation cut short by
// ctx is discarded. Any other failure is returned as an error.
func NewLoopFunc(cfg Config, model Model, opt Optimizer, train *datasets.Subset, evaluate EvaluateFunc,
	rep *Reporter, log *Logger, onStep StepFunc) func(ctx context.Context) (Best, error) {

	return func(ctx context.Context) (best Best, err error) {
		r := rand.New(rand.NewPCG(cfg.Seed, 1))
		bar := rep.Bar("train", cfg.Epochs*train.Len(), false)
		defer bar.Done()

		var sample, checkpoint int
		for epoch := 0; epoch < cfg.Epochs; epoch++ {
			train.Shuffle(r)
			for i := 0; i < train.Len(); i, sample = i+1, sample+1 {
				if ctx.Err() != nil {
					log.Warn("interrupted before sample %d", sample)
					return best, nil
				}

				loss, err := step(model, opt, train.Get(i))
				if err != nil {
					return best, errors.Wrapf(err, "train sample %d", sample)
				}
				bar.Increment()
				if onStep != nil {
					onStep(sample, loss)
				}

				if sample%cfg.EvalInterval != 0 {
					continue
				}
				checkpoint++
				var report metrics.Report
				err = model.Infer(func() (err error) {
					report, err = evaluate(ctx)
					return err
				})
				if cancelled(ctx, err) {
					log.Warn("interrupted during evaluation %d", checkpoint)
					return best, nil
				}
				if err != nil {
					return best, errors.Wrapf(err, "evaluation %d", checkpoint)
				}
				rep.Checkpoint("test", report)
				log.Debug("evaluation %d after sample %d, epoch %d: %v", checkpoint, sample, epoch, report)
				if b, better := best.Update(report, checkpoint, sample); better {
					best = b
					log.Info("evaluation %d improves f1 to %v", checkpoint, b.F1)
				}
			}
		}
		return best, nil
	}
}
