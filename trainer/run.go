package trainer

import "context"

import "github.com/pkg/errors"

import "github.com/neurlang/tagger/datasets"
import "github.com/neurlang/tagger/learning"
import "github.com/neurlang/tagger/net/cnn"

// Run splits data, builds the tagger and its optimizer, trains until the
// epochs are done or ctx is cancelled, and reports the best evaluation.
func Run(ctx context.Context, cfg Config, data datasets.Dataslice, rep *Reporter, log *Logger, onStep StepFunc) (Best, error) {
	if err := cfg.Validate(); err != nil {
		return Best{}, err
	}
	train, test, err := datasets.RandomSplit(data, cfg.SplitRatio, cfg.Seed)
	if err != nil {
		return Best{}, err
	}
	if train.Len() == 0 || test.Len() == 0 {
		return Best{}, errors.Wrapf(datasets.ErrEmptyDataset,
			"%d blocks split into %d train and %d test", data.Len(), train.Len(), test.Len())
	}
	log.Info("%d blocks: %d train, %d test", data.Len(), train.Len(), test.Len())

	model, err := cnn.New(cfg.Model(), cfg.Seed)
	if err != nil {
		return Best{}, err
	}
	opt, err := learning.NewAdam(model.Parameters(), cfg.HyperParameters())
	if err != nil {
		return Best{}, err
	}

	evaluate := NewEvaluateFunc(model, test, rep)
	loop := NewLoopFunc(cfg, model, opt, train, evaluate, rep, log, onStep)

	best, err := loop(ctx)
	rep.Close()
	if err != nil {
		return best, err
	}
	rep.Final(best)
	return best, nil
}
