package trainer

import "github.com/pkg/errors"

import "github.com/neurlang/tagger/datasets/windowed"
import "github.com/neurlang/tagger/learning"
import "github.com/neurlang/tagger/net/cnn"

// Config holds the constants of a training run.
type Config struct {
	EmbeddingDim int
	VocabSize    int
	HiddenDim    int
	TagsetSize   int
	KernelSize   int
	BlockSize    int
	PaddingSize  int // must be KernelSize - 1

	LearningRate float64
	SplitRatio   float64 // share of blocks used for training
	EvalInterval int     // evaluate every this many samples
	Epochs       int     // passes over the training split
	Seed         uint64  // seeds the split, the shuffle and the initial weights
}

// DefaultConfig returns the constants of the function start tagger.
func DefaultConfig() Config {
	const kernelSize = 20
	return Config{
		EmbeddingDim: 64,
		VocabSize:    windowed.VocabSize,
		HiddenDim:    16,
		TagsetSize:   2,
		KernelSize:   kernelSize,
		BlockSize:    1000,
		PaddingSize:  kernelSize - 1,

		LearningRate: 0.001,
		SplitRatio:   0.9,
		EvalInterval: 10000,
		Epochs:       1,
		Seed:         1,
	}
}

// Validate checks the constants against each other.
func (c Config) Validate() error {
	if err := c.Model().Validate(); err != nil {
		return err
	}
	if c.BlockSize <= 0 {
		return errors.Errorf("trainer: block size %d is not positive", c.BlockSize)
	}
	if c.PaddingSize != c.KernelSize-1 {
		return errors.Wrapf(windowed.ErrPaddingMismatch, "padding %d, kernel %d", c.PaddingSize, c.KernelSize)
	}
	if !(c.SplitRatio > 0 && c.SplitRatio < 1) {
		return errors.Errorf("trainer: split ratio %v outside (0, 1)", c.SplitRatio)
	}
	if c.EvalInterval < 1 {
		return errors.Errorf("trainer: eval interval %d is below 1", c.EvalInterval)
	}
	if c.Epochs < 1 {
		return errors.Errorf("trainer: epochs %d is below 1", c.Epochs)
	}
	return c.HyperParameters().Validate()
}

// Model returns the tagger shapes.
func (c Config) Model() cnn.Config {
	return cnn.Config{
		VocabSize:    c.VocabSize,
		EmbeddingDim: c.EmbeddingDim,
		KernelSize:   c.KernelSize,
		HiddenDim:    c.HiddenDim,
		TagsetSize:   c.TagsetSize,
	}
}

// HyperParameters returns the optimizer settings.
func (c Config) HyperParameters() learning.HyperParameters {
	return learning.DefaultHyperParameters(c.LearningRate)
}
