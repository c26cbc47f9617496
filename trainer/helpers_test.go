package trainer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neurlang/tagger/datasets"
	"github.com/neurlang/tagger/datasets/windowed"
	"github.com/neurlang/tagger/learning"
	"github.com/neurlang/tagger/net/cnn"
)

const sentinel = 7

// synthetic builds blocks of blockSize tokens where only the second token of
// every block is the sentinel, and the sentinel positions are the boundaries.
func synthetic(t *testing.T, blocks, blockSize, kernel int) *windowed.Dataslice {
	tokens := make([]int, blocks*blockSize)
	labels := make([]bool, len(tokens))
	for i := range tokens {
		if i%blockSize == 1 {
			tokens[i] = sentinel
			labels[i] = true
		} else {
			tokens[i] = (i*5 + 3) % 7 // never the sentinel
		}
	}
	d, err := windowed.New(tokens, labels, blockSize, kernel, kernel-1)
	require.NoError(t, err)
	return d
}

// smallConfig fits the synthetic data.
func smallConfig() Config {
	return Config{
		EmbeddingDim: 8,
		VocabSize:    windowed.VocabSize,
		HiddenDim:    8,
		TagsetSize:   2,
		KernelSize:   2,
		BlockSize:    4,
		PaddingSize:  1,
		LearningRate: 0.02,
		SplitRatio:   0.9,
		EvalInterval: 10,
		Epochs:       1,
		Seed:         1,
	}
}

func newModel(t *testing.T, cfg Config) (*cnn.Tagger, *learning.Adam) {
	model, err := cnn.New(cfg.Model(), cfg.Seed)
	require.NoError(t, err)
	opt, err := learning.NewAdam(model.Parameters(), cfg.HyperParameters())
	require.NoError(t, err)
	return model, opt
}

// whole is a subset covering every sample of d in order.
func whole(d datasets.Dataslice) *datasets.Subset {
	idx := make([]int, d.Len())
	for i := range idx {
		idx[i] = i
	}
	return datasets.NewSubset(d, idx)
}
