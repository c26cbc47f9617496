// Package cnn implements the windowed convolution tagger: embedding, a valid
// 2D convolution spanning the embedding width, ReLU, a linear projection and
// log-softmax, producing one tag distribution per valid position.
package cnn

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/neurlang/tagger/layer"
	"github.com/neurlang/tagger/layer/activation"
	"github.com/neurlang/tagger/layer/conv2d"
	"github.com/neurlang/tagger/layer/embedding"
	"github.com/neurlang/tagger/layer/full"
)

var (
	// ErrSequenceTooShort is returned when the sequence is shorter than the kernel.
	ErrSequenceTooShort = errors.New("cnn: sequence shorter than kernel")

	// ErrNotTraining is returned by Backward when no training forward pass is cached.
	ErrNotTraining = errors.New("cnn: no training forward pass to backpropagate")
)

// Config fixes the shapes of the tagger.
type Config struct {
	VocabSize    int
	EmbeddingDim int
	KernelSize   int
	HiddenDim    int
	TagsetSize   int
}

// Validate checks that every dimension is positive.
func (c Config) Validate() error {
	for _, v := range []struct {
		name string
		n    int
	}{
		{"vocab size", c.VocabSize},
		{"embedding dim", c.EmbeddingDim},
		{"kernel size", c.KernelSize},
		{"hidden dim", c.HiddenDim},
		{"tagset size", c.TagsetSize},
	} {
		if v.n <= 0 {
			return errors.Errorf("cnn: %s %d is not positive", v.name, v.n)
		}
	}
	return nil
}

// Tagger is the tagging model. It is not safe for concurrent use.
type Tagger struct {
	cfg Config

	embed *embedding.Embedding
	conv  *conv2d.Conv2D
	tag   *full.Full

	mode  Mode
	cache *cache
}

// cache keeps the activations of the last Training forward pass.
type cache struct {
	tokens []int
	embeds *mat.Dense // n x embedding
	relu   *mat.Dense // hidden x valid
	hidden *mat.Dense // valid x hidden
	logp   *mat.Dense // valid x tagset
}

// New creates a tagger in Training mode with parameters drawn from a PCG seeded by seed.
func New(cfg Config, seed uint64) (*Tagger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	embed, err := embedding.New(cfg.VocabSize, cfg.EmbeddingDim, src)
	if err != nil {
		return nil, err
	}
	conv, err := conv2d.New(cfg.HiddenDim, cfg.KernelSize, cfg.EmbeddingDim, src)
	if err != nil {
		return nil, err
	}
	tag, err := full.New(cfg.HiddenDim, cfg.TagsetSize, src)
	if err != nil {
		return nil, err
	}
	return &Tagger{cfg: cfg, embed: embed, conv: conv, tag: tag, mode: Training}, nil
}

// Config returns the shapes the tagger was built with.
func (t *Tagger) Config() Config {
	return t.cfg
}

// ValidPositions returns how many tag distributions Forward yields for a
// sequence of n tokens.
func (t *Tagger) ValidPositions(n int) int {
	return t.conv.OutputLen(n)
}

// Forward maps a token sequence to a ValidPositions(len(seq)) x tagset matrix
// of log-probabilities.
func (t *Tagger) Forward(seq []int) (*mat.Dense, error) {
	if len(seq) < t.cfg.KernelSize {
		return nil, errors.Wrapf(ErrSequenceTooShort, "%d tokens, kernel size %d", len(seq), t.cfg.KernelSize)
	}
	embeds, err := t.embed.Forward(seq)
	if err != nil {
		return nil, err
	}
	// embeds is the single-channel n x embedding image; the conv yields hidden x valid
	conv, err := t.conv.Forward(embeds)
	if err != nil {
		return nil, err
	}
	relu := activation.ReLU(conv)
	var hidden mat.Dense
	hidden.CloneFrom(relu.T())
	scores, err := t.tag.Forward(&hidden)
	if err != nil {
		return nil, err
	}
	logp := activation.LogSoftmax(scores)

	if t.mode == Training {
		t.cache = &cache{
			tokens: seq,
			embeds: embeds,
			relu:   relu,
			hidden: &hidden,
			logp:   logp,
		}
	}
	return logp, nil
}

// Backward accumulates parameter gradients given grad, the gradient of the
// loss with respect to the log-probabilities of the last Forward.
func (t *Tagger) Backward(grad *mat.Dense) error {
	if t.mode != Training || t.cache == nil {
		return ErrNotTraining
	}
	c := t.cache
	t.cache = nil
	if r, k := grad.Dims(); r != c.logp.RawMatrix().Rows || k != t.cfg.TagsetSize {
		return errors.Errorf("cnn: gradient is %dx%d, forward produced %dx%d", r, k, c.logp.RawMatrix().Rows, t.cfg.TagsetSize)
	}

	dScores := activation.LogSoftmaxBackward(c.logp, grad)
	dHidden := t.tag.Backward(c.hidden, dScores)
	dConv := activation.ReLUBackward(c.relu, dHidden.T())
	dEmbeds := t.conv.Backward(c.embeds, dConv)
	t.embed.Backward(c.tokens, dEmbeds)
	return nil
}

// Parameters returns embedding, conv weight, conv bias, linear weight, linear bias.
func (t *Tagger) Parameters() (o []*layer.Param) {
	for _, l := range []layer.Layer{t.embed, t.conv, t.tag} {
		o = append(o, l.Parameters()...)
	}
	return
}

// ZeroGrad clears every accumulated gradient.
func (t *Tagger) ZeroGrad() {
	layer.ZeroGrad(t.embed, t.conv, t.tag)
}
