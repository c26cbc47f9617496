// Package embedding implements a token embedding lookup layer
package embedding

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/neurlang/tagger/layer"
)

// ErrTokenOutOfRange is returned when a token is outside [0, vocab).
var ErrTokenOutOfRange = errors.New("embedding: token out of range")

// Embedding maps each token to a learned row of the table.
type Embedding struct {
	vocab, dim int
	table      *layer.Param
}

// New creates an embedding table of vocab rows and dim columns, drawn from N(0, 1).
func New(vocab, dim int, src rand.Source) (*Embedding, error) {
	if vocab <= 0 || dim <= 0 {
		return nil, errors.Errorf("New Embedding: vocab %d and dim %d must be positive", vocab, dim)
	}
	e := &Embedding{
		vocab: vocab,
		dim:   dim,
		table: layer.NewParam("embedding", vocab, dim),
	}
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	for i := range e.table.Value {
		e.table.Value[i] = dist.Rand()
	}
	return e, nil
}

// MustNew creates an embedding table or panics
func MustNew(vocab, dim int, src rand.Source) *Embedding {
	e, err := New(vocab, dim, src)
	if err != nil {
		panic(err.Error())
	}
	return e
}

// Dim returns the embedding width.
func (e *Embedding) Dim() int { return e.dim }

// Vocab returns the number of rows.
func (e *Embedding) Vocab() int { return e.vocab }

// Forward looks up every token, producing a len(tokens) x dim matrix.
func (e *Embedding) Forward(tokens []int) (*mat.Dense, error) {
	if len(tokens) == 0 {
		return nil, errors.New("embedding: empty sequence")
	}
	out := mat.NewDense(len(tokens), e.dim, nil)
	for i, tok := range tokens {
		if tok < 0 || tok >= e.vocab {
			return nil, errors.Wrapf(ErrTokenOutOfRange, "position %d holds %d, vocab is %d", i, tok, e.vocab)
		}
		copy(out.RawRowView(i), e.table.Value[tok*e.dim:(tok+1)*e.dim])
	}
	return out, nil
}

// Backward scatters the rows of grad into the gradient of the looked up rows.
// Tokens must be the ones passed to the matching Forward.
func (e *Embedding) Backward(tokens []int, grad *mat.Dense) {
	for i, tok := range tokens {
		row := grad.RawRowView(i)
		dst := e.table.Grad[tok*e.dim : (tok+1)*e.dim]
		for j, g := range row {
			dst[j] += g
		}
	}
}

// Parameters returns the table.
func (e *Embedding) Parameters() []*layer.Param {
	return []*layer.Param{e.table}
}
