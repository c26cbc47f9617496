// Package windowed cuts a token stream into fixed-size blocks padded so that a
// valid convolution of height kernel size yields exactly one output per
// block position.
package windowed

import "github.com/pkg/errors"

import "github.com/neurlang/tagger/datasets"

const (
	// PadToken fills the positions around a block.
	PadToken = 256
	// SeparatorToken marks the boundary between two concatenated files.
	SeparatorToken = 257
	// VocabSize is the 256 byte values plus the two reserved tokens.
	VocabSize = 258
)

var (
	// ErrEmptyStream is returned when the stream does not fill a single block.
	ErrEmptyStream = errors.New("windowed: stream shorter than one block")

	// ErrPaddingMismatch is returned when padding is not kernel size - 1.
	ErrPaddingMismatch = errors.New("windowed: padding size must be kernel size - 1")
)

// Dataslice exposes the blocks of a stream as samples. The trailing partial
// block, if any, is not part of the dataset.
type Dataslice struct {
	tokens []int
	labels []bool

	blockSize   int
	left, right int // padding before and after each block
	blocks      int
}

// New builds the dataset over tokens, where labels[i] tells whether tokens[i]
// is a boundary. paddingSize pad tokens are spread over both ends of every
// block, the extra one going to the end when the count is odd, so that each
// output of a valid convolution of height kernelSize is centred on its token.
func New(tokens []int, labels []bool, blockSize, kernelSize, paddingSize int) (*Dataslice, error) {
	if blockSize <= 0 {
		return nil, errors.Errorf("windowed: block size %d is not positive", blockSize)
	}
	if kernelSize <= 0 {
		return nil, errors.Errorf("windowed: kernel size %d is not positive", kernelSize)
	}
	if paddingSize != kernelSize-1 {
		return nil, errors.Wrapf(ErrPaddingMismatch, "padding %d, kernel %d", paddingSize, kernelSize)
	}
	if len(tokens) != len(labels) {
		return nil, errors.Errorf("windowed: %d tokens, %d labels", len(tokens), len(labels))
	}
	if len(tokens) < blockSize {
		return nil, errors.Wrapf(ErrEmptyStream, "%d tokens, block size %d", len(tokens), blockSize)
	}
	for i, tok := range tokens {
		if tok < 0 || tok >= VocabSize {
			return nil, errors.Errorf("windowed: token %d at offset %d outside vocabulary", tok, i)
		}
	}
	left := paddingSize / 2
	return &Dataslice{
		tokens:    tokens,
		labels:    labels,
		blockSize: blockSize,
		left:      left,
		right:     paddingSize - left,
		blocks:    len(tokens) / blockSize,
	}, nil
}

// Len returns the number of whole blocks.
func (d *Dataslice) Len() int {
	return d.blocks
}

// BlockSize returns the number of stream tokens per block.
func (d *Dataslice) BlockSize() int {
	return d.blockSize
}

// PaddingSize returns the number of pad tokens added to each block.
func (d *Dataslice) PaddingSize() int {
	return d.left + d.right
}

// Get returns block n padded with PadToken, and its block size labels.
// The slices are freshly allocated.
func (d *Dataslice) Get(n int) datasets.Sample {
	if n < 0 || n >= d.blocks {
		panic(errors.Errorf("windowed: block %d out of range [0, %d)", n, d.blocks))
	}
	start := n * d.blockSize
	tokens := make([]int, d.left+d.blockSize+d.right)
	for i := range tokens {
		tokens[i] = PadToken
	}
	copy(tokens[d.left:], d.tokens[start:start+d.blockSize])

	labels := make([]int, d.blockSize)
	for i, b := range d.labels[start : start+d.blockSize] {
		if b {
			labels[i] = 1
		}
	}
	return datasets.Sample{Tokens: tokens, Labels: labels}
}
