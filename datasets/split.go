package datasets

import "math/rand/v2"

import "github.com/pkg/errors"

// ErrEmptyDataset is returned when a dataset with no samples is split.
var ErrEmptyDataset = errors.New("datasets: empty dataset")

// Subset is a view of a parent dataset through a list of indices.
// It never copies the parent's samples.
type Subset struct {
	parent  Dataslice
	indices []int
}

// NewSubset creates a view of parent through indices.
func NewSubset(parent Dataslice, indices []int) *Subset {
	return &Subset{parent: parent, indices: indices}
}

// Get returns the n-th sample of the view.
func (s *Subset) Get(n int) Sample {
	return s.parent.Get(s.indices[n])
}

// Len returns the number of samples in the view.
func (s *Subset) Len() int {
	return len(s.indices)
}

// Indices returns a copy of the parent indices, in iteration order.
func (s *Subset) Indices() []int {
	return append([]int(nil), s.indices...)
}

// RandomSplit partitions d into disjoint train and test views. The train view
// holds floor(Len * ratio) samples, the test view the rest. The partition is
// a permutation drawn from a PCG seeded by seed.
func RandomSplit(d Dataslice, ratio float64, seed uint64) (train, test *Subset, err error) {
	if d.Len() == 0 {
		return nil, nil, ErrEmptyDataset
	}
	if !(ratio > 0 && ratio < 1) {
		return nil, nil, errors.Errorf("datasets: split ratio %v outside (0, 1)", ratio)
	}
	trainSize := int(float64(d.Len()) * ratio)

	perm := rand.New(rand.NewPCG(seed, 0)).Perm(d.Len())
	return NewSubset(d, perm[:trainSize:trainSize]), NewSubset(d, perm[trainSize:]), nil
}
