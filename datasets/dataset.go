// Package datasets defines the tagging sample type, the indexable dataset
// contract, and index-based splitting and shuffling of datasets
package datasets

// Sample is one padded token sequence together with the labels of its
// unpadded positions.
type Sample struct {
	Tokens []int
	Labels []int
}

// Dataslice is an indexable collection of samples. Get must be deterministic
// and free of side effects.
type Dataslice interface {
	Get(n int) Sample
	Len() int
}
