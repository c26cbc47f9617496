package datasets

import "math/rand/v2"

// Shuffle permutes the iteration order of the view. Membership is unchanged.
func (s *Subset) Shuffle(r *rand.Rand) {
	r.Shuffle(len(s.indices), func(i, j int) { s.indices[i], s.indices[j] = s.indices[j], s.indices[i] })
}
