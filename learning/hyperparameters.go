// Package learning implements the loss and the optimizer used to train the tagger
package learning

import "github.com/pkg/errors"

// HyperParameters configure the Adam optimizer.
type HyperParameters struct {
	LearningRate float64 // fixed step size, there is no schedule

	Beta1   float64 // decay of the first moment estimate
	Beta2   float64 // decay of the second moment estimate
	Epsilon float64 // added to the denominator for numerical stability
}

// DefaultHyperParameters returns Adam's customary moments with learning rate lr.
func DefaultHyperParameters(lr float64) HyperParameters {
	return HyperParameters{
		LearningRate: lr,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
	}
}

// Validate checks the ranges of the hyperparameters.
func (h HyperParameters) Validate() error {
	if h.LearningRate <= 0 {
		return errors.Errorf("learning: learning rate %v is not positive", h.LearningRate)
	}
	if h.Beta1 < 0 || h.Beta1 >= 1 || h.Beta2 < 0 || h.Beta2 >= 1 {
		return errors.Errorf("learning: betas %v, %v outside [0, 1)", h.Beta1, h.Beta2)
	}
	if h.Epsilon <= 0 {
		return errors.Errorf("learning: epsilon %v is not positive", h.Epsilon)
	}
	return nil
}
