// Package trainer drives the tagger training: one optimisation step per
// sample, an evaluation on the held-out split every fixed number of samples,
// and the record of the best scoring evaluation. Training stops early and
// cleanly when its context is cancelled.
package trainer
