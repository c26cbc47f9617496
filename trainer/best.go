package trainer

import "github.com/neurlang/tagger/metrics"

// Best is the evaluation with the highest F1 seen so far. All four scores
// always come from the same evaluation.
type Best struct {
	metrics.Report

	Checkpoint int // ordinal of the evaluation, from 1; 0 while no evaluation improved
	Sample     int // training sample after which the evaluation ran
}

// Update returns the record for r when its F1 is strictly higher, and b
// unchanged otherwise. Ties keep the earlier evaluation.
func (b Best) Update(r metrics.Report, checkpoint, sample int) (Best, bool) {
	if r.F1 > b.F1 {
		return Best{Report: r, Checkpoint: checkpoint, Sample: sample}, true
	}
	return b, false
}
