package trainer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/neurlang/tagger/metrics"
)

func TestReporterLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, nil)
	r.Checkpoint("test", metrics.Report{Accuracy: 1, Precision: 0.5, Recall: 0.25, F1: 1.0 / 3})
	r.Final(Best{Report: metrics.Report{Accuracy: 0.75, F1: 0.5}, Checkpoint: 1})

	assert.Equal(t, "name: test\n"+
		"accuracy: 1.0\n"+
		"pr: 0.5\n"+
		"recall: 0.25\n"+
		"f1: 0.3333333333333333\n"+
		"best_accuracy: 0.75\n"+
		"best_pr: 0.0\n"+
		"best_recall: 0.0\n"+
		"best_f1: 0.5\n", buf.String())
}

func TestReporterStart(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf, nil).Start("abc", time.Date(2024, 5, 6, 7, 8, 9, 123456000, time.UTC))
	assert.Equal(t, "run id abc\nstart time 2024-05-06 07:08:09.123456\n", buf.String())
}

func TestReporterProgressBars(t *testing.T) {
	var out, progress bytes.Buffer
	r := NewReporter(&out, &progress)
	train := r.Bar("train", 3, false)
	test := r.Bar("test", 2, true)
	for i := 0; i < 2; i++ {
		test.Increment()
	}
	test.Done()
	train.Increment()
	train.Done()
	r.Close()
	assert.Empty(t, out.String())

	var none *Reporter
	none.Bar("x", 1, false).Done()
	none.Close()
}
