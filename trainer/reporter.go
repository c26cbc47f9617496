package trainer

import "fmt"
import "io"
import "strconv"
import "strings"
import "time"

import "github.com/vbauerster/mpb/v8"
import "github.com/vbauerster/mpb/v8/decor"

import "github.com/neurlang/tagger/metrics"

// Reporter writes the line-oriented run report to out and progress bars to
// progress. A nil progress writer disables the bars, a nil *Reporter
// disables everything.
type Reporter struct {
	out      io.Writer
	progress io.Writer
	bars     *mpb.Progress
}

// NewReporter creates a reporter.
func NewReporter(out, progress io.Writer) *Reporter {
	return &Reporter{out: out, progress: progress}
}

// formatFloat prints whole numbers with a trailing .0 so every score reads as a real.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// Start reports the run id and start time.
func (r *Reporter) Start(runID string, at time.Time) {
	if r == nil {
		return
	}
	fmt.Fprintln(r.out, "run id", runID)
	fmt.Fprintln(r.out, "start time", at.Format("2006-01-02 15:04:05.000000"))
}

// Checkpoint reports the scores of one evaluation of the named split.
func (r *Reporter) Checkpoint(name string, m metrics.Report) {
	if r == nil {
		return
	}
	fmt.Fprintf(r.out, "name: %s\n", name)
	fmt.Fprintf(r.out, "accuracy: %s\n", formatFloat(m.Accuracy))
	fmt.Fprintf(r.out, "pr: %s\n", formatFloat(m.Precision))
	fmt.Fprintf(r.out, "recall: %s\n", formatFloat(m.Recall))
	fmt.Fprintf(r.out, "f1: %s\n", formatFloat(m.F1))
}

// Final reports the best record.
func (r *Reporter) Final(b Best) {
	if r == nil {
		return
	}
	fmt.Fprintf(r.out, "best_accuracy: %s\n", formatFloat(b.Accuracy))
	fmt.Fprintf(r.out, "best_pr: %s\n", formatFloat(b.Precision))
	fmt.Fprintf(r.out, "best_recall: %s\n", formatFloat(b.Recall))
	fmt.Fprintf(r.out, "best_f1: %s\n", formatFloat(b.F1))
}

// Bar tracks the progress of one pass.
type Bar interface {
	Increment()

	// Done finishes the bar, whether or not it reached its total.
	Done()
}

type noBar struct{}

func (noBar) Increment() {}
func (noBar) Done()      {}

type progressBar struct {
	bar *mpb.Bar
}

func (p progressBar) Increment() { p.bar.Increment() }

func (p progressBar) Done() {
	if !p.bar.Completed() {
		p.bar.Abort(false)
	}
}

// Bar starts a progress bar of total steps. Transient bars disappear once complete.
func (r *Reporter) Bar(name string, total int, transient bool) Bar {
	if r == nil || r.progress == nil {
		return noBar{}
	}
	if r.bars == nil {
		r.bars = mpb.New(mpb.WithOutput(r.progress), mpb.WithWidth(60))
	}
	opts := []mpb.BarOption{
		mpb.PrependDecorators(
			decor.Name(name+" "),
			decor.CountersNoUnit("%d/%d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncSpace),
			decor.Name(" "),
			decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "done"),
		),
	}
	if transient {
		opts = append(opts, mpb.BarRemoveOnComplete())
	}
	return progressBar{bar: r.bars.AddBar(int64(total), opts...)}
}

// Close waits for the progress bars to finish rendering.
func (r *Reporter) Close() {
	if r != nil && r.bars != nil {
		r.bars.Wait()
		r.bars = nil
	}
}
