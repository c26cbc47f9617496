package main

import "context"
import "flag"
import "fmt"
import "os"
import "os/signal"
import "time"

import "github.com/google/uuid"
import "github.com/klauspost/cpuid/v2"

import "github.com/neurlang/tagger/datasets/elfcorpus"
import "github.com/neurlang/tagger/datasets/windowed"
import "github.com/neurlang/tagger/layer/conv2d"
import "github.com/neurlang/tagger/trainer"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s <binary or directory>\n", os.Args[0])
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	log := trainer.NewLogger(os.Stderr, trainer.ParseLevel(os.Getenv("TAGGER_LOG")))
	log.Info("cpu %s, vectorized conv %v", cpuid.CPU.BrandName, conv2d.Vectorized)

	ctx, stop := notifyCancel(context.Background(), log, shutdownSignals...)
	err := run(ctx, flag.Arg(0), trainer.NewReporter(os.Stdout, os.Stderr), log)
	stop()
	if err != nil {
		log.Error("%+v", err)
		os.Exit(1)
	}
}

// notifyCancel returns a context cancelled by the first of sigs. That signal
// also restores the default handling, so a second one ends the process even
// while the corpus is still loading.
func notifyCancel(parent context.Context, log *trainer.Logger, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, sigs...)
	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Warn("received %v, finishing; send it again to quit now", sig)
			signal.Stop(sigChan)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// run trains on the corpus at path until done or ctx is cancelled.
func run(ctx context.Context, path string, rep *trainer.Reporter, log *trainer.Logger) error {
	stream, skipped, err := elfcorpus.Load(path)
	for _, s := range skipped {
		log.Debug("skipped %s", s)
	}
	if err != nil {
		return err
	}
	log.Info("%d bytes of code from %d files, %d skipped", len(stream.Tokens), len(stream.Files), len(skipped))

	cfg := trainer.DefaultConfig()
	data, err := windowed.New(stream.Tokens, stream.Labels, cfg.BlockSize, cfg.KernelSize, cfg.PaddingSize)
	if err != nil {
		return err
	}

	rep.Start(uuid.New().String(), time.Now())

	// running mean of the loss since the last evaluation
	var sum float64
	var count int
	onStep := func(sample int, loss float64) {
		sum += loss
		count++
		if (sample+1)%cfg.EvalInterval == 0 {
			log.Debug("mean loss %v over samples %d..%d", sum/float64(count), sample+1-count, sample)
			sum, count = 0, 0
		}
	}

	_, err = trainer.Run(ctx, cfg, data, rep, log, onStep)
	return err
}
