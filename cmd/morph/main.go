// morph applies one morphological operation to a batch of images without a window.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"morphology-workbench/internal/algorithms"
	"morphology-workbench/internal/config"
	"morphology-workbench/internal/core"
	"morphology-workbench/internal/io"
	"morphology-workbench/internal/logging"
	"morphology-workbench/internal/metrics"
)

func main() {
	cfg := config.Default()
	cfg.Delivery = config.DeliveryDirect

	fs := flag.NewFlagSet("morph", flag.ExitOnError)
	cfg.RegisterFlags(fs)
	operation := fs.String("op", string(algorithms.OpErosion),
		"Operation: "+strings.Join(algorithms.OperationNames(), ", "))
	outDir := fs.String("out", ".", "Directory for processed images")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: morph [flags] image...\n")
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\noperations:\n%s", operationHelp())
	}
	fs.Parse(os.Args[1:])

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	logger := logging.New(cfg.Debug, os.Stderr)
	saved, failed := run(cfg, logger, *operation, *outDir, fs.Args())

	logger.WithFields(logrus.Fields{
		"saved":  saved,
		"failed": failed,
	}).Info("Batch finished")
}

// run processes every input and returns how many results were saved and how many
// tasks produced nothing.
func run(cfg config.Config, logger *logrus.Logger, operation, outDir string, inputs []string) (int, int) {
	if _, err := algorithms.ParseOperation(operation); err != nil {
		// tasks are still queued; the worker drops each one
		logger.WithError(err).Warn("BATCH: Unknown operation, every task will be dropped")
	}

	loader := io.NewImageLoader(logger)
	queue := core.NewTaskQueue(logger)

	// the queue is fresh, so Task.Seq is the input's position
	dests := outputPaths(outDir, inputs, operation)

	var saved, failed atomic.Int64
	save := func(r core.Result) {
		defer r.Close()

		dest := dests[r.Task.Seq]
		if err := loader.SaveImage(r.Image, dest); err != nil {
			logger.WithError(err).WithField("task_id", r.Task.ID).Error("Failed to save result")
			failed.Add(1)
			return
		}
		saved.Add(1)
	}

	var (
		sink     core.Sink = core.SinkFunc(save)
		async    *core.AsyncSink
		consumed = make(chan struct{})
	)
	if cfg.Delivery == config.DeliveryAsync {
		// without a window the consuming goroutine is just the Run loop
		async = core.NewAsyncSink(save, nil, len(inputs), logger)
		go func() {
			async.Run(context.Background())
			close(consumed)
		}()
		sink = async
	}

	processor := core.NewProcessor(loader, metrics.NewEvaluator(), logger)
	pool := core.NewPool(queue, processor, sink, logger,
		core.WithWorkers(cfg.Workers),
		core.WithFailureHandler(func(core.Task, error) { failed.Add(1) }),
	)
	pool.Start()

	for _, in := range inputs {
		queue.Enqueue(in, operation)
	}
	pool.Drain()

	if async != nil {
		async.Close()
		<-consumed
	}

	return int(saved.Load()), int(failed.Load())
}

func operationHelp() string {
	var b strings.Builder
	for _, op := range algorithms.Operations() {
		if alg, ok := algorithms.Get(op.String()); ok {
			fmt.Fprintf(&b, "  %-10s %s\n", op, alg.GetDescription())
		}
	}
	return b.String()
}

// outputPaths names one output per input. Inputs sharing a base name get _2, _3, ...
// in input order.
func outputPaths(dir string, inputs []string, operation string) []string {
	paths := make([]string, len(inputs))
	used := make(map[string]bool, len(inputs))
	for i, source := range inputs {
		base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		name := fmt.Sprintf("%s_%s", base, strings.ToLower(operation))
		candidate := name
		for n := 2; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		used[candidate] = true
		paths[i] = filepath.Join(dir, candidate+".png")
	}
	return paths
}
