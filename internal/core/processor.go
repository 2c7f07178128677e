package core

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"morphology-workbench/internal/algorithms"
	"morphology-workbench/internal/metrics"
)

// ImageSource loads the image a task refers to. *io.ImageLoader satisfies it.
type ImageSource interface {
	LoadImage(path string) (gocv.Mat, error)
}

// Processor turns a task into a result: load, dispatch, measure.
type Processor struct {
	source      ImageSource
	metricsEval *metrics.Evaluator
	logger      *logrus.Logger
}

// NewProcessor creates a processor. A nil evaluator disables result metrics.
func NewProcessor(source ImageSource, metricsEval *metrics.Evaluator, logger *logrus.Logger) *Processor {
	return &Processor{
		source:      source,
		metricsEval: metricsEval,
		logger:      logger,
	}
}

// Process runs task to completion. Unknown operations are rejected before the image is
// read.
func (p *Processor) Process(task Task) (Result, error) {
	start := time.Now()

	if !algorithms.IsValidAlgorithm(task.Operation) {
		return Result{}, fmt.Errorf("%w: %q", algorithms.ErrUnknownOperation, task.Operation)
	}

	input, err := p.source.LoadImage(task.Source)
	if err != nil {
		return Result{}, fmt.Errorf("load %s: %w", task.Source, err)
	}
	defer input.Close()

	if err := ValidateImage(input); err != nil {
		return Result{}, fmt.Errorf("invalid image %s: %w", task.Source, err)
	}

	output, err := algorithms.Apply(task.Operation, input)
	if err != nil {
		return Result{}, fmt.Errorf("%s failed: %w", task.Operation, err)
	}

	result := Result{
		Task:    task,
		Image:   output,
		Elapsed: time.Since(start),
	}
	if p.metricsEval != nil {
		result.Metrics = p.metricsEval.Evaluate(input, output)
	}

	p.logger.WithFields(logrus.Fields{
		"task_id":    task.ID,
		"operation":  task.Operation,
		"width":      output.Cols(),
		"height":     output.Rows(),
		"elapsed_ms": result.Elapsed.Milliseconds(),
	}).Info("PROCESSOR: Task completed")

	return result, nil
}
