// Quality metrics comparing a source image with its processed result
package metrics

import (
	"fmt"
	"sort"

	"gocv.io/x/gocv"
)

// Metric defines the interface for quality metrics
type Metric interface {
	// Calculate computes the metric value
	Calculate(original, processed gocv.Mat) (float64, error)

	GetName() string
}

// Evaluator manages and calculates multiple metrics
type Evaluator struct {
	metrics map[string]Metric
}

// NewEvaluator creates an evaluator with the default metrics registered
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}

	e.Register("psnr", NewPSNR())
	e.Register("mse", NewMSE())
	e.Register("changed_ratio", NewChangedRatio())

	return e
}

func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

// Calculate calculates a specific metric
func (e *Evaluator) Calculate(name string, original, processed gocv.Mat) (float64, error) {
	metric, exists := e.metrics[name]
	if !exists {
		return 0, fmt.Errorf("metric not found: %s", name)
	}

	return metric.Calculate(original, processed)
}

// Evaluate calculates every registered metric, skipping the ones that fail.
func (e *Evaluator) Evaluate(original, processed gocv.Mat) map[string]float64 {
	results := make(map[string]float64, len(e.metrics))

	for _, name := range e.Names() {
		if value, err := e.Calculate(name, original, processed); err == nil {
			results[name] = value
		}
	}

	return results
}

// Names returns the registered metric names in sorted order.
func (e *Evaluator) Names() []string {
	names := make([]string, 0, len(e.metrics))
	for name := range e.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkComparable(original, processed gocv.Mat) error {
	if original.Empty() || processed.Empty() {
		return fmt.Errorf("empty images")
	}

	if original.Rows() != processed.Rows() || original.Cols() != processed.Cols() ||
		original.Channels() != processed.Channels() {
		return fmt.Errorf("image dimensions mismatch")
	}

	return nil
}
