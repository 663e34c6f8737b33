// Metrics system for comparing a batch before and after tone correction
package metrics

import (
	"fmt"
	"sort"

	"image-autotone/internal/autotone"
)

// Metric defines the interface for quality metrics
type Metric interface {
	// Calculate computes the metric for one image pair of 8-bit RGB data
	Calculate(original, processed []byte) (float64, error)

	GetName() string
	GetDescription() string

	// GetRange returns the value range (min, max)
	GetRange() (float64, float64)

	// IsHigherBetter returns true if higher values indicate better quality
	IsHigherBetter() bool
}

// Evaluator manages and calculates multiple metrics
type Evaluator struct {
	metrics map[string]Metric
}

// NewEvaluator creates a new metrics evaluator
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}

	e.RegisterDefaultMetrics()

	return e
}

// RegisterDefaultMetrics registers all default metrics
func (e *Evaluator) RegisterDefaultMetrics() {
	e.Register("mse", NewMSE())
	e.Register("psnr", NewPSNR())
	e.Register("contrast_ratio", NewContrastRatio())
	e.Register("dynamic_range", NewDynamicRange())
}

// Register registers a metric
func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

// Names returns the registered metric names, sorted.
func (e *Evaluator) Names() []string {
	names := make([]string, 0, len(e.metrics))
	for name := range e.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Calculate averages a metric over every image pair of two batches.
func (e *Evaluator) Calculate(name string, original, processed *autotone.Batch) (float64, error) {
	metric, exists := e.metrics[name]
	if !exists {
		return 0, fmt.Errorf("metric not found: %s", name)
	}
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}

	sum := 0.0
	for i := 0; i < original.N; i++ {
		v, err := metric.Calculate(original.RGB8(i), processed.RGB8(i))
		if err != nil {
			return 0, fmt.Errorf("%s on image %d: %w", name, i, err)
		}
		sum += v
	}
	return sum / float64(original.N), nil
}

// CalculateAll calculates all registered metrics, skipping any that fail.
func (e *Evaluator) CalculateAll(original, processed *autotone.Batch) map[string]float64 {
	results := make(map[string]float64)

	for name := range e.metrics {
		if value, err := e.Calculate(name, original, processed); err == nil {
			results[name] = value
		}
	}

	return results
}

// GetMetricInfo returns information about all metrics
func (e *Evaluator) GetMetricInfo() map[string]MetricInfo {
	info := make(map[string]MetricInfo)

	for name, metric := range e.metrics {
		lo, hi := metric.GetRange()
		info[name] = MetricInfo{
			Name:         metric.GetName(),
			Description:  metric.GetDescription(),
			Range:        [2]float64{lo, hi},
			HigherBetter: metric.IsHigherBetter(),
		}
	}

	return info
}

// MetricInfo provides metadata about a metric
type MetricInfo struct {
	Name         string
	Description  string
	Range        [2]float64 // [min, max]
	HigherBetter bool
}

func checkPair(original, processed *autotone.Batch) error {
	if err := original.Validate(); err != nil {
		return err
	}
	if err := processed.Validate(); err != nil {
		return err
	}
	if !original.SameShape(processed) {
		return fmt.Errorf("%w: batch dimensions mismatch", autotone.ErrShape)
	}
	return nil
}
