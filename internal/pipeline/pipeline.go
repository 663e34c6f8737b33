// Package pipeline runs a registered node over image files.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"image-autotone/internal/algorithms"
	"image-autotone/internal/autotone"
	imgio "image-autotone/internal/io"
	"image-autotone/internal/metrics"
)

// Options controls a pipeline run.
type Options struct {
	Algorithm string                 // registered node name
	Params    map[string]interface{} // node parameters
	Workers   int                    // images processed at once, 0 for GOMAXPROCS
	Metrics   bool                   // evaluate before/after metrics
}

// Result holds the output of a pipeline run.
type Result struct {
	Images  int
	Width   int
	Height  int
	Elapsed time.Duration
	Metrics map[string]float64
}

// Pipeline loads a batch, applies the node and saves the result.
type Pipeline struct {
	logger    logrus.FieldLogger
	loader    *imgio.ImageLoader
	evaluator *metrics.Evaluator
	opts      Options
}

// New validates the node and its parameters up front. A nil logger
// discards output.
func New(logger logrus.FieldLogger, opts Options) (*Pipeline, error) {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	if opts.Algorithm == "" {
		opts.Algorithm = algorithms.ImageAutotoneName
	}
	if !algorithms.IsValidAlgorithm(opts.Algorithm) {
		return nil, fmt.Errorf("unknown algorithm: %s", opts.Algorithm)
	}
	if err := algorithms.ValidateParameters(opts.Algorithm, opts.Params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	return &Pipeline{
		logger:    logger,
		loader:    imgio.NewImageLoader(logger),
		evaluator: metrics.NewEvaluator(),
		opts:      opts,
	}, nil
}

// Process applies the node to an in-memory batch. Metrics are nil unless
// enabled.
func (p *Pipeline) Process(ctx context.Context, batch *autotone.Batch) (*autotone.Batch, map[string]float64, error) {
	start := time.Now()
	env := algorithms.Env{Logger: p.logger, Workers: p.opts.Workers}

	out, err := algorithms.Apply(ctx, p.opts.Algorithm, env, batch, p.opts.Params)
	if err != nil {
		p.logger.WithError(err).WithField("algorithm", p.opts.Algorithm).Error("PIPELINE: Processing failed")
		return nil, nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"algorithm": p.opts.Algorithm,
		"images":    batch.N,
		"duration":  time.Since(start),
	}).Info("PIPELINE: Batch processed")

	if !p.opts.Metrics {
		return out, nil, nil
	}

	m := p.evaluator.CalculateAll(batch, out)
	p.logger.WithFields(logrus.Fields(toFields(m))).Info("PIPELINE: Metrics calculated")
	return out, m, nil
}

// Run loads inputs, processes them as one batch and writes outputs[i] for
// inputs[i].
func (p *Pipeline) Run(ctx context.Context, inputs, outputs []string) (*Result, error) {
	if len(inputs) != len(outputs) {
		return nil, fmt.Errorf("have %d inputs and %d outputs", len(inputs), len(outputs))
	}
	start := time.Now()

	batch, err := p.loader.LoadBatch(inputs)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	out, m, err := p.Process(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}

	if err := p.loader.SaveBatch(out, outputs); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}

	return &Result{
		Images:  out.N,
		Width:   out.Width,
		Height:  out.Height,
		Elapsed: time.Since(start),
		Metrics: m,
	}, nil
}

// OutputPaths maps each input to dir/<name><suffix><ext>. An empty dir keeps
// the input's directory.
func OutputPaths(inputs []string, dir, suffix string) []string {
	outputs := make([]string, len(inputs))
	for i, in := range inputs {
		ext := filepath.Ext(in)
		name := strings.TrimSuffix(filepath.Base(in), ext) + suffix + ext
		d := dir
		if d == "" {
			d = filepath.Dir(in)
		}
		outputs[i] = filepath.Join(d, name)
	}
	return outputs
}

func toFields(m map[string]float64) map[string]interface{} {
	fields := make(map[string]interface{}, len(m))
	for k, v := range m {
		fields[k] = v
	}
	return fields
}
