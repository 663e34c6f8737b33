// Package autotone implements per-channel percentile contrast stretching.
//
// Each channel of each image is stretched independently: a clipped dark
// bound is mapped onto the shadow target and a clipped light bound onto the
// highlight target, with values outside the range saturating. Different
// targets per channel shift the color cast as well as the contrast.
package autotone

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultShadows       = "0,0,0"
	DefaultHighlights    = "255,255,255"
	DefaultShadowClip    = 0.001
	DefaultHighlightClip = 0.001
)

// ErrParam reports an out-of-range option.
var ErrParam = errors.New("invalid parameter")

// Options configures a batch invocation.
type Options struct {
	Shadows       Color
	Highlights    Color
	ShadowClip    float64
	HighlightClip float64

	// Workers bounds the number of images processed at once. Zero means
	// GOMAXPROCS; one processes the batch sequentially.
	Workers int

	// Logger receives per-channel bound details at debug level. Nil discards.
	Logger logrus.FieldLogger
}

// DefaultOptions returns black/white targets and 0.1% clipping on each end.
func DefaultOptions() Options {
	return Options{
		Shadows:       Black,
		Highlights:    White,
		ShadowClip:    DefaultShadowClip,
		HighlightClip: DefaultHighlightClip,
	}
}

// Validate checks the clip fractions and worker count.
func (o Options) Validate() error {
	if !inUnit(o.ShadowClip) {
		return fmt.Errorf("%w: shadow_clip %g outside [0,1]", ErrParam, o.ShadowClip)
	}
	if !inUnit(o.HighlightClip) {
		return fmt.Errorf("%w: highlight_clip %g outside [0,1]", ErrParam, o.HighlightClip)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrParam, o.Workers)
	}
	return nil
}

func inUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

func (o Options) channel(c int) ChannelParams {
	return ChannelParams{
		ShadowClip:    o.ShadowClip,
		HighlightClip: o.HighlightClip,
		Shadow:        o.Shadows[c],
		Highlight:     o.Highlights[c],
	}
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (o Options) workers(n int) int {
	w := o.Workers
	if w == 0 {
		w = runtime.GOMAXPROCS(0)
	}
	return min(w, n)
}

// Report collects per-image, per-channel stretch details in batch order.
type Report struct {
	Images [][Channels]ChannelReport `json:"images" yaml:"images"`
}

// Apply runs the autotone transform over every image of the batch.
func Apply(batch *Batch, opts Options) (*Batch, error) {
	out, _, err := ApplyContext(context.Background(), batch, opts)
	return out, err
}

// ApplyContext runs the transform and also returns the per-channel report.
// Images are independent; the first failure aborts the whole batch and no
// output is returned.
func ApplyContext(ctx context.Context, batch *Batch, opts Options) (*Batch, *Report, error) {
	if err := batch.Validate(); err != nil {
		return nil, nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	log := opts.logger()
	out := NewBatch(batch.N, batch.Height, batch.Width)
	report := &Report{Images: make([][Channels]ChannelReport, batch.N)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers(batch.N))
	for i := 0; i < batch.N; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reps, err := processImage(batch.Image(i), out.Image(i), batch.Height*batch.Width, opts)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			report.Images[i] = reps

			for c, r := range reps {
				log.WithFields(logrus.Fields{
					"image":   i,
					"channel": c,
					"dark":    r.Dark,
					"light":   r.Light,
					"skipped": r.Skipped,
				}).Debug("Channel stretched")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return out, report, nil
}

// processImage stretches the channels of one interleaved image from src into
// dst, which must have the same length.
func processImage(src, dst []float32, pixels int, opts Options) ([Channels]ChannelReport, error) {
	var reps [Channels]ChannelReport
	plane := make([]float64, pixels)

	for c := 0; c < Channels; c++ {
		for p := range plane {
			plane[p] = toIntensity(src[p*Channels+c])
		}

		stretched, rep, err := StretchChannel(plane, opts.channel(c))
		if err != nil {
			return reps, fmt.Errorf("channel %d: %w", c, err)
		}
		reps[c] = rep

		for p, v := range stretched {
			dst[p*Channels+c] = float32(Quantize(v)) / MaxIntensity
		}
	}
	return reps, nil
}
