// Concrete implementations of quality metrics
package metrics

import (
	"fmt"
	"math"

	"image-autotone/internal/autotone"
)

// MSE implements Mean Squared Error over all channels
type MSE struct{}

// NewMSE creates a new MSE metric
func NewMSE() *MSE {
	return &MSE{}
}

func (m *MSE) Calculate(original, processed []byte) (float64, error) {
	if len(original) == 0 || len(original) != len(processed) {
		return 0, fmt.Errorf("image dimensions mismatch")
	}

	sumSquaredDiff := 0.0
	for i := range original {
		diff := float64(original[i]) - float64(processed[i])
		sumSquaredDiff += diff * diff
	}
	return sumSquaredDiff / float64(len(original)), nil
}

func (m *MSE) GetName() string {
	return "MSE"
}

func (m *MSE) GetDescription() string {
	return "Mean Squared Error between input and output"
}

func (m *MSE) GetRange() (float64, float64) {
	return 0, 65025
}

func (m *MSE) IsHigherBetter() bool {
	return false
}

// PSNR implements Peak Signal-to-Noise Ratio metric
type PSNR struct {
	mse MSE
}

// NewPSNR creates a new PSNR metric
func NewPSNR() *PSNR {
	return &PSNR{}
}

// Calculate is capped at the top of GetRange, which identical images reach.
func (p *PSNR) Calculate(original, processed []byte) (float64, error) {
	mse, err := p.mse.Calculate(original, processed)
	if err != nil {
		return 0, err
	}
	_, maxPSNR := p.GetRange()
	if mse == 0 {
		return maxPSNR, nil
	}

	maxVal := 255.0
	return min(20*math.Log10(maxVal/math.Sqrt(mse)), maxPSNR), nil
}

func (p *PSNR) GetName() string {
	return "PSNR"
}

func (p *PSNR) GetDescription() string {
	return "Peak Signal-to-Noise Ratio - how far the output departs from the input"
}

func (p *PSNR) GetRange() (float64, float64) {
	return 0, 100
}

func (p *PSNR) IsHigherBetter() bool {
	return true
}

// ContrastRatio compares per-channel standard deviation after and before.
type ContrastRatio struct{}

// NewContrastRatio creates a new contrast ratio metric
func NewContrastRatio() *ContrastRatio {
	return &ContrastRatio{}
}

func (c *ContrastRatio) Calculate(original, processed []byte) (float64, error) {
	if len(original) == 0 || len(original) != len(processed) {
		return 0, fmt.Errorf("image dimensions mismatch")
	}

	ratios := 0.0
	for ch := 0; ch < autotone.Channels; ch++ {
		before := stddev(original, ch)
		after := stddev(processed, ch)
		if before == 0 {
			ratios += 1
			continue
		}
		ratios += after / before
	}
	return ratios / autotone.Channels, nil
}

func (c *ContrastRatio) GetName() string {
	return "Contrast Ratio"
}

func (c *ContrastRatio) GetDescription() string {
	return "Output over input channel standard deviation"
}

func (c *ContrastRatio) GetRange() (float64, float64) {
	return 0, 2
}

func (c *ContrastRatio) IsHigherBetter() bool {
	return true
}

// DynamicRange is the mean per-channel max-min spread of the output.
type DynamicRange struct{}

// NewDynamicRange creates a new dynamic range metric
func NewDynamicRange() *DynamicRange {
	return &DynamicRange{}
}

func (d *DynamicRange) Calculate(_, processed []byte) (float64, error) {
	if len(processed) == 0 {
		return 0, fmt.Errorf("empty image")
	}

	spread := 0.0
	for ch := 0; ch < autotone.Channels; ch++ {
		lo, hi := byte(255), byte(0)
		for i := ch; i < len(processed); i += autotone.Channels {
			lo = min(lo, processed[i])
			hi = max(hi, processed[i])
		}
		spread += float64(hi) - float64(lo)
	}
	return spread / autotone.Channels, nil
}

func (d *DynamicRange) GetName() string {
	return "Dynamic Range"
}

func (d *DynamicRange) GetDescription() string {
	return "Mean per-channel spread between darkest and brightest output level"
}

func (d *DynamicRange) GetRange() (float64, float64) {
	return 0, 255
}

func (d *DynamicRange) IsHigherBetter() bool {
	return true
}

func stddev(data []byte, channel int) float64 {
	n := 0
	sum := 0.0
	for i := channel; i < len(data); i += autotone.Channels {
		sum += float64(data[i])
		n++
	}
	if n == 0 {
		return 0
	}
	mean := sum / float64(n)

	sumSquaredDiff := 0.0
	for i := channel; i < len(data); i += autotone.Channels {
		diff := float64(data[i]) - mean
		sumSquaredDiff += diff * diff
	}
	return math.Sqrt(sumSquaredDiff / float64(n))
}
