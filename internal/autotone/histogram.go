package autotone

// Bins is the number of histogram bins and the number of intensity levels.
const Bins = 256

// MaxIntensity is the top of the internal intensity scale.
const MaxIntensity = 255.0

// Histogram counts channel intensities in Bins equal-width bins spanning
// [0, MaxIntensity]. The last bin is closed on the right.
type Histogram [Bins]int

var binEdges = func() [Bins + 1]float64 {
	var e [Bins + 1]float64
	step := MaxIntensity / Bins
	for i := range e {
		e[i] = float64(i) * step
	}
	e[Bins] = MaxIntensity
	return e
}()

// BinOf returns the bin an intensity falls into, or -1 when it lies outside
// [0, MaxIntensity] (NaN included).
func BinOf(v float64) int {
	if !(v >= 0 && v <= MaxIntensity) {
		return -1
	}
	idx := int(v * (Bins / MaxIntensity))
	if idx >= Bins {
		idx = Bins - 1
	}
	// Correct for floating point error at the bin edges.
	if v < binEdges[idx] {
		idx--
	} else if idx < Bins-1 && v >= binEdges[idx+1] {
		idx++
	}
	return idx
}

// BuildHistogram bins every in-range value of a channel plane.
func BuildHistogram(plane []float64) Histogram {
	var h Histogram
	for _, v := range plane {
		if b := BinOf(v); b >= 0 {
			h[b]++
		}
	}
	return h
}

// Cumulative returns the prefix sums of h.
func (h *Histogram) Cumulative() [Bins]int {
	var c [Bins]int
	sum := 0
	for i, n := range h {
		sum += n
		c[i] = sum
	}
	return c
}

// Count returns the number of binned values.
func (h *Histogram) Count() int {
	n := 0
	for _, v := range h {
		n += v
	}
	return n
}
