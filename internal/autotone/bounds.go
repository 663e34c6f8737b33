package autotone

// ClipBounds computes the stretch bounds for one channel histogram.
//
// lower is the first bin whose cumulative count exceeds total*clip; upper is
// the last bin whose cumulative count is below total - total*clip. Either
// search coming up empty yields a *RangeError.
func ClipBounds(hist *Histogram, total int, clip float64) (lower, upper int, err error) {
	threshold := float64(total) * clip
	cum := hist.Cumulative()

	lower = -1
	for i, c := range cum {
		if float64(c) > threshold {
			lower = i
			break
		}
	}
	if lower < 0 {
		return 0, 0, &RangeError{Bound: "lower", Clip: clip, Threshold: threshold, Total: total}
	}

	upper = -1
	limit := float64(total) - threshold
	for i := Bins - 1; i >= 0; i-- {
		if float64(cum[i]) < limit {
			upper = i
			break
		}
	}
	if upper < 0 {
		return 0, 0, &RangeError{Bound: "upper", Clip: clip, Threshold: threshold, Total: total}
	}

	return lower, upper, nil
}
