package autotone

// ChannelParams holds the stretch settings for a single channel.
type ChannelParams struct {
	ShadowClip    float64
	HighlightClip float64
	Shadow        uint8 // target for the dark bound
	Highlight     uint8 // target for the light bound
}

// ChannelReport describes how a channel was stretched.
type ChannelReport struct {
	Dark    int  `json:"dark" yaml:"dark"`
	Light   int  `json:"light" yaml:"light"`
	Skipped bool `json:"skipped" yaml:"skipped"`
}

// StretchChannel remaps one channel plane of intensities in [0,255] so that
// its clipped dark bound lands on p.Shadow and its light bound on
// p.Highlight. The input is not modified.
//
// A channel whose light bound does not exceed its dark bound (a flat
// channel) is returned unchanged with Skipped set.
func StretchChannel(plane []float64, p ChannelParams) ([]float64, ChannelReport, error) {
	out := make([]float64, len(plane))
	copy(out, plane)

	hist := BuildHistogram(plane)
	total := len(plane)

	dark, light, err := ClipBounds(&hist, total, p.ShadowClip)
	if err != nil {
		return nil, ChannelReport{}, err
	}
	_, upperLight, err := ClipBounds(&hist, total, p.HighlightClip)
	if err != nil {
		return nil, ChannelReport{}, err
	}
	light = max(light, upperLight)

	report := ChannelReport{Dark: dark, Light: light}
	if light <= dark {
		report.Skipped = true
		return out, report, nil
	}

	shadow := float64(p.Shadow)
	span := float64(p.Highlight) - shadow
	width := float64(light - dark)
	for i, v := range out {
		out[i] = clamp((v-float64(dark))*span/width+shadow, 0, MaxIntensity)
	}
	return out, report, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
