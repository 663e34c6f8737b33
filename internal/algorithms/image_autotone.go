package algorithms

import (
	"context"
	"fmt"

	"image-autotone/internal/autotone"
)

const ImageAutotoneName = "ImageAutotone"

// ImageAutotone exposes the autotone transform as a graph node.
type ImageAutotone struct{}

// NewImageAutotone creates a new autotone node
func NewImageAutotone() *ImageAutotone {
	return &ImageAutotone{}
}

func (a *ImageAutotone) Apply(ctx context.Context, env Env, input *autotone.Batch, params map[string]interface{}) (*autotone.Batch, error) {
	opts, err := a.Options(params)
	if err != nil {
		return nil, err
	}
	opts.Logger = env.Logger
	opts.Workers = env.Workers

	out, _, err := autotone.ApplyContext(ctx, input, opts)
	return out, err
}

// Options resolves a parameter map, filling in defaults for missing keys.
func (a *ImageAutotone) Options(params map[string]interface{}) (autotone.Options, error) {
	if err := a.Validate(params); err != nil {
		return autotone.Options{}, err
	}

	opts := autotone.DefaultOptions()
	if s, ok := params["shadows"].(string); ok {
		opts.Shadows = autotone.MustParseColor(s)
	}
	if s, ok := params["highlights"].(string); ok {
		opts.Highlights = autotone.MustParseColor(s)
	}
	if v, ok := toFloat(params["shadow_clip"]); ok {
		opts.ShadowClip = v
	}
	if v, ok := toFloat(params["highlight_clip"]); ok {
		opts.HighlightClip = v
	}
	return opts, nil
}

func (a *ImageAutotone) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"shadows":        autotone.DefaultShadows,
		"highlights":     autotone.DefaultHighlights,
		"shadow_clip":    autotone.DefaultShadowClip,
		"highlight_clip": autotone.DefaultHighlightClip,
	}
}

func (a *ImageAutotone) GetName() string {
	return ImageAutotoneName
}

func (a *ImageAutotone) GetDisplayName() string {
	return "Image Autotone"
}

func (a *ImageAutotone) GetCategory() string {
	return "image"
}

func (a *ImageAutotone) GetDescription() string {
	return "Clip color channels independently to increase contrast and alter color cast. " +
		"A reinterpretation of Photoshop's \"Auto Tone\" algorithm."
}

func (a *ImageAutotone) Validate(params map[string]interface{}) error {
	for _, key := range []string{"shadows", "highlights"} {
		val, ok := params[key]
		if !ok {
			continue
		}
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("%s must be a string, got %T", key, val)
		}
		if _, err := autotone.ParseColor(s); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	for _, key := range []string{"shadow_clip", "highlight_clip"} {
		val, ok := params[key]
		if !ok {
			continue
		}
		v, ok := toFloat(val)
		if !ok {
			return fmt.Errorf("%s must be a number, got %T", key, val)
		}
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("%w: %s must be between 0 and 1", autotone.ErrParam, key)
		}
	}

	return nil
}

func (a *ImageAutotone) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "shadows",
			Type:        "string",
			Default:     autotone.DefaultShadows,
			Description: "The color to use for the shadows. A comma-separated RGB value (e.g. '0,0,0' for black) or HEX string (e.g. '#000000').",
		},
		{
			Name:        "highlights",
			Type:        "string",
			Default:     autotone.DefaultHighlights,
			Description: "The color to use for the highlights. A comma-separated RGB value (e.g. '255,255,255' for white) or HEX string (e.g. '#FFFFFF').",
		},
		{
			Name:        "shadow_clip",
			Type:        "float",
			Min:         0.0,
			Max:         1.0,
			Step:        0.001,
			Default:     autotone.DefaultShadowClip,
			Description: "Fraction of pixels to clip from the shadows",
		},
		{
			Name:        "highlight_clip",
			Type:        "float",
			Min:         0.0,
			Max:         1.0,
			Step:        0.001,
			Default:     autotone.DefaultHighlightClip,
			Description: "Fraction of pixels to clip from the highlights",
		},
	}
}

// toFloat accepts the numeric types hosts commonly pass.
func toFloat(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
