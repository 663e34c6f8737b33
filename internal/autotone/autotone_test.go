package autotone

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// batchOf builds a batch from 8-bit RGB images of the given size.
func batchOf(t *testing.T, height, width int, images ...[]byte) *Batch {
	t.Helper()
	b := NewBatch(len(images), height, width)
	for i, img := range images {
		require.NoError(t, b.SetRGB8(i, img))
	}
	return b
}

func solid(pixels int, c Color) []byte {
	out := make([]byte, 0, pixels*Channels)
	for i := 0; i < pixels; i++ {
		out = append(out, c[0], c[1], c[2])
	}
	return out
}

// ramp returns a 16x16 image whose channels each cover every level once.
func ramp(offset int) []byte {
	out := make([]byte, 0, 256*Channels)
	for i := 0; i < 256; i++ {
		out = append(out, byte(i), byte((i+offset)%256), byte(255-i))
	}
	return out
}

func noClip() Options {
	opts := DefaultOptions()
	opts.ShadowClip = 0
	opts.HighlightClip = 0
	return opts
}

func TestApplyFlatGrayUnchanged(t *testing.T) {
	in := batchOf(t, 2, 2, solid(4, Color{128, 128, 128}))

	out, report, err := ApplyContext(context.Background(), in, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, solid(4, Color{128, 128, 128}), out.RGB8(0))
	for c, r := range report.Images[0] {
		assert.True(t, r.Skipped, "channel %d", c)
	}
}

func TestApplyBlackAndWhiteUnchanged(t *testing.T) {
	img := []byte{0, 0, 0, 255, 255, 255}
	in := batchOf(t, 1, 2, img)

	out, err := Apply(in, noClip())
	require.NoError(t, err)
	assert.Equal(t, img, out.RGB8(0))
	assert.Equal(t, in.Pix, out.Pix)
}

func TestApplyFullRangeRoundTrip(t *testing.T) {
	img := ramp(0)
	in := batchOf(t, 16, 16, img)

	out, err := Apply(in, noClip())
	require.NoError(t, err)

	got := out.RGB8(0)
	require.Len(t, got, len(img))
	for i := range img {
		assert.InDelta(t, int(img[i]), int(got[i]), 1, "value %d", i)
	}
	assert.Equal(t, byte(0), got[0])
	assert.Equal(t, byte(255), got[len(got)-1-2])
}

func TestApplyStretchesNarrowRange(t *testing.T) {
	img := make([]byte, 0, 4*Channels)
	for _, v := range []byte{64, 96, 128, 192} {
		img = append(img, v, v, v)
	}
	in := batchOf(t, 2, 2, img)

	out, err := Apply(in, noClip())
	require.NoError(t, err)

	got := out.RGB8(0)
	assert.Equal(t, byte(0), got[0])
	assert.Equal(t, byte(255), got[9])
	assert.Less(t, got[3], got[6])
}

func TestApplyColorCast(t *testing.T) {
	in := batchOf(t, 16, 16, ramp(7))
	opts := noClip()
	opts.Highlights = Color{255, 0, 0}

	out, err := Apply(in, opts)
	require.NoError(t, err)

	got := out.RGB8(0)
	for p := 0; p < 256; p++ {
		assert.Zero(t, got[p*Channels+1])
		assert.Zero(t, got[p*Channels+2])
	}
	assert.Equal(t, byte(255), got[255*Channels])
}

func TestApplyPreservesShapeAndOrder(t *testing.T) {
	imgs := [][]byte{ramp(0), ramp(50), ramp(200)}
	in := batchOf(t, 16, 16, imgs...)
	opts := DefaultOptions()
	opts.Shadows = Color{20, 10, 0}
	opts.ShadowClip = 0.05

	out, err := Apply(in, opts)
	require.NoError(t, err)
	require.True(t, in.SameShape(out))
	require.Len(t, out.Pix, len(in.Pix))

	for i, img := range imgs {
		single, err := Apply(batchOf(t, 16, 16, img), opts)
		require.NoError(t, err)
		assert.Equal(t, single.Image(0), out.Image(i), "image %d", i)
	}
}

func TestApplyWorkersAgree(t *testing.T) {
	in := batchOf(t, 16, 16, ramp(0), ramp(13), ramp(99), ramp(180))

	seq := DefaultOptions()
	seq.Workers = 1
	par := DefaultOptions()
	par.Workers = 4

	a, err := Apply(in, seq)
	require.NoError(t, err)
	b, err := Apply(in, par)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	in := batchOf(t, 16, 16, ramp(3))
	before := in.Clone()

	_, err := Apply(in, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, before.Pix, in.Pix)
}

func TestApplyErrors(t *testing.T) {
	t.Run("black image has no upper bound", func(t *testing.T) {
		in := batchOf(t, 2, 2, ramp(0)[:12], solid(4, Black))

		out, err := Apply(in, DefaultOptions())
		require.ErrorIs(t, err, ErrRange)
		assert.Nil(t, out)

		var re *RangeError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "upper", re.Bound)
		assert.Contains(t, err.Error(), "image 1")
	})

	t.Run("clip fraction out of range", func(t *testing.T) {
		opts := DefaultOptions()
		opts.HighlightClip = 1.5
		_, err := Apply(batchOf(t, 1, 1, solid(1, White)), opts)
		assert.ErrorIs(t, err, ErrParam)
	})

	t.Run("full clip", func(t *testing.T) {
		opts := DefaultOptions()
		opts.ShadowClip = 1
		_, err := Apply(batchOf(t, 16, 16, ramp(0)), opts)
		assert.ErrorIs(t, err, ErrRange)
	})

	t.Run("bad shape", func(t *testing.T) {
		_, err := Apply(&Batch{N: 1, Height: 2, Width: 2, Pix: make([]float32, 5)}, DefaultOptions())
		assert.ErrorIs(t, err, ErrShape)

		_, err = Apply(nil, DefaultOptions())
		assert.ErrorIs(t, err, ErrShape)
	})

	t.Run("negative workers", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Workers = -1
		_, err := Apply(batchOf(t, 1, 1, solid(1, White)), opts)
		assert.ErrorIs(t, err, ErrParam)
	})
}

func TestApplyContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := ApplyContext(ctx, batchOf(t, 16, 16, ramp(0)), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestApplyLogsChannelBounds(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	opts := noClip()
	opts.Logger = logger
	_, err := Apply(batchOf(t, 1, 2, []byte{0, 0, 0, 255, 255, 255}), opts)
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, Channels)
	assert.Equal(t, 0, entries[0].Data["dark"])
	assert.Equal(t, 254, entries[0].Data["light"])
}

func TestQuantize(t *testing.T) {
	assert.Equal(t, uint8(0), Quantize(-3))
	assert.Equal(t, uint8(255), Quantize(300))
	assert.Equal(t, uint8(128), Quantize(127.5))
	assert.Equal(t, uint8(127), Quantize(127.49))
}
