package autotone

import (
	"fmt"
	"math"
)

// Channels is the number of color channels per pixel.
const Channels = 3

// Batch is an ordered set of equally sized RGB images stored as one
// contiguous N×H×W×3 buffer of normalized values in [0,1].
type Batch struct {
	N      int
	Height int
	Width  int
	Pix    []float32
}

// NewBatch allocates a zeroed batch.
func NewBatch(n, height, width int) *Batch {
	return &Batch{
		N:      n,
		Height: height,
		Width:  width,
		Pix:    make([]float32, n*height*width*Channels),
	}
}

// Validate checks the dimensions against the pixel buffer.
func (b *Batch) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil batch", ErrShape)
	}
	if b.N <= 0 || b.Height <= 0 || b.Width <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%dx%d", ErrShape, b.N, b.Height, b.Width)
	}
	if want := b.N * b.ImageLen(); len(b.Pix) != want {
		return fmt.Errorf("%w: pixel buffer has %d values, want %d", ErrShape, len(b.Pix), want)
	}
	return nil
}

// ImageLen is the number of values in one image.
func (b *Batch) ImageLen() int {
	return b.Height * b.Width * Channels
}

// Image returns the values of image i. The slice aliases the batch.
func (b *Batch) Image(i int) []float32 {
	n := b.ImageLen()
	return b.Pix[i*n : (i+1)*n : (i+1)*n]
}

// At returns the normalized RGB value at (x, y) of image i.
func (b *Batch) At(i, x, y int) [Channels]float32 {
	off := i*b.ImageLen() + (y*b.Width+x)*Channels
	return [Channels]float32{b.Pix[off], b.Pix[off+1], b.Pix[off+2]}
}

// SetRGB8 fills image i from interleaved 8-bit RGB data.
func (b *Batch) SetRGB8(i int, rgb []byte) error {
	if len(rgb) != b.ImageLen() {
		return fmt.Errorf("%w: got %d bytes for a %dx%d image", ErrShape, len(rgb), b.Width, b.Height)
	}
	img := b.Image(i)
	for k, v := range rgb {
		img[k] = float32(v) / MaxIntensity
	}
	return nil
}

// RGB8 returns image i as interleaved 8-bit RGB data.
func (b *Batch) RGB8(i int) []byte {
	img := b.Image(i)
	out := make([]byte, len(img))
	for k, v := range img {
		out[k] = Quantize(toIntensity(v))
	}
	return out
}

// Clone returns a deep copy.
func (b *Batch) Clone() *Batch {
	c := *b
	c.Pix = make([]float32, len(b.Pix))
	copy(c.Pix, b.Pix)
	return &c
}

// SameShape reports whether two batches have identical dimensions.
func (b *Batch) SameShape(o *Batch) bool {
	return b.N == o.N && b.Height == o.Height && b.Width == o.Width
}

// toIntensity scales a normalized value onto [0,255]. The product is taken
// in float32, matching the storage precision of the batch.
func toIntensity(v float32) float64 {
	return float64(MaxIntensity * v)
}

// Quantize clips an intensity to [0,255] and rounds it to the nearest level.
// NaN maps to 0.
func Quantize(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= MaxIntensity {
		return 255
	}
	return uint8(math.Round(v))
}
