package metrics

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-autotone/internal/autotone"
)

func batch(t *testing.T, width int, images ...[]byte) *autotone.Batch {
	t.Helper()
	b := autotone.NewBatch(len(images), 1, width)
	for i, img := range images {
		require.NoError(t, b.SetRGB8(i, img))
	}
	return b
}

func TestIdenticalBatches(t *testing.T) {
	b := batch(t, 2, []byte{0, 10, 20, 200, 210, 220})
	e := NewEvaluator()

	mse, err := e.Calculate("mse", b, b)
	require.NoError(t, err)
	assert.Zero(t, mse)

	psnr, err := e.Calculate("psnr", b, b)
	require.NoError(t, err)
	assert.Equal(t, 100.0, psnr)

	ratio, err := e.Calculate("contrast_ratio", b, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ratio, 1e-12)

	dr, err := e.Calculate("dynamic_range", b, b)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, dr, 1e-12)
}

func TestStretchIncreasesContrast(t *testing.T) {
	before := batch(t, 2, []byte{100, 100, 100, 150, 150, 150})
	after := batch(t, 2, []byte{0, 0, 0, 255, 255, 255})

	all := NewEvaluator().CalculateAll(before, after)
	require.Len(t, all, 4)
	assert.InDelta(t, 5.1, all["contrast_ratio"], 1e-9)
	assert.InDelta(t, 255.0, all["dynamic_range"], 1e-9)
	assert.InDelta(t, (100.0*100+105.0*105)/2, all["mse"], 1e-9)
	assert.Greater(t, all["psnr"], 0.0)
}

func TestCalculateAveragesImages(t *testing.T) {
	before := batch(t, 1, []byte{0, 0, 0}, []byte{0, 0, 0})
	after := batch(t, 1, []byte{0, 0, 0}, []byte{10, 10, 10})

	mse, err := NewEvaluator().Calculate("mse", before, after)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, mse, 1e-9)
}

func TestCalculateErrors(t *testing.T) {
	e := NewEvaluator()
	a := batch(t, 1, []byte{0, 0, 0})
	b := batch(t, 2, []byte{0, 0, 0, 1, 1, 1})

	_, err := e.Calculate("nope", a, a)
	assert.Error(t, err)

	_, err = e.Calculate("mse", a, b)
	assert.ErrorIs(t, err, autotone.ErrShape)

	assert.Empty(t, e.CalculateAll(a, b))
}

func TestMetricInfo(t *testing.T) {
	e := NewEvaluator()
	assert.Equal(t, []string{"contrast_ratio", "dynamic_range", "mse", "psnr"}, e.Names())

	info := e.GetMetricInfo()
	assert.False(t, info["mse"].HigherBetter)
	assert.Equal(t, [2]float64{0, 255}, info["dynamic_range"].Range)
}

func TestMetricsEncodeAsJSON(t *testing.T) {
	flat := batch(t, 2, []byte{128, 128, 128, 128, 128, 128})
	all := NewEvaluator().CalculateAll(flat, flat)
	require.Len(t, all, 4)

	_, err := json.Marshal(all)
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.WithFields(logrus.Fields{"psnr": all["psnr"], "mse": all["mse"]}).Info("metrics")
	assert.Contains(t, buf.String(), `"psnr":100`)
}
