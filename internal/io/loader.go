// Image loading and saving between files and autotone batches
package io

import (
	"fmt"
	stdio "io"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-autotone/internal/autotone"
)

// ImageLoader handles image file operations
type ImageLoader struct {
	logger logrus.FieldLogger
}

// NewImageLoader creates a loader. A nil logger discards output.
func NewImageLoader(logger logrus.FieldLogger) *ImageLoader {
	if logger == nil {
		logger = discardLogger()
	}
	return &ImageLoader{
		logger: logger,
	}
}

// LoadBatch reads the files in order into a single batch. All images must
// share the dimensions of the first.
func (il *ImageLoader) LoadBatch(paths []string) (*autotone.Batch, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input images")
	}

	var batch *autotone.Batch
	for i, path := range paths {
		mat, err := il.LoadImage(path)
		if err != nil {
			return nil, err
		}

		if batch == nil {
			batch = autotone.NewBatch(len(paths), mat.Rows(), mat.Cols())
		} else if mat.Rows() != batch.Height || mat.Cols() != batch.Width {
			mat.Close()
			return nil, fmt.Errorf("%w: %s is %dx%d, batch is %dx%d", autotone.ErrShape,
				path, mat.Cols(), mat.Rows(), batch.Width, batch.Height)
		}

		err = il.matToBatch(mat, batch, i)
		mat.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return batch, nil
}

// SaveBatch writes image i of the batch to paths[i].
func (il *ImageLoader) SaveBatch(batch *autotone.Batch, paths []string) error {
	if len(paths) != batch.N {
		return fmt.Errorf("have %d output paths for %d images", len(paths), batch.N)
	}

	for i, path := range paths {
		mat, err := il.batchToMat(batch, i)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		err = il.SaveImage(mat, path)
		mat.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (il *ImageLoader) LoadImage(filepath string) (gocv.Mat, error) {
	il.logger.WithField("filepath", filepath).Debug("Loading image")

	if !il.isSupportedImageFormat(filepath) {
		return gocv.NewMat(), il.unsupportedFormat(filepath)
	}

	mat := gocv.IMRead(filepath, gocv.IMReadColor)
	if mat.Empty() {
		return gocv.NewMat(), fmt.Errorf("failed to load image: %s", filepath)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": filepath,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("Image loaded successfully")

	return mat, nil
}

func (il *ImageLoader) SaveImage(mat gocv.Mat, filepath string) error {
	il.logger.WithField("filepath", filepath).Debug("Saving image")

	if mat.Empty() {
		return fmt.Errorf("cannot save empty image")
	}

	if !il.isSupportedImageFormat(filepath) {
		return il.unsupportedFormat(filepath)
	}

	success := gocv.IMWrite(filepath, mat)
	if !success {
		return fmt.Errorf("failed to save image: %s", filepath)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": filepath,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("Image saved successfully")

	return nil
}

// matToBatch copies a BGR Mat into image i of the batch as RGB.
func (il *ImageLoader) matToBatch(mat gocv.Mat, batch *autotone.Batch, i int) error {
	if mat.Channels() != autotone.Channels {
		return fmt.Errorf("unsupported number of channels: %d", mat.Channels())
	}

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(mat, &rgb, gocv.ColorBGRToRGB)

	return batch.SetRGB8(i, rgb.ToBytes())
}

// batchToMat builds a BGR Mat from image i of the batch.
func (il *ImageLoader) batchToMat(batch *autotone.Batch, i int) (gocv.Mat, error) {
	rgb, err := gocv.NewMatFromBytes(batch.Height, batch.Width, gocv.MatTypeCV8UC3, batch.RGB8(i))
	if err != nil {
		return gocv.NewMat(), err
	}
	defer rgb.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(rgb, &bgr, gocv.ColorRGBToBGR)
	return bgr, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(stdio.Discard)
	return l
}

var supportedExtensions = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}

func (il *ImageLoader) isSupportedImageFormat(filepath string) bool {
	ext := strings.ToLower(getFileExtension(filepath))

	for _, format := range supportedExtensions {
		if ext == format {
			return true
		}
	}

	return false
}

func getFileExtension(filepath string) string {
	for i := len(filepath) - 1; i >= 0; i-- {
		if filepath[i] == '.' {
			return filepath[i:]
		}
		if filepath[i] == '/' || filepath[i] == '\\' {
			break
		}
	}
	return ""
}

// GetSupportedFormats returns the accepted file extensions.
func (il *ImageLoader) GetSupportedFormats() []string {
	return append([]string(nil), supportedExtensions...)
}

func (il *ImageLoader) unsupportedFormat(filepath string) error {
	return fmt.Errorf("unsupported image format: %s (supported: %s)",
		filepath, strings.Join(il.GetSupportedFormats(), " "))
}

func (il *ImageLoader) ValidateImageFile(filepath string) error {
	if !il.isSupportedImageFormat(filepath) {
		return il.unsupportedFormat(filepath)
	}

	mat := gocv.IMRead(filepath, gocv.IMReadColor)
	defer mat.Close()

	if mat.Empty() {
		return fmt.Errorf("invalid or corrupted image file")
	}

	if mat.Cols() <= 0 || mat.Rows() <= 0 {
		return fmt.Errorf("invalid image dimensions")
	}

	return nil
}
