// Session image state shared between the presentation shell and delivered results
package core

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gocv.io/x/gocv"
)

// ImageData holds the selected source image and the most recent result
type ImageData struct {
	mu         sync.RWMutex
	original   gocv.Mat
	filepath   string
	result     gocv.Mat
	resultTask Task
	hasResult  bool
}

// NewImageData creates a new thread-safe image data container
func NewImageData() *ImageData {
	return &ImageData{
		original: gocv.NewMat(),
		result:   gocv.NewMat(),
	}
}

// SetOriginal records the selected source. The previous result is discarded.
func (img *ImageData) SetOriginal(mat gocv.Mat, filepath string) error {
	if err := ValidateImage(mat); err != nil {
		return err
	}

	img.mu.Lock()
	defer img.mu.Unlock()

	img.original.Close()
	img.original = mat.Clone()
	img.filepath = filepath
	img.clearResult()

	return nil
}

// SetResult takes ownership of r.Image and replaces the previous result.
func (img *ImageData) SetResult(r Result) error {
	if r.Image.Empty() {
		return fmt.Errorf("cannot set empty result")
	}

	img.mu.Lock()
	defer img.mu.Unlock()

	img.clearResult()
	img.result = r.Image
	img.resultTask = r.Task
	img.hasResult = true

	return nil
}

// GetOriginal returns a copy of the source image
func (img *ImageData) GetOriginal() gocv.Mat {
	img.mu.RLock()
	defer img.mu.RUnlock()

	if img.original.Empty() {
		return gocv.NewMat()
	}
	return img.original.Clone()
}

// GetResult returns a copy of the latest result
func (img *ImageData) GetResult() gocv.Mat {
	img.mu.RLock()
	defer img.mu.RUnlock()

	if !img.hasResult {
		return gocv.NewMat()
	}
	return img.result.Clone()
}

func (img *ImageData) ResultTaskID() uuid.UUID {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.resultTask.ID
}

func (img *ImageData) HasImage() bool {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.filepath != ""
}

func (img *ImageData) HasResult() bool {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.hasResult
}

// GetFilepath returns the current source path
func (img *ImageData) GetFilepath() string {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.filepath
}

// Close releases all resources
func (img *ImageData) Close() {
	img.mu.Lock()
	defer img.mu.Unlock()

	img.original.Close()
	img.original = gocv.NewMat()
	img.filepath = ""
	img.clearResult()
}

func (img *ImageData) clearResult() {
	img.result.Close()
	img.result = gocv.NewMat()
	img.resultTask = Task{}
	img.hasResult = false
}

// ValidateImage validates an OpenCV Mat for basic requirements
func ValidateImage(mat gocv.Mat) error {
	if mat.Empty() {
		return fmt.Errorf("image is empty")
	}

	if mat.Cols() <= 0 || mat.Rows() <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", mat.Cols(), mat.Rows())
	}

	channels := mat.Channels()
	if channels < 1 || channels > 4 {
		return fmt.Errorf("unsupported channel count: %d", channels)
	}

	return nil
}
