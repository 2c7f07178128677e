// Morphological operations algorithms
package algorithms

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// KernelSize is the side of the square structuring element used by every operation.
const KernelSize = 5

var (
	kernelOnce sync.Once
	kernel     gocv.Mat
)

// StructuringElement returns the shared 5x5 all-ones kernel. It lives for the whole
// process and must not be closed or written to by callers.
func StructuringElement() gocv.Mat {
	kernelOnce.Do(func() {
		kernel = gocv.GetStructuringElement(gocv.MorphRect, image.Pt(KernelSize, KernelSize))
	})
	return kernel
}

// Erosion implements morphological erosion
type Erosion struct{}

// NewErosion creates a new erosion algorithm
func NewErosion() *Erosion {
	return &Erosion{}
}

func (e *Erosion) Apply(input gocv.Mat) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	output := gocv.NewMat()
	gocv.Erode(input, &output, StructuringElement())
	return checkOutput(output, e.GetName())
}

func (e *Erosion) GetName() string {
	return string(OpErosion)
}

func (e *Erosion) GetDescription() string {
	return "Shrinks bright regions with a 5x5 rectangle"
}

// Dilation implements morphological dilation
type Dilation struct{}

// NewDilation creates a new dilation algorithm
func NewDilation() *Dilation {
	return &Dilation{}
}

func (d *Dilation) Apply(input gocv.Mat) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	output := gocv.NewMat()
	gocv.Dilate(input, &output, StructuringElement())
	return checkOutput(output, d.GetName())
}

func (d *Dilation) GetName() string {
	return string(OpDilation)
}

func (d *Dilation) GetDescription() string {
	return "Grows bright regions with a 5x5 rectangle"
}

// Opening implements morphological opening (erosion followed by dilation)
type Opening struct{}

// NewOpening creates a new opening algorithm
func NewOpening() *Opening {
	return &Opening{}
}

func (o *Opening) Apply(input gocv.Mat) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	output := gocv.NewMat()
	gocv.MorphologyEx(input, &output, gocv.MorphOpen, StructuringElement())
	return checkOutput(output, o.GetName())
}

func (o *Opening) GetName() string {
	return string(OpOpening)
}

func (o *Opening) GetDescription() string {
	return "Removes bright specks smaller than the kernel"
}

// Closing implements morphological closing (dilation followed by erosion)
type Closing struct{}

// NewClosing creates a new closing algorithm
func NewClosing() *Closing {
	return &Closing{}
}

func (c *Closing) Apply(input gocv.Mat) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	output := gocv.NewMat()
	gocv.MorphologyEx(input, &output, gocv.MorphClose, StructuringElement())
	return checkOutput(output, c.GetName())
}

func (c *Closing) GetName() string {
	return string(OpClosing)
}

func (c *Closing) GetDescription() string {
	return "Fills dark gaps smaller than the kernel"
}

func checkOutput(output gocv.Mat, name string) (gocv.Mat, error) {
	if output.Empty() {
		output.Close()
		return gocv.NewMat(), fmt.Errorf("%s produced an empty image", name)
	}
	return output, nil
}
