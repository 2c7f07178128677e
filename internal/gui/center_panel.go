// Side-by-side display of the source image and the latest result
package gui

import (
	"fmt"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

type CenterPanel struct {
	container *container.Split

	originalImage *canvas.Image
	resultImage   *canvas.Image
	resultCard    *widget.Card

	previewMax int
}

func NewCenterPanel(previewMax int) *CenterPanel {
	panel := &CenterPanel{previewMax: previewMax}

	placeholder := placeholderImage()

	panel.originalImage = canvas.NewImageFromImage(placeholder)
	panel.originalImage.FillMode = canvas.ImageFillContain
	panel.originalImage.ScaleMode = canvas.ImageScalePixels
	panel.originalImage.SetMinSize(fyne.NewSize(280, 240))

	panel.resultImage = canvas.NewImageFromImage(placeholder)
	panel.resultImage.FillMode = canvas.ImageFillContain
	panel.resultImage.ScaleMode = canvas.ImageScalePixels
	panel.resultImage.SetMinSize(fyne.NewSize(280, 240))

	panel.resultCard = widget.NewCard("Result", "", panel.resultImage)
	panel.container = container.NewHSplit(
		widget.NewCard("Original", "", panel.originalImage),
		panel.resultCard,
	)
	panel.container.SetOffset(0.5)

	return panel
}

func (cp *CenterPanel) GetContainer() fyne.CanvasObject {
	return cp.container
}

// SetOriginal must be called on the UI goroutine.
func (cp *CenterPanel) SetOriginal(img image.Image) {
	cp.originalImage.Image = img
	cp.originalImage.Refresh()
}

// SetResult must be called on the UI goroutine.
func (cp *CenterPanel) SetResult(img image.Image, subtitle string) {
	cp.resultImage.Image = img
	cp.resultImage.Refresh()
	cp.resultCard.SetSubTitle(subtitle)
}

func (cp *CenterPanel) ClearResult() {
	cp.SetResult(placeholderImage(), "")
}

// Preview converts a BGR Mat into an RGB image no larger than the configured bound.
func (cp *CenterPanel) Preview(mat gocv.Mat) (image.Image, error) {
	return previewImage(mat, cp.previewMax)
}

func previewImage(mat gocv.Mat, maxSide int) (image.Image, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("cannot preview an empty image")
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > maxSide || b.Dy() > maxSide {
		return imaging.Fit(img, maxSide, maxSide, imaging.Lanczos), nil
	}
	return img, nil
}

func placeholderImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 235, G: 235, B: 235, A: 255})
		}
	}
	return img
}
