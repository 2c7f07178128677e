// Concrete implementations of quality metrics
package metrics

import (
	"math"

	"gocv.io/x/gocv"
)

// MSE implements the mean squared error over all channels
type MSE struct{}

func NewMSE() *MSE {
	return &MSE{}
}

func (m *MSE) Calculate(original, processed gocv.Mat) (float64, error) {
	if err := checkComparable(original, processed); err != nil {
		return 0, err
	}

	origFloat := gocv.NewMat()
	defer origFloat.Close()
	procFloat := gocv.NewMat()
	defer procFloat.Close()

	original.ConvertTo(&origFloat, gocv.MatTypeCV64F)
	processed.ConvertTo(&procFloat, gocv.MatTypeCV64F)

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.Subtract(origFloat, procFloat, &diff)

	norm := gocv.Norm(diff, gocv.NormL2)
	samples := float64(original.Total() * original.Channels())

	return norm * norm / samples, nil
}

func (m *MSE) GetName() string {
	return "MSE"
}

// PSNR implements Peak Signal-to-Noise Ratio metric
type PSNR struct {
	mse *MSE
}

// NewPSNR creates a new PSNR metric
func NewPSNR() *PSNR {
	return &PSNR{mse: NewMSE()}
}

func (p *PSNR) Calculate(original, processed gocv.Mat) (float64, error) {
	mse, err := p.mse.Calculate(original, processed)
	if err != nil {
		return 0, err
	}

	if mse == 0 {
		return math.Inf(1), nil // Perfect match
	}

	maxVal := 255.0
	return 20*math.Log10(maxVal) - 10*math.Log10(mse), nil
}

func (p *PSNR) GetName() string {
	return "PSNR"
}

// ChangedRatio is the fraction of pixels where any channel differs.
type ChangedRatio struct{}

func NewChangedRatio() *ChangedRatio {
	return &ChangedRatio{}
}

func (c *ChangedRatio) Calculate(original, processed gocv.Mat) (float64, error) {
	if err := checkComparable(original, processed); err != nil {
		return 0, err
	}

	a := original.ToBytes()
	b := processed.ToBytes()
	channels := original.Channels()
	pixels := len(a) / channels

	changed := 0
	for i := 0; i < len(a); i += channels {
		for c := 0; c < channels; c++ {
			if a[i+c] != b[i+c] {
				changed++
				break
			}
		}
	}

	return float64(changed) / float64(pixels), nil
}

func (c *ChangedRatio) GetName() string {
	return "Changed pixels"
}
