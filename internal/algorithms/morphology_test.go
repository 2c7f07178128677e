package algorithms

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

const (
	testRows     = 24
	testCols     = 32
	testChannels = 3
)

func randomPixels(seed int64) []byte {
	rng := rand.New(rand.NewSource(seed))
	data := make([]byte, testRows*testCols*testChannels)
	for i := range data {
		data[i] = byte(rng.Intn(256))
	}
	return data
}

// rankFilter is a per-channel min or max over the 5x5 neighbourhood. Pixels outside the
// image are ignored, which matches OpenCV's default morphology border.
func rankFilter(src []byte, useMax bool) []byte {
	dst := make([]byte, len(src))
	r := KernelSize / 2
	for y := 0; y < testRows; y++ {
		for x := 0; x < testCols; x++ {
			for c := 0; c < testChannels; c++ {
				best := byte(255)
				if useMax {
					best = 0
				}
				for dy := -r; dy <= r; dy++ {
					for dx := -r; dx <= r; dx++ {
						yy, xx := y+dy, x+dx
						if yy < 0 || yy >= testRows || xx < 0 || xx >= testCols {
							continue
						}
						v := src[(yy*testCols+xx)*testChannels+c]
						if useMax && v > best || !useMax && v < best {
							best = v
						}
					}
				}
				dst[(y*testCols+x)*testChannels+c] = best
			}
		}
	}
	return dst
}

func reference(op Operation, src []byte) []byte {
	erode := func(b []byte) []byte { return rankFilter(b, false) }
	dilate := func(b []byte) []byte { return rankFilter(b, true) }

	switch op {
	case OpErosion:
		return erode(src)
	case OpDilation:
		return dilate(src)
	case OpOpening:
		return dilate(erode(src))
	case OpClosing:
		return erode(dilate(src))
	}
	return nil
}

func TestApplyMatchesReference(t *testing.T) {
	src := randomPixels(42)

	for _, op := range Operations() {
		t.Run(op.String(), func(t *testing.T) {
			input, err := gocv.NewMatFromBytes(testRows, testCols, gocv.MatTypeCV8UC3, src)
			require.NoError(t, err)
			defer input.Close()

			output, err := Apply(op.String(), input)
			require.NoError(t, err)
			defer output.Close()

			assert.Equal(t, testRows, output.Rows())
			assert.Equal(t, testCols, output.Cols())
			assert.Equal(t, testChannels, output.Channels())
			assert.Equal(t, reference(op, src), output.ToBytes())
		})
	}
}

func TestApplyLeavesInputUntouched(t *testing.T) {
	src := randomPixels(7)
	before := append([]byte(nil), src...)

	input, err := gocv.NewMatFromBytes(testRows, testCols, gocv.MatTypeCV8UC3, src)
	require.NoError(t, err)
	defer input.Close()

	output, err := Apply("Closing", input)
	require.NoError(t, err)
	defer output.Close()

	assert.Equal(t, before, input.ToBytes())
}

func TestApplyUnknownOperation(t *testing.T) {
	input := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	defer input.Close()

	for _, name := range []string{"erosion", "EROSION", "Gradient", ""} {
		output, err := Apply(name, input)
		assert.ErrorIs(t, err, ErrUnknownOperation, name)
		assert.True(t, output.Empty())
		output.Close()
	}
}

func TestApplyEmptyInput(t *testing.T) {
	input := gocv.NewMat()
	defer input.Close()

	output, err := Apply("Dilation", input)
	assert.Error(t, err)
	assert.True(t, output.Empty())
}

func TestParseOperation(t *testing.T) {
	op, err := ParseOperation("Opening")
	require.NoError(t, err)
	assert.Equal(t, OpOpening, op)

	_, err = ParseOperation("opening")
	assert.ErrorIs(t, err, ErrUnknownOperation)

	assert.Equal(t, []string{"Erosion", "Dilation", "Opening", "Closing"}, OperationNames())
	for _, name := range OperationNames() {
		assert.True(t, IsValidAlgorithm(name))
	}
}

func TestStructuringElementIsAllOnes(t *testing.T) {
	k := StructuringElement()
	require.Equal(t, KernelSize, k.Rows())
	require.Equal(t, KernelSize, k.Cols())
	assert.Equal(t, KernelSize*KernelSize, gocv.CountNonZero(k))
	assert.Equal(t, k.Ptr(), StructuringElement().Ptr())
}
