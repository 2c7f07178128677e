// Algorithm registry for the fixed morphological operation set
package algorithms

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrUnknownOperation is returned when an operation name has no registered algorithm.
var ErrUnknownOperation = errors.New("unknown operation")

// Algorithm defines the interface for image processing algorithms
type Algorithm interface {
	Apply(input gocv.Mat) (gocv.Mat, error)
	GetName() string
	GetDescription() string
}

var algorithms = make(map[Operation]Algorithm)

func Register(op Operation, algorithm Algorithm) {
	algorithms[op] = algorithm
}

func Get(name string) (Algorithm, bool) {
	algorithm, exists := algorithms[Operation(name)]
	return algorithm, exists
}

// Apply runs the algorithm registered under name. The returned Mat is owned by the
// caller; input is left untouched.
func Apply(name string, input gocv.Mat) (gocv.Mat, error) {
	algorithm, exists := Get(name)
	if !exists {
		return gocv.NewMat(), fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}

	return algorithm.Apply(input)
}

func IsValidAlgorithm(name string) bool {
	_, exists := Get(name)
	return exists
}

func init() {
	Register(OpErosion, NewErosion())
	Register(OpDilation, NewDilation())
	Register(OpOpening, NewOpening())
	Register(OpClosing, NewClosing())
}
