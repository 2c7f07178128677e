package algorithms

import "fmt"

// Operation names a morphological transform. Matching is case-sensitive.
type Operation string

const (
	OpErosion  Operation = "Erosion"
	OpDilation Operation = "Dilation"
	OpOpening  Operation = "Opening"
	OpClosing  Operation = "Closing"
)

// Operations returns the supported operations in menu order.
func Operations() []Operation {
	return []Operation{OpErosion, OpDilation, OpOpening, OpClosing}
}

// OperationNames is Operations as plain strings, for select widgets and flag help.
func OperationNames() []string {
	ops := Operations()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return names
}

func ParseOperation(name string) (Operation, error) {
	for _, op := range Operations() {
		if string(op) == name {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

func (o Operation) String() string {
	return string(o)
}
