package noise

import (
	"gonum.org/v1/gonum/mat"
)

// Zero is zero noise i.e. no noise
type Zero struct{}

// NewZero creates new zero noise and returns it.
func NewZero() *Zero {
	return &Zero{}
}

// Sample returns a zero vector of the size of cov.
func (e *Zero) Sample(cov mat.Symmetric) (mat.Vector, error) {
	return mat.NewVecDense(cov.SymmetricDim(), nil), nil
}

// String implements the Stringer interface.
func (e *Zero) String() string {
	return "Zero{}"
}
