package estimate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Pose is a weighted agent pose estimate
type Pose struct {
	// X is position x coordinate
	X float64
	// Y is position y coordinate
	Y float64
	// Theta is heading in radians
	Theta float64
	// Weight is pose importance weight
	Weight float64
}

// Vec returns pose as (x, y, theta) vector
func (p Pose) Vec() mat.Vector {
	return mat.NewVecDense(3, []float64{p.X, p.Y, p.Theta})
}

// Landmark is a weighted landmark position estimate
type Landmark struct {
	// val is estimated position
	val *mat.VecDense
	// cov is estimated position covariance
	cov *mat.SymDense
	// w is landmark weight
	w float64
}

// NewLandmark returns landmark estimate given its position val, covariance cov and weight w.
// It returns error if val and cov dimensions don't match.
func NewLandmark(val mat.Vector, cov mat.Symmetric, w float64) (*Landmark, error) {
	if val == nil || cov == nil {
		return nil, fmt.Errorf("invalid landmark estimate: val=%v cov=%v", val, cov)
	}

	rv := val.Len()
	rc := cov.SymmetricDim()

	if rv != rc {
		return nil, fmt.Errorf("invalid dimensions. Val: %d, Cov: %d x %d", rv, rc, rc)
	}

	v := &mat.VecDense{}
	v.CloneFromVec(val)

	c := mat.NewSymDense(rc, nil)
	c.CopySym(cov)

	return &Landmark{
		val: v,
		cov: c,
		w:   w,
	}, nil
}

// Val returns estimated position
func (l *Landmark) Val() mat.Vector {
	v := &mat.VecDense{}
	v.CloneFromVec(l.val)

	return v
}

// Cov returns covariance estimate
func (l *Landmark) Cov() mat.Symmetric {
	cov := mat.NewSymDense(l.cov.SymmetricDim(), nil)
	cov.CopySym(l.cov)

	return cov
}

// Weight returns landmark weight
func (l *Landmark) Weight() float64 {
	return l.w
}
