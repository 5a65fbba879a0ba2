package noise

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Motion is motion command noise model.
// Position noise grows with travelled distance, heading noise with rotation.
type Motion struct {
	// posErr is position error per unit of travelled distance
	posErr float64
	// thetaErr is heading error per radian of rotation
	thetaErr float64
}

// NewMotion creates new Motion noise model and returns it.
// It returns error if either of the coefficients is negative.
func NewMotion(posErr, thetaErr float64) (*Motion, error) {
	if posErr < 0 || thetaErr < 0 {
		return nil, fmt.Errorf("invalid motion error: pos=%g theta=%g", posErr, thetaErr)
	}

	return &Motion{
		posErr:   posErr,
		thetaErr: thetaErr,
	}, nil
}

// Cov returns diagonal (dx, dy, dtheta) noise covariance of a motion
// which travelled dist and rotated by dTheta.
func (m *Motion) Cov(dist, dTheta float64) mat.Symmetric {
	sigmaPos := m.posErr * dist
	sigmaTheta := m.thetaErr * math.Abs(dTheta)

	cov := mat.NewSymDense(3, nil)
	cov.SetSym(0, 0, sigmaPos*sigmaPos)
	cov.SetSym(1, 1, sigmaPos*sigmaPos)
	cov.SetSym(2, 2, sigmaTheta*sigmaTheta)

	return cov
}

// String implements the Stringer interface.
func (m *Motion) String() string {
	return fmt.Sprintf("Motion{PosErr=%g ThetaErr=%g}", m.posErr, m.thetaErr)
}
