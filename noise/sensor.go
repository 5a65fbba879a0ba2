package noise

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MinVariance is the smallest variance returned by noise models.
// It keeps noise covariances invertible at zero range.
const MinVariance = 1e-12

// Sensor is relative range sensor noise model.
// Its standard deviation grows linearly with range.
type Sensor struct {
	// err is sensor error per unit of range
	err float64
}

// NewSensor creates new Sensor noise model with error err per unit of range.
// It returns error if err is negative.
func NewSensor(err float64) (*Sensor, error) {
	if err < 0 {
		return nil, fmt.Errorf("invalid sensor error: %g", err)
	}

	return &Sensor{err: err}, nil
}

// Cov returns isotropic 2x2 measurement noise covariance at range dist.
func (s *Sensor) Cov(dist float64) mat.Symmetric {
	sigma := s.err * dist
	v := sigma * sigma
	if v < MinVariance {
		v = MinVariance
	}

	return mat.NewSymDense(2, []float64{v, 0, 0, v})
}

// Err returns sensor error coefficient.
func (s *Sensor) Err() float64 {
	return s.err
}

// String implements the Stringer interface.
func (s *Sensor) String() string {
	return fmt.Sprintf("Sensor{Err=%g}", s.err)
}
