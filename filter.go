package slam

import "gonum.org/v1/gonum/mat"

// Estimate is a Gaussian estimate
type Estimate interface {
	// Val returns estimate value
	Val() mat.Vector
	// Cov returns estimate covariance
	Cov() mat.Symmetric
}

// Sampler draws noise samples
type Sampler interface {
	// Sample returns a zero-mean noise sample with covariance cov
	Sample(cov mat.Symmetric) (mat.Vector, error)
}

// MotionModel models the noise of a motion command
type MotionModel interface {
	// Cov returns (dx, dy, dtheta) noise covariance of a motion
	// which travelled dist and rotated by dTheta
	Cov(dist, dTheta float64) mat.Symmetric
}

// SensorModel models the noise of a relative range measurement
type SensorModel interface {
	// Cov returns measurement noise covariance at range dist
	Cov(dist float64) mat.Symmetric
}
