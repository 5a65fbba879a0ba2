package kalman

import (
	slam "github.com/milosgajdos/go-fastslam"
	"gonum.org/v1/gonum/mat"
)

// Kalman is Kalman Filter
type Kalman interface {
	// slam.Estimate is Gaussian estimate of the filter state
	slam.Estimate
	// Update corrects the filter state using measurement z with noise covariance r.
	// It returns the likelihood of z.
	Update(z mat.Vector, r mat.Symmetric) (float64, error)
	// Innovation returns the innovation vector of the last update
	Innovation() mat.Vector
	// Gain returns Kalman filter gain of the last update
	Gain() mat.Matrix
}
