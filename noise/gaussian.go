package noise

import (
	"fmt"
	"time"

	"github.com/milosgajdos/go-fastslam/matrix"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Correlated is zero-mean Gaussian noise whose covariance is given per sample.
// Samples are generated as L*z where L is the Cholesky factor of the covariance
// and z is a vector of independent standard normal values.
type Correlated struct {
	// norm is a standard normal distribution
	norm distuv.Normal
}

// NewCorrelated creates new Correlated noise drawing from src and returns it.
// If src is nil the noise is seeded from the current time.
func NewCorrelated(src rand.Source) *Correlated {
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}

	return &Correlated{
		norm: distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
}

// Sample generates a noise sample with covariance cov and returns it.
// The Cholesky factor of cov is recomputed on every call.
// It returns error if cov is not positive semi-definite.
func (c *Correlated) Sample(cov mat.Symmetric) (mat.Vector, error) {
	l, err := matrix.Cholesky(cov)
	if err != nil {
		return nil, fmt.Errorf("failed to factorize noise covariance: %v", err)
	}

	n := cov.SymmetricDim()
	z := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		z.SetVec(i, c.norm.Rand())
	}

	sample := mat.NewVecDense(n, nil)
	sample.MulVec(l, z)

	return sample, nil
}

// String implements the Stringer interface.
func (c *Correlated) String() string {
	return "Correlated{}"
}
