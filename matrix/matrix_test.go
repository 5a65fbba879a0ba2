package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestDet2(t *testing.T) {
	assert := assert.New(t)

	m := mat.NewDense(2, 2, []float64{2, 1, 1, 3})
	assert.InDelta(5.0, Det2(m), 1e-12)

	// should panic
	assert.Panics(func() { Det2(mat.NewDense(3, 3, nil)) })
}

func TestSymInverse2(t *testing.T) {
	assert := assert.New(t)
	delta := 1e-12

	m := mat.NewSymDense(2, []float64{2, 1, 1, 3})
	inv, det := SymInverse2(m, 1e-10)
	assert.InDelta(5.0, det, delta)

	eye := &mat.Dense{}
	eye.Mul(m, inv)
	assert.True(mat.EqualApprox(eye, mat.NewDiagDense(2, []float64{1, 1}), delta))

	// singular matrix: determinant is clamped
	zero := mat.NewSymDense(2, nil)
	inv, det = SymInverse2(zero, 1e-10)
	assert.Equal(1e-10, det)
	assert.NotNil(inv)

	assert.Panics(func() { SymInverse2(mat.NewSymDense(3, nil), 1e-10) })
}

func TestCholesky(t *testing.T) {
	assert := assert.New(t)
	delta := 1e-9

	for _, test := range []struct {
		cov *mat.SymDense
	}{
		// positive definite
		{cov: mat.NewSymDense(3, []float64{4, 2, 0, 2, 3, 0, 0, 0, 1})},
		// zero heading variance
		{cov: mat.NewSymDense(3, []float64{0.25, 0, 0, 0, 0.25, 0, 0, 0, 0})},
		// zero position variance
		{cov: mat.NewSymDense(3, []float64{0, 0, 0, 0, 0, 0, 0, 0, 0.01})},
		// all zero
		{cov: mat.NewSymDense(3, nil)},
	} {
		l, err := Cholesky(test.cov)
		assert.NoError(err)
		assert.NotNil(l)

		llt := &mat.Dense{}
		llt.Mul(l, l.T())
		assert.True(mat.EqualApprox(llt, test.cov, delta))

		// L must be lower triangular
		n := test.cov.SymmetricDim()
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				assert.Equal(0.0, l.At(i, j))
			}
		}
	}

	// negative variance
	bad := mat.NewSymDense(2, []float64{-1, 0, 0, 1})
	l, err := Cholesky(bad)
	assert.Nil(l)
	assert.Error(err)
}

func TestSymmetrize(t *testing.T) {
	assert := assert.New(t)

	m := mat.NewDense(2, 2, []float64{1, 2, 4, 3})
	dst := mat.NewSymDense(2, nil)
	Symmetrize(dst, m)

	assert.Equal(3.0, dst.At(0, 1))
	assert.Equal(3.0, dst.At(1, 0))
	assert.Equal(1.0, dst.At(0, 0))

	assert.Panics(func() { Symmetrize(mat.NewSymDense(3, nil), m) })
}
