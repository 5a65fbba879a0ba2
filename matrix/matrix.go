package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// psdTol is the pivot tolerance below which a Cholesky pivot is treated as zero
const psdTol = 1e-12

// Det2 returns the determinant of 2x2 matrix m.
// It panics if m is not 2x2.
func Det2(m mat.Matrix) float64 {
	if r, c := m.Dims(); r != 2 || c != 2 {
		panic(mat.ErrShape)
	}

	return m.At(0, 0)*m.At(1, 1) - m.At(0, 1)*m.At(1, 0)
}

// SymInverse2 computes the closed form inverse of 2x2 symmetric matrix m.
// If the determinant of m is smaller than floor it is clamped to floor.
// It returns the inverse and the determinant used to compute it.
// It panics if m is not 2x2.
func SymInverse2(m mat.Symmetric, floor float64) (*mat.SymDense, float64) {
	if m.SymmetricDim() != 2 {
		panic(mat.ErrShape)
	}

	det := Det2(m)
	if det < floor {
		det = floor
	}

	inv := mat.NewSymDense(2, []float64{
		m.At(1, 1) / det, -m.At(0, 1) / det,
		-m.At(1, 0) / det, m.At(0, 0) / det,
	})

	return inv, det
}

// Cholesky returns lower triangular matrix L such that L*L' = m.
// Positive definite matrices are factorized by gonum. Positive semi-definite
// matrices, such as covariances with zero variance entries, are factorized
// in place: zero pivots produce zero columns in L.
// It returns error if m is not positive semi-definite.
func Cholesky(m mat.Symmetric) (*mat.TriDense, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(m); ok {
		l := &mat.TriDense{}
		chol.LTo(l)

		return l, nil
	}

	n := m.SymmetricDim()
	l := mat.NewTriDense(n, mat.Lower, nil)

	for j := 0; j < n; j++ {
		d := m.At(j, j)
		for k := 0; k < j; k++ {
			d -= l.At(j, k) * l.At(j, k)
		}

		if d < -psdTol {
			return nil, fmt.Errorf("matrix is not positive semi-definite: pivot %d = %g", j, d)
		}

		if d <= psdTol {
			continue
		}

		ljj := math.Sqrt(d)
		l.SetTri(j, j, ljj)

		for i := j + 1; i < n; i++ {
			s := m.At(i, j)
			for k := 0; k < j; k++ {
				s -= l.At(i, k) * l.At(j, k)
			}
			l.SetTri(i, j, s/ljj)
		}
	}

	return l, nil
}

// Symmetrize copies the symmetric part of square matrix m into dst.
// It panics if m is not square or its dimension differs from dst.
func Symmetrize(dst *mat.SymDense, m mat.Matrix) {
	r, c := m.Dims()
	if r != c || r != dst.SymmetricDim() {
		panic(mat.ErrShape)
	}

	for i := 0; i < r; i++ {
		for j := i; j < c; j++ {
			dst.SetSym(i, j, 0.5*(m.At(i, j)+m.At(j, i)))
		}
	}
}
