package ekf

import (
	"fmt"
	"math"

	"github.com/milosgajdos/go-fastslam/kalman"
	"github.com/milosgajdos/go-fastslam/matrix"
	mtx "github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

// DetFloor is the smallest innovation covariance determinant used by Update
const DetFloor = 1e-10

// compile time check
var _ kalman.Kalman = (*Landmark)(nil)

// Landmark is an Extended Kalman Filter tracking a 2D landmark position.
// The landmark position is observed directly i.e. its observation matrix is identity.
type Landmark struct {
	// mean is landmark position estimate
	mean *mat.VecDense
	// cov is landmark position covariance
	cov *mat.SymDense
	// inn is innovation vector of the last update
	inn *mat.VecDense
	// s is innovation covariance of the last update
	s *mat.SymDense
	// k is Kalman gain of the last update
	k *mat.Dense
	// w is the likelihood of the last measurement
	w float64
}

// New creates new Landmark EKF with initial position estimate mean and covariance cov and returns it.
// It returns error if either mean or cov are not 2-dimensional.
func New(mean mat.Vector, cov mat.Symmetric) (*Landmark, error) {
	if mean == nil || mean.Len() != 2 {
		return nil, fmt.Errorf("invalid landmark mean: %v", mean)
	}

	if cov == nil || cov.SymmetricDim() != 2 {
		return nil, fmt.Errorf("invalid landmark covariance: %v", cov)
	}

	m := mat.NewVecDense(2, nil)
	m.CopyVec(mean)

	c := mat.NewSymDense(2, nil)
	c.CopySym(cov)

	return &Landmark{
		mean: m,
		cov:  c,
		inn:  mat.NewVecDense(2, nil),
		s:    mat.NewSymDense(2, nil),
		k:    mat.NewDense(2, 2, nil),
		w:    1.0,
	}, nil
}

// Update corrects landmark estimate using the measurement z with measurement noise covariance r.
// It returns the likelihood of z given the prior estimate and stores it as the landmark weight.
// It returns error if either z or r are not 2-dimensional.
func (l *Landmark) Update(z mat.Vector, r mat.Symmetric) (float64, error) {
	if z == nil || z.Len() != 2 {
		return 0, fmt.Errorf("invalid measurement: %v", z)
	}

	if r == nil || r.SymmetricDim() != 2 {
		return 0, fmt.Errorf("invalid measurement noise: %v", r)
	}

	eye, err := mtx.NewDenseValIdentity(2, 1.0)
	if err != nil {
		return 0, fmt.Errorf("failed to create identity matrix: %v", err)
	}

	// innovation: Y = z - mean
	inn := mat.NewVecDense(2, nil)
	inn.SubVec(z, l.mean)

	// innovation covariance: S = P + R
	s := mat.NewSymDense(2, nil)
	s.AddSym(l.cov, r)

	sInv, det := matrix.SymInverse2(s, DetFloor)

	// Kalman gain: K = P * S^-1
	gain := &mat.Dense{}
	gain.Mul(l.cov, sInv)

	// likelihood of the innovation
	maha := mat.Inner(inn, sInv, inn)
	p := math.Exp(-0.5*maha) / (2 * math.Pi * math.Sqrt(det))

	corr := mat.NewVecDense(2, nil)
	corr.MulVec(gain, inn)
	l.mean.AddVec(l.mean, corr)

	// P = (I - K) * P
	a := &mat.Dense{}
	a.Sub(eye, gain)
	pCorr := &mat.Dense{}
	pCorr.Mul(a, l.cov)
	matrix.Symmetrize(l.cov, pCorr)

	l.inn.CopyVec(inn)
	l.s.CopySym(s)
	l.k.Copy(gain)
	l.w = p

	return p, nil
}

// Shift moves the landmark estimate by (-dx, -dy).
// It keeps the estimate anchored to the same point when the frame it is expressed in moves by (dx, dy).
func (l *Landmark) Shift(dx, dy float64) {
	l.mean.SetVec(0, l.mean.AtVec(0)-dx)
	l.mean.SetVec(1, l.mean.AtVec(1)-dy)
}

// Val returns landmark position estimate
func (l *Landmark) Val() mat.Vector {
	v := &mat.VecDense{}
	v.CloneFromVec(l.mean)

	return v
}

// Cov returns landmark position covariance
func (l *Landmark) Cov() mat.Symmetric {
	cov := mat.NewSymDense(2, nil)
	cov.CopySym(l.cov)

	return cov
}

// Innovation returns the innovation vector of the last update
func (l *Landmark) Innovation() mat.Vector {
	v := &mat.VecDense{}
	v.CloneFromVec(l.inn)

	return v
}

// InnovationCov returns the innovation covariance of the last update
func (l *Landmark) InnovationCov() mat.Symmetric {
	s := mat.NewSymDense(2, nil)
	s.CopySym(l.s)

	return s
}

// Gain returns Kalman gain of the last update
func (l *Landmark) Gain() mat.Matrix {
	gain := &mat.Dense{}
	gain.CloneFrom(l.k)

	return gain
}

// Weight returns landmark weight
func (l *Landmark) Weight() float64 {
	return l.w
}

// SetWeight sets landmark weight to w
func (l *Landmark) SetWeight(w float64) {
	l.w = w
}

// Clone returns a deep copy of the landmark
func (l *Landmark) Clone() *Landmark {
	c := &Landmark{
		mean: &mat.VecDense{},
		cov:  mat.NewSymDense(2, nil),
		inn:  &mat.VecDense{},
		s:    mat.NewSymDense(2, nil),
		k:    &mat.Dense{},
		w:    l.w,
	}

	c.mean.CloneFromVec(l.mean)
	c.cov.CopySym(l.cov)
	c.inn.CloneFromVec(l.inn)
	c.s.CopySym(l.s)
	c.k.CloneFrom(l.k)

	return c
}
