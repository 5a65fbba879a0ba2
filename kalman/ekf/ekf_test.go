package ekf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

func TestNew(t *testing.T) {
	assert := assert.New(t)

	mean := mat.NewVecDense(2, []float64{1, 2})
	cov := mat.NewSymDense(2, []float64{1, 0, 0, 1})

	l, err := New(mean, cov)
	assert.NotNil(l)
	assert.NoError(err)
	assert.Equal(1.0, l.Weight())

	// invalid mean
	l, err = New(mat.NewVecDense(3, nil), cov)
	assert.Nil(l)
	assert.Error(err)

	l, err = New(nil, cov)
	assert.Nil(l)
	assert.Error(err)

	// invalid covariance
	l, err = New(mean, mat.NewSymDense(3, nil))
	assert.Nil(l)
	assert.Error(err)

	// New copies its arguments
	l, err = New(mean, cov)
	assert.NoError(err)
	mean.SetVec(0, 100)
	cov.SetSym(0, 0, 100)
	assert.Equal(1.0, l.Val().AtVec(0))
	assert.Equal(1.0, l.Cov().At(0, 0))
}

func TestUpdate(t *testing.T) {
	assert := assert.New(t)
	delta := 1e-9

	l, err := New(mat.NewVecDense(2, nil), mat.NewSymDense(2, []float64{1, 0, 0, 1}))
	assert.NoError(err)

	z := mat.NewVecDense(2, []float64{1, 0})
	r := mat.NewSymDense(2, []float64{1, 0, 0, 1})

	p, err := l.Update(z, r)
	assert.NoError(err)

	// innovation
	assert.True(mat.EqualApprox(l.Innovation(), mat.NewVecDense(2, []float64{1, 0}), delta))
	// innovation covariance
	assert.True(mat.EqualApprox(l.InnovationCov(), mat.NewDiagDense(2, []float64{2, 2}), delta))
	// gain
	assert.True(mat.EqualApprox(l.Gain(), mat.NewDiagDense(2, []float64{0.5, 0.5}), delta))
	// posterior
	assert.True(mat.EqualApprox(l.Val(), mat.NewVecDense(2, []float64{0.5, 0}), delta))
	assert.True(mat.EqualApprox(l.Cov(), mat.NewDiagDense(2, []float64{0.5, 0.5}), delta))

	// likelihood
	expected := math.Exp(-0.25) / (2 * math.Pi * 2)
	assert.InDelta(expected, p, delta)
	assert.InDelta(0.0620, p, 1e-4)
	assert.Equal(p, l.Weight())

	// invalid measurement
	_, err = l.Update(mat.NewVecDense(3, nil), r)
	assert.Error(err)

	// invalid measurement noise
	_, err = l.Update(z, mat.NewSymDense(3, nil))
	assert.Error(err)
}

func TestUpdateLikelihood(t *testing.T) {
	assert := assert.New(t)

	mean := mat.NewVecDense(2, []float64{3, -2})
	cov := mat.NewSymDense(2, []float64{4, 1, 1, 2})
	z := mat.NewVecDense(2, []float64{5, 1})
	r := mat.NewSymDense(2, []float64{0.5, 0, 0, 0.5})

	l, err := New(mean, cov)
	assert.NoError(err)

	p, err := l.Update(z, r)
	assert.NoError(err)

	// reference density of the innovation
	s := mat.NewSymDense(2, nil)
	s.AddSym(cov, r)
	dist, ok := distmv.NewNormal([]float64{0, 0}, s, nil)
	assert.True(ok)

	inn := []float64{z.AtVec(0) - mean.AtVec(0), z.AtVec(1) - mean.AtVec(1)}
	assert.InDelta(math.Exp(dist.LogProb(inn)), p, 1e-12)
}

func TestUpdateConvergence(t *testing.T) {
	assert := assert.New(t)

	l, err := New(mat.NewVecDense(2, []float64{-20, 35}), mat.NewSymDense(2, []float64{1000, 0, 0, 1000}))
	assert.NoError(err)

	z := mat.NewVecDense(2, []float64{10, 15})
	r := mat.NewSymDense(2, []float64{4, 0, 0, 4})

	trace := mat.Trace(l.Cov())
	dist := math.Hypot(z.AtVec(0)-l.Val().AtVec(0), z.AtVec(1)-l.Val().AtVec(1))

	for i := 0; i < 20; i++ {
		_, err := l.Update(z, r)
		assert.NoError(err)

		newTrace := mat.Trace(l.Cov())
		assert.Less(newTrace, trace)
		trace = newTrace

		newDist := math.Hypot(z.AtVec(0)-l.Val().AtVec(0), z.AtVec(1)-l.Val().AtVec(1))
		assert.LessOrEqual(newDist, dist)
		dist = newDist
	}

	assert.InDelta(0.0, dist, 0.5)
}

func TestUpdateDegenerate(t *testing.T) {
	assert := assert.New(t)

	l, err := New(mat.NewVecDense(2, nil), mat.NewSymDense(2, nil))
	assert.NoError(err)

	p, err := l.Update(mat.NewVecDense(2, nil), mat.NewSymDense(2, nil))
	assert.NoError(err)
	assert.False(math.IsNaN(p))
	assert.False(math.IsInf(p, 0))

	v := l.Val()
	assert.False(math.IsNaN(v.AtVec(0)))
	assert.False(math.IsNaN(v.AtVec(1)))
}

func TestShift(t *testing.T) {
	assert := assert.New(t)

	l, err := New(mat.NewVecDense(2, []float64{10, 20}), mat.NewSymDense(2, []float64{1, 0, 0, 1}))
	assert.NoError(err)

	l.Shift(3, -4)
	assert.Equal(7.0, l.Val().AtVec(0))
	assert.Equal(24.0, l.Val().AtVec(1))
}

func TestClone(t *testing.T) {
	assert := assert.New(t)

	l, err := New(mat.NewVecDense(2, []float64{10, 20}), mat.NewSymDense(2, []float64{1, 0, 0, 1}))
	assert.NoError(err)
	_, err = l.Update(mat.NewVecDense(2, []float64{11, 19}), mat.NewSymDense(2, []float64{1, 0, 0, 1}))
	assert.NoError(err)

	c := l.Clone()
	assert.True(mat.Equal(l.Val(), c.Val()))
	assert.True(mat.Equal(l.Cov(), c.Cov()))
	assert.True(mat.Equal(l.Gain(), c.Gain()))
	assert.True(mat.Equal(l.Innovation(), c.Innovation()))
	assert.Equal(l.Weight(), c.Weight())

	// the clone is independent
	c.Shift(5, 5)
	c.SetWeight(0.25)
	_, err = c.Update(mat.NewVecDense(2, []float64{0, 0}), mat.NewSymDense(2, []float64{1, 0, 0, 1}))
	assert.NoError(err)

	assert.False(mat.Equal(l.Val(), c.Val()))
	assert.False(mat.Equal(l.Cov(), c.Cov()))
	assert.NotEqual(l.Weight(), c.Weight())
}
