package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestPoseVec(t *testing.T) {
	assert := assert.New(t)

	p := Pose{X: 1, Y: 2, Theta: 0.5, Weight: 0.1}
	v := p.Vec()
	assert.Equal(3, v.Len())
	assert.Equal(1.0, v.AtVec(0))
	assert.Equal(2.0, v.AtVec(1))
	assert.Equal(0.5, v.AtVec(2))
}

func TestNewLandmark(t *testing.T) {
	assert := assert.New(t)

	val := mat.NewVecDense(2, []float64{1, 2})
	cov := mat.NewSymDense(2, []float64{1, 0, 0, 1})

	l, err := NewLandmark(val, cov, 0.25)
	assert.NotNil(l)
	assert.NoError(err)
	assert.Equal(0.25, l.Weight())

	// estimate is a copy
	val.SetVec(0, 10)
	cov.SetSym(0, 0, 10)
	assert.Equal(1.0, l.Val().AtVec(0))
	assert.Equal(1.0, l.Cov().At(0, 0))

	// returned values are copies, too
	v := l.Val().(*mat.VecDense)
	v.SetVec(1, 100)
	assert.Equal(2.0, l.Val().AtVec(1))

	// dimension mismatch
	l, err = NewLandmark(mat.NewVecDense(3, nil), cov, 1)
	assert.Nil(l)
	assert.Error(err)

	l, err = NewLandmark(nil, cov, 1)
	assert.Nil(l)
	assert.Error(err)
}
