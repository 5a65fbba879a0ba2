package fastslam

import (
	"fmt"
	"math"

	"github.com/milosgajdos/go-fastslam/estimate"
	"github.com/milosgajdos/go-fastslam/sim"
	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// TruePose returns true agent pose
func (e *Engine) TruePose() sim.Pose {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.world.Pose()
}

// TrueLandmarks returns true landmark positions
func (e *Engine) TrueLandmarks() []mat.Vector {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.world.Landmarks()
}

// Particles returns particle poses and weights
func (e *Engine) Particles() []estimate.Pose {
	e.mu.RLock()
	defer e.mu.RUnlock()

	poses := make([]estimate.Pose, len(e.particles))
	for i, p := range e.particles {
		x, y, theta := p.Pose()
		poses[i] = estimate.Pose{X: x, Y: y, Theta: theta, Weight: p.Weight()}
	}

	return poses
}

// Landmarks returns landmark estimates of particle i in their order.
// Landmark positions are relative to the particle pose.
// It returns error if i is out of range.
func (e *Engine) Landmarks(i int) ([]*estimate.Landmark, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if i < 0 || i >= len(e.particles) {
		return nil, fmt.Errorf("invalid particle index: %d", i)
	}

	lms := e.particles[i].Landmarks()
	landmarks := make([]*estimate.Landmark, len(lms))
	for j, l := range lms {
		est, err := estimate.NewLandmark(l.Val(), l.Cov(), l.Weight())
		if err != nil {
			return nil, fmt.Errorf("failed to create landmark %d estimate: %v", j, err)
		}
		landmarks[j] = est
	}

	return landmarks, nil
}

// Steps returns the number of completed filter steps
func (e *Engine) Steps() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.steps
}

// State returns engine processing state
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.state
}

// EstimatedPose returns weighted mean of particle poses.
// Heading is averaged on the unit circle.
func (e *Engine) EstimatedPose() estimate.Pose {
	e.mu.RLock()
	defer e.mu.RUnlock()

	n := len(e.particles)
	xs := make([]float64, n)
	ys := make([]float64, n)
	sin := make([]float64, n)
	cos := make([]float64, n)
	w := make([]float64, n)

	for i, p := range e.particles {
		x, y, theta := p.Pose()
		xs[i], ys[i] = x, y
		sin[i], cos[i] = math.Sin(theta), math.Cos(theta)
		w[i] = p.Weight()
	}

	return estimate.Pose{
		X:      stat.Mean(xs, w),
		Y:      stat.Mean(ys, w),
		Theta:  math.Atan2(stat.Mean(sin, w), stat.Mean(cos, w)),
		Weight: 1.0,
	}
}

// PoseCov returns (x, y, theta) covariance of particle poses.
// It returns error if the covariance fails to be computed.
func (e *Engine) PoseCov() (mat.Symmetric, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	// particle poses are stored in columns
	x := mat.NewDense(3, len(e.particles), nil)
	for c, p := range e.particles {
		px, py, pt := p.Pose()
		x.SetCol(c, []float64{px, py, pt})
	}

	cov, err := matrix.Cov(x, "cols")
	if err != nil {
		return nil, fmt.Errorf("failed to calculate pose covariance: %v", err)
	}

	return cov, nil
}

// FindNearestLandmark returns the particle and landmark index of the landmark estimate
// closest to point p, if it lies within maxDistance of p.
// Estimates are scanned by particle, then by landmark, and the last one seen wins ties.
// ok is false if no estimate lies within maxDistance.
func (e *Engine) FindNearestLandmark(p mat.Vector, maxDistance float64) (particle, landmark int, ok bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	particle, landmark = -1, -1
	best := maxDistance

	for i, part := range e.particles {
		x, y, _ := part.Pose()
		for j, l := range part.Landmarks() {
			v := l.Val()
			d := math.Hypot(x+v.AtVec(0)-p.AtVec(0), y+v.AtVec(1)-p.AtVec(1))
			if d <= best {
				best = d
				particle, landmark, ok = i, j, true
			}
		}
	}

	return particle, landmark, ok
}

// Snapshot returns a read-only snapshot of the engine state.
// Landmark estimates are returned in world coordinates.
func (e *Engine) Snapshot() *sim.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	width, height := e.world.Bounds()

	s := &sim.Snapshot{
		Width:     width,
		Height:    height,
		Truth:     e.world.Pose(),
		Landmarks: e.world.Landmarks(),
		Particles: make([]estimate.Pose, len(e.particles)),
		Estimates: make([][]mat.Vector, len(e.particles)),
		Step:      e.steps,
	}

	for i, p := range e.particles {
		x, y, theta := p.Pose()
		s.Particles[i] = estimate.Pose{X: x, Y: y, Theta: theta, Weight: p.Weight()}

		lms := p.Landmarks()
		s.Estimates[i] = make([]mat.Vector, len(lms))
		for j, l := range lms {
			v := l.Val()
			s.Estimates[i][j] = mat.NewVecDense(2, []float64{x + v.AtVec(0), y + v.AtVec(1)})
		}
	}

	return s
}
