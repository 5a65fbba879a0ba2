package sim

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Pose is agent pose
type Pose struct {
	// X is position x coordinate
	X float64
	// Y is position y coordinate
	Y float64
	// Theta is heading in radians
	Theta float64
}

// Move returns the pose reached by travelling dist along the current heading and
// then rotating by dTheta, along with the travelled (dx, dy, dtheta) delta.
func (p Pose) Move(dist, dTheta float64) (Pose, mat.Vector) {
	dx := dist * math.Cos(p.Theta)
	dy := dist * math.Sin(p.Theta)

	next := Pose{
		X:     p.X + dx,
		Y:     p.Y + dy,
		Theta: p.Theta + dTheta,
	}

	return next, mat.NewVecDense(3, []float64{dx, dy, dTheta})
}

// World is the simulated ground truth: agent pose and landmark positions
// within a rectangular environment.
type World struct {
	// width and height are environment bounds
	width, height float64
	// pose is true agent pose
	pose Pose
	// landmarks are true landmark positions
	landmarks []*mat.VecDense
}

// NewWorld creates a width x height environment with agent at pose and count landmarks
// placed uniformly at random using src. If src is nil the world is seeded from the current time.
// It returns error if the bounds are not positive or count is negative.
func NewWorld(width, height float64, pose Pose, count int, src rand.Source) (*World, error) {
	if count < 0 {
		return nil, fmt.Errorf("invalid landmark count: %d", count)
	}

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid world bounds: [%g x %g]", width, height)
	}

	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}

	ux := distuv.Uniform{Min: 0, Max: width, Src: src}
	uy := distuv.Uniform{Min: 0, Max: height, Src: src}

	landmarks := make([]mat.Vector, count)
	for i := range landmarks {
		landmarks[i] = mat.NewVecDense(2, []float64{ux.Rand(), uy.Rand()})
	}

	return NewWorldWithLandmarks(width, height, pose, landmarks)
}

// NewWorldWithLandmarks creates a width x height environment with agent at pose and the given landmarks.
// It returns error if the bounds are not positive or any of the landmarks is not 2-dimensional.
func NewWorldWithLandmarks(width, height float64, pose Pose, landmarks []mat.Vector) (*World, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid world bounds: [%g x %g]", width, height)
	}

	lms := make([]*mat.VecDense, len(landmarks))
	for i, l := range landmarks {
		if l == nil || l.Len() != 2 {
			return nil, fmt.Errorf("invalid landmark %d: %v", i, l)
		}
		lms[i] = mat.NewVecDense(2, nil)
		lms[i].CopyVec(l)
	}

	return &World{
		width:     width,
		height:    height,
		pose:      pose,
		landmarks: lms,
	}, nil
}

// Pose returns true agent pose
func (w *World) Pose() Pose {
	return w.pose
}

// SetPose sets true agent pose to p
func (w *World) SetPose(p Pose) {
	w.pose = p
}

// Bounds returns environment width and height
func (w *World) Bounds() (width, height float64) {
	return w.width, w.height
}

// Len returns the number of landmarks
func (w *World) Len() int {
	return len(w.landmarks)
}

// Landmarks returns copies of true landmark positions
func (w *World) Landmarks() []mat.Vector {
	landmarks := make([]mat.Vector, len(w.landmarks))
	for i, l := range w.landmarks {
		v := &mat.VecDense{}
		v.CloneFromVec(l)
		landmarks[i] = v
	}

	return landmarks
}

// Measure returns noiseless relative positions of all landmarks as seen from pose p.
// Measurement i is landmark i position minus p position.
func (w *World) Measure(p Pose) []mat.Vector {
	pos := mat.NewVecDense(2, []float64{p.X, p.Y})

	z := make([]mat.Vector, len(w.landmarks))
	for i, l := range w.landmarks {
		m := mat.NewVecDense(2, nil)
		m.SubVec(l, pos)
		z[i] = m
	}

	return z
}
