package particle

import (
	"errors"
	"fmt"

	slam "github.com/milosgajdos/go-fastslam"
	"github.com/milosgajdos/go-fastslam/kalman/ekf"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// minWeightSum is the smallest landmark weight sum which can be normalized
const minWeightSum = 1e-15

// ErrSizeMismatch is returned when the number of measurements differs from the number of landmarks
var ErrSizeMismatch = errors.New("measurement count does not match landmark count")

// InitFunc creates new landmark estimate from its first measurement z
type InitFunc func(z mat.Vector) (*ekf.Landmark, error)

// Particle is a single SLAM hypothesis: agent pose and a map of landmark estimates.
// Landmark estimates are expressed relative to the particle pose and their order
// matches the order of the measurements they are updated with.
type Particle struct {
	// x, y is particle position
	x, y float64
	// theta is particle heading
	theta float64
	// w is particle importance weight
	w float64
	// landmarks stores landmark estimates
	landmarks []*ekf.Landmark
}

// New creates new particle at pose (x, y, theta) with weight w and no landmarks.
func New(x, y, theta, w float64) *Particle {
	return &Particle{
		x:     x,
		y:     y,
		theta: theta,
		w:     w,
	}
}

// Predict moves the particle by ideal motion delta (dx, dy, dtheta) perturbed by noise.
// Landmark estimates are shifted by the negated sampled translation so they keep
// pointing at the same world position. Landmark frames are not rotated.
// It returns error if either ideal or noise are not 3-dimensional.
func (p *Particle) Predict(ideal, noise mat.Vector) error {
	if ideal == nil || ideal.Len() != 3 {
		return fmt.Errorf("invalid motion delta: %v", ideal)
	}

	if noise == nil || noise.Len() != 3 {
		return fmt.Errorf("invalid motion noise: %v", noise)
	}

	move := mat.NewVecDense(3, nil)
	move.AddVec(ideal, noise)

	dx, dy := move.AtVec(0), move.AtVec(1)

	p.x += dx
	p.y += dy
	p.theta += move.AtVec(2)

	for _, l := range p.landmarks {
		l.Shift(dx, dy)
	}

	return nil
}

// Check returns error if a measurement set of size n can't be used to update the particle.
// Particles without landmarks accept measurement sets of any size.
func (p *Particle) Check(n int) error {
	if len(p.landmarks) != 0 && len(p.landmarks) != n {
		return fmt.Errorf("%w: measurements %d, landmarks %d", ErrSizeMismatch, n, len(p.landmarks))
	}

	return nil
}

// Update updates particle landmark estimates using the ordered measurements z.
// Measurement i is assumed to observe landmark i.
//
// The first call on a particle without landmarks creates one landmark estimate per
// measurement using init and leaves the particle weight untouched.
// Every following call updates each landmark with the noise returned by sensor at the
// measurement range and multiplies the particle weight by the measurement likelihood.
//
// It returns ErrSizeMismatch if the number of measurements differs from the number
// of landmarks. The particle is not modified if Update returns error.
func (p *Particle) Update(z []mat.Vector, sensor slam.SensorModel, init InitFunc) error {
	if err := p.Check(len(z)); err != nil {
		return err
	}

	for i := range z {
		if z[i] == nil || z[i].Len() != 2 {
			return fmt.Errorf("invalid measurement %d: %v", i, z[i])
		}
	}

	if len(p.landmarks) == 0 {
		landmarks := make([]*ekf.Landmark, len(z))
		for i := range z {
			l, err := init(z[i])
			if err != nil {
				return fmt.Errorf("failed to initialize landmark %d: %v", i, err)
			}
			landmarks[i] = l
		}
		p.landmarks = landmarks

		return nil
	}

	for i := range z {
		dist := mat.Norm(z[i], 2)

		lh, err := p.landmarks[i].Update(z[i], sensor.Cov(dist))
		if err != nil {
			return fmt.Errorf("failed to update landmark %d: %v", i, err)
		}

		p.w *= lh
	}

	p.normalizeLandmarks()

	return nil
}

// normalizeLandmarks normalizes landmark weights so they sum up to 1
func (p *Particle) normalizeLandmarks() {
	w := make([]float64, len(p.landmarks))
	for i, l := range p.landmarks {
		w[i] = l.Weight()
	}

	sum := floats.Sum(w)
	if sum < minWeightSum {
		for _, l := range p.landmarks {
			l.SetWeight(1 / float64(len(p.landmarks)))
		}
		return
	}

	floats.Scale(1/sum, w)
	for i, l := range p.landmarks {
		l.SetWeight(w[i])
	}
}

// Pose returns particle pose
func (p *Particle) Pose() (x, y, theta float64) {
	return p.x, p.y, p.theta
}

// Weight returns particle weight
func (p *Particle) Weight() float64 {
	return p.w
}

// SetWeight sets particle weight to w
func (p *Particle) SetWeight(w float64) {
	p.w = w
}

// Len returns the number of particle landmarks
func (p *Particle) Len() int {
	return len(p.landmarks)
}

// Landmark returns a copy of landmark estimate i.
// It returns error if i is out of range.
func (p *Particle) Landmark(i int) (*ekf.Landmark, error) {
	if i < 0 || i >= len(p.landmarks) {
		return nil, fmt.Errorf("invalid landmark index: %d", i)
	}

	return p.landmarks[i].Clone(), nil
}

// Landmarks returns copies of all particle landmark estimates
func (p *Particle) Landmarks() []*ekf.Landmark {
	landmarks := make([]*ekf.Landmark, len(p.landmarks))
	for i, l := range p.landmarks {
		landmarks[i] = l.Clone()
	}

	return landmarks
}

// Clone returns a deep copy of the particle which shares no state with p
func (p *Particle) Clone() *Particle {
	c := &Particle{
		x:     p.x,
		y:     p.y,
		theta: p.theta,
		w:     p.w,
	}

	if p.landmarks != nil {
		c.landmarks = p.Landmarks()
	}

	return c
}
