package fastslam

import (
	"errors"
	"fmt"

	slam "github.com/milosgajdos/go-fastslam"
	"github.com/milosgajdos/go-fastslam/sim"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidConfig is returned when the engine configuration is invalid
var ErrInvalidConfig = errors.New("invalid config")

// Resampling selects particle resampling scheme
type Resampling int

const (
	// Systematic is low variance resampling with a single random offset
	Systematic Resampling = iota
	// Multinomial is roulette wheel resampling with independent draws
	Multinomial
)

// String implements the Stringer interface.
func (r Resampling) String() string {
	switch r {
	case Systematic:
		return "systematic"
	case Multinomial:
		return "multinomial"
	default:
		return fmt.Sprintf("Resampling(%d)", int(r))
	}
}

// Config is FastSLAM engine configuration
type Config struct {
	// ParticleCount is the number of filter particles
	ParticleCount int
	// LandmarkCount is the number of randomly placed landmarks.
	// It is ignored if Landmarks is not nil.
	LandmarkCount int
	// Landmarks are optional fixed true landmark positions
	Landmarks []mat.Vector
	// Width and Height are environment bounds
	Width, Height float64
	// Start is the initial agent pose
	Start sim.Pose
	// SensorErr is measurement error per unit of range
	SensorErr float64
	// MotionPosErr is position error per unit of travelled distance
	MotionPosErr float64
	// MotionThetaErr is heading error per radian of rotation
	MotionThetaErr float64
	// InitCov is the variance of newly created landmark estimates
	InitCov float64
	// ForwardDistance is the distance travelled by Forward command
	ForwardDistance float64
	// TurnRotation is the rotation magnitude of TurnLeft and TurnRight commands
	TurnRotation float64
	// Resampling is particle resampling scheme
	Resampling Resampling
	// Src is the source of randomness. If nil, the engine seeds one from the current time.
	Src rand.Source
	// Sampler draws motion noise. If nil, correlated Gaussian noise drawn from Src is used.
	Sampler slam.Sampler
	// Logger is engine logger. If nil, logging is disabled.
	Logger *zap.Logger
}

// DefaultConfig returns default engine configuration
func DefaultConfig() Config {
	return Config{
		ParticleCount:   10,
		LandmarkCount:   10,
		Width:           700,
		Height:          700,
		Start:           sim.Pose{X: 30, Y: 30, Theta: 0},
		SensorErr:       0.2,
		MotionPosErr:    0.1,
		MotionThetaErr:  0.05,
		InitCov:         1000,
		ForwardDistance: 5,
		TurnRotation:    0.1,
		Resampling:      Systematic,
	}
}

// Validate returns error if the configuration is invalid
func (c *Config) Validate() error {
	if c.ParticleCount <= 0 {
		return fmt.Errorf("%w: particle count: %d", ErrInvalidConfig, c.ParticleCount)
	}

	if c.Landmarks == nil && c.LandmarkCount < 0 {
		return fmt.Errorf("%w: landmark count: %d", ErrInvalidConfig, c.LandmarkCount)
	}

	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: bounds: [%g x %g]", ErrInvalidConfig, c.Width, c.Height)
	}

	if c.SensorErr < 0 || c.MotionPosErr < 0 || c.MotionThetaErr < 0 {
		return fmt.Errorf("%w: negative noise coefficient", ErrInvalidConfig)
	}

	if c.InitCov <= 0 {
		return fmt.Errorf("%w: initial covariance: %g", ErrInvalidConfig, c.InitCov)
	}

	if c.Resampling != Systematic && c.Resampling != Multinomial {
		return fmt.Errorf("%w: resampling: %v", ErrInvalidConfig, c.Resampling)
	}

	return nil
}
