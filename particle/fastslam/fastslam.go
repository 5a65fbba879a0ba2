package fastslam

import (
	"fmt"
	"math"
	"sync"
	"time"

	slam "github.com/milosgajdos/go-fastslam"
	"github.com/milosgajdos/go-fastslam/kalman/ekf"
	"github.com/milosgajdos/go-fastslam/noise"
	"github.com/milosgajdos/go-fastslam/particle"
	"github.com/milosgajdos/go-fastslam/rnd"
	"github.com/milosgajdos/go-fastslam/sim"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// minWeightSum is the smallest particle weight sum which can be normalized
const minWeightSum = 1e-15

// State is engine processing state
type State int

const (
	// StateIdle means the engine waits for a command
	StateIdle State = iota
	// StatePredicting means particles are being moved
	StatePredicting
	// StateObserving means particles are being updated with measurements
	StateObserving
	// StateResampling means particles are being resampled
	StateResampling
)

// String implements the Stringer interface.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePredicting:
		return "predicting"
	case StateObserving:
		return "observing"
	case StateResampling:
		return "resampling"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Engine is FastSLAM filter: a particle filter whose particles carry one EKF per landmark.
// It owns the simulated ground truth and drives predict, update and resample cycle
// on every movement command. Landmark measurement i always corresponds to landmark i.
//
// Step requires exclusive access to the engine. Query methods can be called between steps.
type Engine struct {
	mu sync.RWMutex
	// world is the simulated ground truth
	world *sim.World
	// particles is the particle population
	particles []*particle.Particle
	// motion is motion noise model
	motion slam.MotionModel
	// sensor is measurement noise model
	sensor slam.SensorModel
	// sampler draws motion noise
	sampler slam.Sampler
	// resampling is particle resampling scheme
	resampling Resampling
	// src is the source of randomness
	src rand.Source
	// offset draws systematic resampling offsets
	offset distuv.Uniform
	// initCov is covariance of new landmark estimates
	initCov *mat.SymDense
	// forward and turn are movement command magnitudes
	forward, turn float64
	// state is current processing state
	state State
	// steps counts completed steps
	steps uint64
	// log is engine logger
	log *zap.Logger
}

// New creates new FastSLAM engine with configuration c and returns it.
// It returns error if the configuration is invalid or if the engine fails to be created.
func New(c Config) (*Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}

	src := c.Src
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}

	var (
		world *sim.World
		err   error
	)

	if c.Landmarks != nil {
		world, err = sim.NewWorldWithLandmarks(c.Width, c.Height, c.Start, c.Landmarks)
	} else {
		world, err = sim.NewWorld(c.Width, c.Height, c.Start, c.LandmarkCount, src)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create world: %v", err)
	}

	motion, err := noise.NewMotion(c.MotionPosErr, c.MotionThetaErr)
	if err != nil {
		return nil, fmt.Errorf("failed to create motion model: %v", err)
	}

	sensor, err := noise.NewSensor(c.SensorErr)
	if err != nil {
		return nil, fmt.Errorf("failed to create sensor model: %v", err)
	}

	sampler := c.Sampler
	if sampler == nil {
		sampler = noise.NewCorrelated(src)
	}

	// every particle starts at the true pose with the same weight
	particles := make([]*particle.Particle, c.ParticleCount)
	for i := range particles {
		particles[i] = particle.New(c.Start.X, c.Start.Y, c.Start.Theta, 1.0)
	}

	initCov := mat.NewSymDense(2, []float64{c.InitCov, 0, 0, c.InitCov})

	log.Info("fastslam engine created",
		zap.Int("particles", c.ParticleCount),
		zap.Int("landmarks", world.Len()),
		zap.Stringer("motion", motion),
		zap.Stringer("sensor", sensor),
		zap.Stringer("resampling", c.Resampling),
	)

	return &Engine{
		world:      world,
		particles:  particles,
		motion:     motion,
		sensor:     sensor,
		sampler:    sampler,
		resampling: c.Resampling,
		src:        src,
		offset:     distuv.Uniform{Min: 0, Max: 1 / float64(c.ParticleCount), Src: src},
		initCov:    initCov,
		forward:    c.ForwardDistance,
		turn:       c.TurnRotation,
		state:      StateIdle,
		log:        log,
	}, nil
}

// SendMovementCommand maps cmd to a motion and runs one filter step with it.
// It returns ErrUnknownCommand if cmd is not known or any error returned by Step.
func (e *Engine) SendMovementCommand(cmd Command) error {
	switch cmd {
	case Forward:
		return e.Step(e.forward, 0)
	case TurnLeft:
		return e.Step(0, -e.turn)
	case TurnRight:
		return e.Step(0, e.turn)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownCommand, cmd)
	}
}

// Step moves the agent by dist along its heading, rotates it by dTheta and runs one filter step:
// every particle is moved with sampled motion noise, updated with the relative landmark
// measurements taken from the new true pose and the population is then resampled.
//
// It returns particle.ErrSizeMismatch if the number of measurements differs from the number of
// landmarks tracked by any particle. The size check and motion noise sampling happen before
// any state is modified, so failing either leaves the engine untouched.
func (e *Engine) Step(dist, dTheta float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() { e.state = StateIdle }()

	next, ideal := e.world.Pose().Move(dist, dTheta)
	z := e.world.Measure(next)

	for i, p := range e.particles {
		if err := p.Check(len(z)); err != nil {
			return fmt.Errorf("particle %d: %w", i, err)
		}
	}

	// draw all the motion noise up front so a sampling failure leaves the engine intact
	cov := e.motion.Cov(dist, dTheta)
	samples := make([]mat.Vector, len(e.particles))
	for i := range samples {
		s, err := e.sampler.Sample(cov)
		if err != nil {
			return fmt.Errorf("failed to sample motion noise: %v", err)
		}
		samples[i] = s
	}

	e.world.SetPose(next)

	e.state = StatePredicting
	for i, p := range e.particles {
		if err := p.Predict(ideal, samples[i]); err != nil {
			return fmt.Errorf("particle %d prediction failed: %v", i, err)
		}
	}

	e.state = StateObserving
	for i, p := range e.particles {
		if err := p.Update(z, e.sensor, e.initLandmark); err != nil {
			return fmt.Errorf("particle %d update failed: %w", i, err)
		}
	}

	e.normalize()

	e.state = StateResampling
	if err := e.resample(); err != nil {
		return err
	}

	e.steps++

	e.log.Debug("step",
		zap.Uint64("step", e.steps),
		zap.Float64("distance", dist),
		zap.Float64("rotation", dTheta),
		zap.Float64("x", next.X),
		zap.Float64("y", next.Y),
		zap.Float64("theta", next.Theta),
	)

	return nil
}

// initLandmark creates new landmark estimate around its first measurement z.
// The estimate mean is drawn from the initial covariance around z.
func (e *Engine) initLandmark(z mat.Vector) (*ekf.Landmark, error) {
	w, err := rnd.WithCovN(e.initCov, 1, e.src)
	if err != nil {
		return nil, fmt.Errorf("failed to draw landmark mean: %v", err)
	}

	mean := mat.NewVecDense(2, nil)
	mean.AddVec(z, w.ColView(0))

	return ekf.New(mean, e.initCov)
}

// weights returns a copy of particle weights
func (e *Engine) weights() []float64 {
	w := make([]float64, len(e.particles))
	for i, p := range e.particles {
		w[i] = p.Weight()
	}

	return w
}

// normalize normalizes particle weights so they sum up to 1.
// If the weights can't be normalized every particle gets the same weight.
func (e *Engine) normalize() {
	w := e.weights()

	sum := floats.Sum(w)
	if sum < minWeightSum || math.IsNaN(sum) || math.IsInf(sum, 0) {
		e.log.Warn("degenerate particle weights, resetting to uniform", zap.Float64("sum", sum))
		for _, p := range e.particles {
			p.SetWeight(1 / float64(len(e.particles)))
		}
		return
	}

	floats.Scale(1/sum, w)
	for i, p := range e.particles {
		p.SetWeight(w[i])
	}
}

// resample draws new particle population using the configured resampling scheme
func (e *Engine) resample() error {
	if e.resampling == Multinomial {
		indices, err := rnd.RouletteDrawN(e.weights(), len(e.particles), e.src)
		if err != nil {
			return fmt.Errorf("failed to resample particles: %v", err)
		}
		e.replace(indices)

		return nil
	}

	return e.resampleWithOffset(e.offset.Rand())
}

// resampleWithOffset runs systematic resampling with offset r
func (e *Engine) resampleWithOffset(r float64) error {
	indices, err := rnd.SystematicDrawN(e.weights(), r)
	if err != nil {
		return fmt.Errorf("failed to resample particles: %v", err)
	}
	e.replace(indices)

	return nil
}

// replace replaces particle population with copies of particles at indices.
// Every new particle is a deep copy with weight reset to 1.
func (e *Engine) replace(indices []int) {
	particles := make([]*particle.Particle, len(indices))
	for i, idx := range indices {
		p := e.particles[idx].Clone()
		p.SetWeight(1.0)
		particles[i] = p
	}

	e.particles = particles
}
