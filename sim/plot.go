package sim

import (
	"fmt"
	"image/color"
	"math"

	"github.com/milosgajdos/go-fastslam/estimate"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Snapshot is a read-only view of SLAM state
type Snapshot struct {
	// Width and Height are environment bounds
	Width, Height float64
	// Truth is true agent pose
	Truth Pose
	// Landmarks are true landmark positions
	Landmarks []mat.Vector
	// Particles are particle poses
	Particles []estimate.Pose
	// Estimates stores world positions of landmark estimates of each particle
	Estimates [][]mat.Vector
	// Step is the number of filter steps taken
	Step uint64
}

// NewPlot creates new plot of the SLAM snapshot s:
// true agent position and heading, true landmarks, particles and their landmark estimates.
// It returns error if s is nil or if any of the plotters fails to be created.
func NewPlot(s *Snapshot) (*plot.Plot, error) {
	if s == nil {
		return nil, fmt.Errorf("invalid snapshot supplied")
	}

	p := plot.New()

	p.Title.Text = fmt.Sprintf("FastSLAM step %d", s.Step)
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	if s.Width > 0 && s.Height > 0 {
		p.X.Min, p.X.Max = 0, s.Width
		p.Y.Min, p.Y.Max = 0, s.Height
	}

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	// true landmarks
	lmScatter, err := plotter.NewScatter(vecPoints(s.Landmarks))
	if err != nil {
		return nil, fmt.Errorf("failed to create landmark scatter: %v", err)
	}
	lmScatter.GlyphStyle.Color = color.RGBA{R: 25, G: 25, B: 25, A: 255}
	lmScatter.Shape = draw.CircleGlyph{}
	lmScatter.GlyphStyle.Radius = vg.Points(4)

	p.Add(lmScatter)
	p.Legend.Add("landmarks", lmScatter)

	// landmark estimates of all particles
	var est []mat.Vector
	for _, e := range s.Estimates {
		est = append(est, e...)
	}
	estScatter, err := plotter.NewScatter(vecPoints(est))
	if err != nil {
		return nil, fmt.Errorf("failed to create estimate scatter: %v", err)
	}
	estScatter.GlyphStyle.Color = color.RGBA{G: 255, B: 25, A: 255}
	estScatter.Shape = draw.CrossGlyph{}
	estScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(estScatter)
	p.Legend.Add("estimates", estScatter)

	// particles
	pts := make(plotter.XYs, len(s.Particles))
	for i, pp := range s.Particles {
		pts[i].X = pp.X
		pts[i].Y = pp.Y
	}
	partScatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create particle scatter: %v", err)
	}
	partScatter.GlyphStyle.Color = color.RGBA{R: 128, G: 25, B: 25, A: 255}
	partScatter.Shape = draw.PyramidGlyph{}
	partScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(partScatter)
	p.Legend.Add("particles", partScatter)

	// agent position and heading
	robot, err := plotter.NewScatter(plotter.XYs{{X: s.Truth.X, Y: s.Truth.Y}})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent scatter: %v", err)
	}
	robot.GlyphStyle.Color = color.RGBA{R: 204, G: 51, B: 25, A: 255}
	robot.Shape = draw.CircleGlyph{}
	robot.GlyphStyle.Radius = vg.Points(6)

	heading, err := plotter.NewLine(plotter.XYs{
		{X: s.Truth.X, Y: s.Truth.Y},
		{X: s.Truth.X + 20*math.Cos(s.Truth.Theta), Y: s.Truth.Y + 20*math.Sin(s.Truth.Theta)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create heading line: %v", err)
	}
	heading.LineStyle.Color = color.RGBA{R: 25, G: 25, B: 25, A: 255}

	p.Add(robot, heading)
	p.Legend.Add("agent", robot)

	return p, nil
}

func vecPoints(v []mat.Vector) plotter.XYs {
	pts := make(plotter.XYs, len(v))
	for i := range v {
		pts[i].X = v[i].AtVec(0)
		pts[i].Y = v[i].AtVec(1)
	}

	return pts
}
