// Package surgery runs one pass of the simulated tumor-removal procedure:
// capture, segmentation, targeting, arm approach, removal and a labeled
// before/after composite.
package surgery

import (
	"context"
	"image"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"surgery-sim/internal/actuator"
	"surgery-sim/internal/config"
	"surgery-sim/internal/contour"
	"surgery-sim/internal/display"
	simimage "surgery-sim/internal/image"
	"surgery-sim/internal/render"
	"surgery-sim/internal/segment"
	"surgery-sim/internal/target"
)

// Result summarizes a finished run.
type Result struct {
	State   State   // Final state, always StateDone once Run returns
	Trace   []State // Every state entered, in order
	Outcome error   // ErrNoTargetFound when the run ended without a target

	Geometry    *target.Geometry
	LeftArrow   target.Arrow
	RightArrow  target.Arrow
	ArmPosition r3.Vec
	OutputPath  string // Empty unless the composite was written
}

// NoTarget reports whether the run ended on the no-target edge.
func (r *Result) NoTarget() bool {
	return errors.Is(r.Outcome, ErrNoTargetFound)
}

// Simulation sequences the pipeline against one arm and one viewer.
// It is single-use per Run and not safe for concurrent use.
type Simulation struct {
	cfg        *config.Config
	arm        actuator.Actuator
	viewer     display.Viewer
	segmenter  *segment.Segmenter
	targeter   *target.Targeter
	compositor *render.Compositor
	logger     *zap.Logger

	// Pace blocks between observable stages. Defaults to a context-aware sleep.
	Pace func(ctx context.Context, d time.Duration)

	state State
	trace []State
}

// New wires a simulation. The simulation takes ownership of viewer and
// closes it when Run returns.
func New(cfg *config.Config, arm actuator.Actuator, viewer display.Viewer, logger *zap.Logger) *Simulation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulation{
		cfg:        cfg,
		arm:        arm,
		viewer:     viewer,
		segmenter:  segment.New(uint8(cfg.Segment.Threshold)),
		targeter:   target.New(cfg.Target.ArrowOffset),
		compositor: render.New(cfg.Render.RemovalRadius),
		logger:     logger.Named("surgery"),
		Pace:       sleep,
	}
}

// State returns the current state.
func (s *Simulation) State() State {
	return s.state
}

// Run executes the scenario for the image at imagePath. A missing target is
// not an error: the returned Result has Outcome set to ErrNoTargetFound.
// The viewer is released on every return path.
func (s *Simulation) Run(ctx context.Context, imagePath string) (res *Result, err error) {
	s.state = StateIdle
	s.trace = []State{StateIdle}
	res = &Result{}

	defer func() {
		if s.state != StateDone {
			s.enter(StateDone)
		}
		err = multierr.Append(err, s.viewer.Close())
		res.State = s.state
		res.Trace = append([]State(nil), s.trace...)
		res.ArmPosition = s.arm.Position()
	}()

	// Idle -> Captured
	frame, err := simimage.Load(imagePath)
	if err != nil {
		s.logger.Error("image capture failed", zap.String("path", imagePath), zap.Error(err))
		return res, errors.Wrap(err, "capture")
	}
	defer frame.Close()
	s.enter(StateCaptured)
	s.logger.Info("image captured by surgical camera",
		zap.String("path", imagePath), zap.Int("width", frame.Cols()), zap.Int("height", frame.Rows()))
	s.viewer.Show(frame)

	// Captured -> Segmented
	mask, err := s.segmenter.Segment(frame)
	if err != nil {
		return res, errors.Wrap(err, "segmentation")
	}
	defer mask.Close()
	contours, err := contour.Extract(mask)
	if err != nil {
		return res, errors.Wrap(err, "contour extraction")
	}
	s.enter(StateSegmented)

	// Segmented -> Targeted, or straight to Done
	tumor, ok := contour.SelectLargest(contours)
	if !ok {
		s.logger.Info("no tumor detected")
		res.Outcome = ErrNoTargetFound
		s.enter(StateDone)
		return res, nil
	}
	working := s.compositor.HighlightDetection(frame, tumor)
	defer working.Close()
	s.enter(StateTargeted)
	s.logger.Info("tumor detected and highlighted",
		zap.Int("contours", len(contours)), zap.Float64("area", tumor.Area()))

	// Targeted -> Approaching
	geom, err := s.targeter.Compute(tumor)
	if err != nil {
		s.logger.Error("internal consistency fault: selected contour has no area",
			zap.Int("contour", tumor.Index), zap.Int("points", len(tumor.Points)), zap.Error(err))
		return res, errors.Wrap(err, "targeting")
	}
	res.Geometry = &geom
	ref := image.Pt(s.cfg.Arm.ReferenceX, s.cfg.Arm.ReferenceY)
	res.LeftArrow, res.RightArrow = s.targeter.Arrows(ref, geom.Box)

	before := working.Clone()
	defer before.Close()
	targeting := s.compositor.AnnotateTargeting(working, geom.Box, res.LeftArrow, res.RightArrow)
	defer targeting.Close()
	s.enter(StateApproaching)
	s.viewer.Show(targeting)

	s.logger.Info("preparing to remove the tumor", zap.Stringer("target", geom))
	s.Pace(ctx, s.cfg.PaceDelay)

	center := geom.CentroidPixel()
	s.logger.Info("surgeon directs arm",
		zap.Int("x", center.X), zap.Int("y", center.Y), zap.Float64("z", s.cfg.Arm.ApproachDepth))
	s.arm.MoveTo(float64(center.X), float64(center.Y), s.cfg.Arm.ApproachDepth)
	d := s.cfg.Arm.TremorDelta
	s.arm.Adjust(d, d, d)

	// Approaching -> Removing
	s.logger.Info("removing the tumor is in process")
	removed, err := s.compositor.MarkRemoved(targeting, tumor)
	if err != nil {
		return res, errors.Wrap(err, "removal")
	}
	defer removed.Close()
	s.Pace(ctx, s.cfg.PaceDelay)
	s.logger.Info("tumor removed successfully")
	after := s.compositor.AnnotateRemoval(removed, tumor, geom.Box)
	defer after.Close()
	s.enter(StateRemoving)

	// Removing -> Composed
	combined, err := s.compositor.SideBySide(before, after)
	if err != nil {
		return res, errors.Wrap(err, "composite")
	}
	defer combined.Close()
	if err := simimage.Save(s.cfg.OutputPath, combined); err != nil {
		return res, errors.Wrap(err, "save composite")
	}
	res.OutputPath = s.cfg.OutputPath
	s.enter(StateComposed)
	s.logger.Info("combined image saved", zap.String("path", s.cfg.OutputPath))
	s.viewer.Show(combined)

	// Composed -> Done
	s.logger.Info("press any key to exit")
	if err := s.viewer.WaitForAcknowledge(ctx); err != nil {
		return res, errors.Wrap(err, "waiting for acknowledge")
	}
	s.enter(StateDone)
	s.logger.Info("exiting the program")
	return res, nil
}

func (s *Simulation) enter(to State) {
	if !CanTransition(s.state, to) {
		s.logger.DPanic("invalid state transition", zap.Stringer("from", s.state), zap.Stringer("to", to))
	}
	s.logger.Debug("state transition", zap.Stringer("from", s.state), zap.Stringer("to", to))
	s.state = to
	s.trace = append(s.trace, to)
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
