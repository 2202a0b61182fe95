package surgery

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/spatial/r3"

	"surgery-sim/internal/actuator"
	"surgery-sim/internal/config"
	"surgery-sim/internal/display"
	simimage "surgery-sim/internal/image"
	"surgery-sim/internal/render"
	"surgery-sim/internal/segment"
	"surgery-sim/internal/target"
)

type fixture struct {
	cfg    *config.Config
	arm    *actuator.Arm
	viewer *display.Headless
	sim    *Simulation
	logs   *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default()
	cfg.PaceDelay = 0
	cfg.OutputPath = filepath.Join(t.TempDir(), "surgery_result.jpg")

	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	f := &fixture{
		cfg:    cfg,
		arm:    actuator.NewArm(cfg.Arm.Damping, logger),
		viewer: display.NewHeadless(nil, logger),
		logs:   logs,
	}
	f.sim = New(cfg, f.arm, f.viewer, logger)
	return f
}

// writeScan draws white disks on a dark background and saves it as PNG.
func writeScan(t *testing.T, rows, cols int, background float64, disks ...[3]int) string {
	t.Helper()
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(background, background, background, 0), rows, cols, gocv.MatTypeCV8UC3)
	defer mat.Close()
	for _, d := range disks {
		gocv.Circle(&mat, image.Pt(d[0], d[1]), d[2], color.RGBA{R: 230, G: 230, B: 230, A: 255}, -1)
	}
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, simimage.Save(path, mat))
	return path
}

func TestRunBrightDisk(t *testing.T) {
	f := newFixture(t)
	scan := writeScan(t, 160, 200, 20, [3]int{120, 80, 30}, [3]int{30, 30, 6})

	res, err := f.sim.Run(context.Background(), scan)
	require.NoError(t, err)

	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, []State{
		StateIdle, StateCaptured, StateSegmented, StateTargeted,
		StateApproaching, StateRemoving, StateComposed, StateDone,
	}, res.Trace)
	assert.False(t, res.NoTarget())

	require.NotNil(t, res.Geometry)
	assert.InDelta(t, 120, res.Geometry.Centroid.X, 1)
	assert.InDelta(t, 80, res.Geometry.Centroid.Y, 1)
	assert.True(t, res.Geometry.Box.Contains(image.Pt(120, 80)))
	assert.Equal(t, image.Pt(50, 150), res.LeftArrow.From)
	assert.Equal(t, image.Pt(150, 150), res.RightArrow.From)
	assert.Equal(t, res.Geometry.Box.MidLeft(), res.LeftArrow.To)

	center := res.Geometry.CentroidPixel()
	assert.InDelta(t, float64(center.X)+0.01, res.ArmPosition.X, 1e-9)
	assert.InDelta(t, float64(center.Y)+0.01, res.ArmPosition.Y, 1e-9)
	assert.InDelta(t, -1.99, res.ArmPosition.Z, 1e-9)

	require.Equal(t, f.cfg.OutputPath, res.OutputPath)
	out := gocv.IMRead(res.OutputPath, gocv.IMReadColor)
	defer out.Close()
	require.False(t, out.Empty())
	assert.Equal(t, 400, out.Cols())
	assert.Equal(t, 160, out.Rows())

	// Removal disk sits on the tumor in the right half
	px := out.GetVecbAt(80, 200+120)
	for _, v := range px {
		assert.InDelta(t, 128, int(v), 12)
	}

	assert.Equal(t, 3, f.viewer.Shown())
	assert.True(t, f.viewer.Closed())
	assert.NotEmpty(t, f.logs.FilterMessage("combined image saved").All())
}

func TestRunAllDark(t *testing.T) {
	f := newFixture(t)
	scan := writeScan(t, 120, 120, 40)

	res, err := f.sim.Run(context.Background(), scan)
	require.NoError(t, err)

	assert.True(t, res.NoTarget())
	assert.Equal(t, []State{StateIdle, StateCaptured, StateSegmented, StateDone}, res.Trace)
	assert.Nil(t, res.Geometry)
	assert.Empty(t, res.OutputPath)
	assert.Equal(t, r3.Vec{}, res.ArmPosition)

	_, statErr := os.Stat(f.cfg.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
	assert.True(t, f.viewer.Closed())
	assert.Len(t, f.logs.FilterMessage("no tumor detected").All(), 1)
}

func TestRunMissingImage(t *testing.T) {
	f := newFixture(t)

	res, err := f.sim.Run(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))
	require.Error(t, err)

	assert.True(t, errors.Is(err, simimage.ErrFileNotFound))
	assert.Equal(t, []State{StateIdle, StateDone}, res.Trace)
	assert.True(t, f.viewer.Closed())
	assert.Zero(t, f.viewer.Shown())
}

func TestRunDegenerateRegion(t *testing.T) {
	f := newFixture(t)

	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 40, 40, gocv.MatTypeCV8UC3)
	defer mat.Close()
	mat.SetUCharAt(10, 10*3, 255)
	mat.SetUCharAt(10, 10*3+1, 255)
	mat.SetUCharAt(10, 10*3+2, 255)
	scan := filepath.Join(t.TempDir(), "speck.png")
	require.NoError(t, simimage.Save(scan, mat))

	res, err := f.sim.Run(context.Background(), scan)
	require.Error(t, err)

	assert.True(t, errors.Is(err, target.ErrDegenerateGeometry))
	assert.Equal(t, StateDone, res.State)
	assert.Nil(t, res.Geometry)
	assert.Empty(t, res.OutputPath)
	assert.NotEmpty(t, f.logs.FilterLevelExact(zap.ErrorLevel).All())
	_, statErr := os.Stat(f.cfg.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunWaitsForAcknowledge(t *testing.T) {
	f := newFixture(t)
	f.viewer.Ack = make(chan struct{})
	scan := writeScan(t, 100, 100, 0, [3]int{50, 50, 20})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.sim.Run(ctx, scan)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, f.cfg.OutputPath, res.OutputPath)
	assert.Equal(t, StateDone, res.State)
	assert.True(t, f.viewer.Closed())
}

func TestRunPacesTwice(t *testing.T) {
	f := newFixture(t)
	var paced int
	f.sim.Pace = func(context.Context, time.Duration) { paced++ }
	scan := writeScan(t, 100, 100, 0, [3]int{50, 50, 20})

	_, err := f.sim.Run(context.Background(), scan)
	require.NoError(t, err)
	assert.Equal(t, 2, paced)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StateIdle, StateCaptured))
	assert.True(t, CanTransition(StateSegmented, StateDone))
	assert.True(t, CanTransition(StateComposed, StateDone))
	assert.False(t, CanTransition(StateCaptured, StateTargeted))
	assert.False(t, CanTransition(StateDone, StateIdle))
	assert.Equal(t, "Approaching", StateApproaching.String())
}

func TestConfigDefaultsMatchStageDefaults(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, segment.DefaultThreshold, cfg.Segment.Threshold)
	assert.Equal(t, actuator.DefaultDamping, cfg.Arm.Damping)
	assert.Equal(t, target.DefaultArrowOffset, cfg.Target.ArrowOffset)
	assert.Equal(t, render.DefaultRemovalRadius, cfg.Render.RemovalRadius)
}
