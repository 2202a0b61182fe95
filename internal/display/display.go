// Package display shows frames to an observer and waits for acknowledgement.
// Viewers are used for observation only and never steer the simulation.
package display

import (
	"context"
	"sync"

	"gocv.io/x/gocv"
	"go.uber.org/zap"
)

// Viewer renders frames and blocks until the observer acknowledges.
type Viewer interface {
	// Show refreshes the view with frame without blocking.
	Show(frame gocv.Mat)
	// WaitForAcknowledge blocks until the observer signals or ctx is done.
	WaitForAcknowledge(ctx context.Context) error
	// Close releases any display resources. Safe to call more than once.
	Close() error
}

// DefaultPollInterval is how long each WaitKey call pumps window events.
const DefaultPollInterval = 50

// Window shows frames in an OpenCV highgui window.
type Window struct {
	title        string
	pollInterval int

	win       *gocv.Window
	closeOnce sync.Once
}

// NewWindow opens a named window.
func NewWindow(title string) *Window {
	return &Window{
		title:        title,
		pollInterval: DefaultPollInterval,
		win:          gocv.NewWindow(title),
	}
}

// Show displays frame and lets the window repaint.
func (w *Window) Show(frame gocv.Mat) {
	if frame.Empty() {
		return
	}
	w.win.IMShow(frame)
	w.win.WaitKey(1)
}

// WaitForAcknowledge returns when any key is pressed in the window.
func (w *Window) WaitForAcknowledge(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if key := w.win.WaitKey(w.pollInterval); key != -1 {
			return nil
		}
	}
}

// Close destroys the window.
func (w *Window) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.win.Close()
	})
	return err
}

// Headless is a Viewer for non-interactive runs. It logs what would have
// been shown and treats the Ack channel as the acknowledge signal. A nil
// Ack acknowledges immediately.
type Headless struct {
	Ack <-chan struct{}

	logger *zap.Logger
	mu     sync.Mutex
	shown  int
	closed bool
}

// NewHeadless creates a headless viewer. A nil logger disables logging.
func NewHeadless(ack <-chan struct{}, logger *zap.Logger) *Headless {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Headless{Ack: ack, logger: logger.Named("display")}
}

// Show records the frame.
func (h *Headless) Show(frame gocv.Mat) {
	h.mu.Lock()
	h.shown++
	h.mu.Unlock()
	h.logger.Debug("frame shown", zap.Int("width", frame.Cols()), zap.Int("height", frame.Rows()))
}

// WaitForAcknowledge waits for Ack to fire or close.
func (h *Headless) WaitForAcknowledge(ctx context.Context) error {
	if h.Ack == nil {
		return nil
	}
	select {
	case <-h.Ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close marks the viewer released.
func (h *Headless) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	return nil
}

// Shown returns how many frames were shown.
func (h *Headless) Shown() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shown
}

// Closed reports whether Close has been called.
func (h *Headless) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
