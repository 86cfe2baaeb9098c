package window

import "github.com/dshills/stormdbg/internal/dock"

// Frame is the top-level window provided by the front-end.
type Frame interface {
	// SaveGeometry encodes the frame's position and size.
	SaveGeometry() ([]byte, error)

	// RestoreGeometry applies a blob from SaveGeometry.
	RestoreGeometry(data []byte) error

	// SetTitle sets the window title.
	SetTitle(title string)

	// SetStatus shows the status label and icon.
	SetStatus(label, icon string)

	// Close tears the frame down.
	Close()
}

// DefaultGeometry is the geometry of a frame that was never restored.
var DefaultGeometry = dock.Geometry{Width: 1024, Height: 768}

// HeadlessFrame is a Frame with no display. It backs --headless runs and
// tests.
type HeadlessFrame struct {
	geometry dock.Geometry
	title    string
	label    string
	icon     string
	closed   bool
}

// NewHeadlessFrame returns a frame with DefaultGeometry.
func NewHeadlessFrame() *HeadlessFrame {
	return &HeadlessFrame{geometry: DefaultGeometry}
}

func (f *HeadlessFrame) SaveGeometry() ([]byte, error) { return f.geometry.MarshalBinary() }

func (f *HeadlessFrame) RestoreGeometry(data []byte) error {
	var g dock.Geometry
	if err := g.UnmarshalBinary(data); err != nil {
		return err
	}
	f.geometry = g
	return nil
}

func (f *HeadlessFrame) SetTitle(title string) { f.title = title }

func (f *HeadlessFrame) SetStatus(label, icon string) { f.label, f.icon = label, icon }

func (f *HeadlessFrame) Close() { f.closed = true }

// Geometry returns the current geometry.
func (f *HeadlessFrame) Geometry() dock.Geometry { return f.geometry }

// SetGeometry moves or resizes the frame.
func (f *HeadlessFrame) SetGeometry(g dock.Geometry) { f.geometry = g }

// Title returns the window title.
func (f *HeadlessFrame) Title() string { return f.title }

// Status returns the status label and icon.
func (f *HeadlessFrame) Status() (label, icon string) { return f.label, f.icon }

// Closed reports whether Close was called.
func (f *HeadlessFrame) Closed() bool { return f.closed }
