package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/dshills/stormdbg/internal/dock"
	"github.com/dshills/stormdbg/internal/event/dispatch"
	"github.com/dshills/stormdbg/internal/logging"
	"github.com/dshills/stormdbg/internal/ui"
	"github.com/dshills/stormdbg/internal/window"
)

// prompt is a pending file dialog.
type prompt struct {
	title string
	input []rune
	done  ui.FileCallback
}

// Screen drives a tcell screen from the UI loop.
type Screen struct {
	screen tcell.Screen
	loop   *dispatch.Loop
	log    logrus.FieldLogger

	win *window.Window

	// Frame state, touched on the UI loop only
	title    string
	label    string
	icon     string
	restored dock.Geometry
	prompt   *prompt
	message  string

	closeOnce sync.Once
	closed    chan struct{}
}

// Option configures a Screen.
type Option func(*Screen)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Screen) { s.log = l }
}

// New wraps an initialized tcell screen.
func New(screen tcell.Screen, loop *dispatch.Loop, opts ...Option) *Screen {
	s := &Screen{
		screen: screen,
		loop:   loop,
		closed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	return s
}

// NewTerminal opens the controlling terminal.
func NewTerminal(loop *dispatch.Loop, opts ...Option) (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnablePaste()
	return New(screen, loop, opts...), nil
}

// Attach sets the window to render and to route shortcuts to.
func (s *Screen) Attach(w *window.Window) { s.win = w }

// Done is closed once the frame has been closed.
func (s *Screen) Done() <-chan struct{} { return s.closed }

// Poll reads terminal events on a new goroutine and posts them to the loop.
// It stops when the screen is finalized or ctx is done.
func (s *Screen) Poll(ctx context.Context) {
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil || ctx.Err() != nil {
				return
			}
			err := s.loop.Post(func(lctx context.Context) { s.HandleEvent(lctx, ev) })
			if err != nil {
				s.log.WithError(err).Warn("terminal event dropped")
			}
		}
	}()
}

// HandleEvent processes one terminal event. It runs on the UI loop.
func (s *Screen) HandleEvent(ctx context.Context, ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		s.screen.Sync()
	case *tcell.EventKey:
		if s.prompt != nil {
			s.promptKey(e)
			return
		}
		s.message = ""
		s.shortcut(ctx, e)
	}
}

func (s *Screen) shortcut(ctx context.Context, ev *tcell.EventKey) {
	if s.win == nil {
		return
	}
	label := keyLabel(ev)
	a := findShortcut(s.win.MenuBar(), label)
	if a == nil {
		return
	}
	err := a.Trigger(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ui.ErrActionDisabled):
		s.log.WithField("action", a.ID()).Debug("action disabled")
	default:
		s.log.WithField("action", a.ID()).WithError(err).Warn("action failed")
	}
}

func (s *Screen) promptKey(ev *tcell.EventKey) {
	p := s.prompt
	switch ev.Key() {
	case tcell.KeyEnter:
		s.prompt = nil
		path := strings.TrimSpace(string(p.input))
		p.done(path, path != "")
	case tcell.KeyEscape:
		s.prompt = nil
		p.done("", false)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(p.input); n > 0 {
			p.input = p.input[:n-1]
		}
	case tcell.KeyRune:
		p.input = append(p.input, ev.Rune())
	}
}

// OpenFile implements ui.Dialogs with a path prompt on the status row.
func (s *Screen) OpenFile(title, dir, _ string, done ui.FileCallback) {
	s.ask(title, dir, done)
}

// SaveFile implements ui.Dialogs.
func (s *Screen) SaveFile(title, dir, _ string, done ui.FileCallback) {
	s.ask(title, dir, done)
}

// Message implements ui.Dialogs. The first line of text stays on the status
// row until the next key.
func (s *Screen) Message(title, text string) {
	line, _, _ := strings.Cut(text, "\n")
	s.message = title + ": " + line
}

func (s *Screen) ask(title, dir string, done ui.FileCallback) {
	if s.prompt != nil {
		// Only one prompt at a time; the old one is cancelled.
		old := s.prompt
		s.prompt = nil
		old.done("", false)
	}
	var input []rune
	if dir != "" {
		input = []rune(strings.TrimSuffix(dir, string(filepath.Separator)) + string(filepath.Separator))
	}
	s.prompt = &prompt{title: title, input: input, done: done}
}

// SaveGeometry implements window.Frame. A terminal has no position; the size
// is recorded.
func (s *Screen) SaveGeometry() ([]byte, error) {
	w, h := s.screen.Size()
	return dock.Geometry{Width: int32(w), Height: int32(h)}.MarshalBinary()
}

// RestoreGeometry implements window.Frame. The terminal cannot be resized,
// so the geometry is only validated and remembered.
func (s *Screen) RestoreGeometry(data []byte) error {
	var g dock.Geometry
	if err := g.UnmarshalBinary(data); err != nil {
		return err
	}
	s.restored = g
	return nil
}

func (s *Screen) SetTitle(title string) { s.title = title }

func (s *Screen) SetStatus(label, icon string) { s.label, s.icon = label, icon }

// Close implements window.Frame and releases the terminal.
func (s *Screen) Close() {
	s.closeOnce.Do(func() {
		s.screen.Fini()
		close(s.closed)
	})
}

// Status returns the status label and icon last set by the window.
func (s *Screen) Status() (label, icon string) { return s.label, s.icon }
