package ui

import (
	"fmt"
	"strings"
)

// Area identifies a dock area around the central editor region.
type Area int

const (
	AreaLeft Area = iota
	AreaRight
	AreaTop
	AreaBottom
)

// Areas returns every dock area in layout order.
func Areas() []Area {
	return []Area{AreaLeft, AreaRight, AreaTop, AreaBottom}
}

// String returns the lowercase area name.
func (a Area) String() string {
	switch a {
	case AreaLeft:
		return "left"
	case AreaRight:
		return "right"
	case AreaTop:
		return "top"
	case AreaBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Valid reports whether a is a known area.
func (a Area) Valid() bool {
	return a >= AreaLeft && a <= AreaBottom
}

// ParseArea parses an area name. Matching ignores case.
func ParseArea(s string) (Area, error) {
	for _, a := range Areas() {
		if strings.EqualFold(s, a.String()) {
			return a, nil
		}
	}
	return AreaLeft, fmt.Errorf("unknown dock area %q", s)
}

// View is the opaque handle of a panel's content. The hub never renders it;
// only the title is shown in tab headers.
type View interface {
	Title() string
}

// TextView is a View holding static text.
type TextView struct {
	Name string
	Text string
}

// Title implements View.
func (v *TextView) Title() string { return v.Name }

// Panel is a dock-attachable pane contributed by a plugin or a core view.
type Panel struct {
	// ID is the unique panel identifier, e.g. "BreakpointView".
	ID string
	// View is the panel content handle.
	View View
	// Area is the requested dock area.
	Area Area
	// Owner identifies the plugin that registered the panel.
	Owner string
	// Toggle requests a visibility toggle in the View menu.
	Toggle bool
}

// Title returns the view title, falling back to the panel id.
func (p Panel) Title() string {
	if p.View != nil {
		if t := p.View.Title(); t != "" {
			return t
		}
	}
	return p.ID
}
