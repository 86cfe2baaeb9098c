package tui

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/stormdbg/internal/status"
	"github.com/dshills/stormdbg/internal/ui"
)

var (
	styleBar      = tcell.StyleDefault.Reverse(true)
	styleDisabled = tcell.StyleDefault.Dim(true)
	styleTabs     = tcell.StyleDefault.Bold(true)
	styleRunning  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleStopped  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Draw renders the window. It runs on the UI loop, typically as the loop's
// after-task hook.
func (s *Screen) Draw() {
	s.screen.Clear()
	width, height := s.screen.Size()
	if width <= 0 || height < 4 {
		s.screen.Show()
		return
	}

	s.drawMenuBar(width)
	if s.win != nil {
		s.drawToolbar(width)
		s.drawBody(width, height)
	}
	s.drawStatus(width, height-1)
	s.screen.Show()
}

func (s *Screen) drawMenuBar(width int) {
	fill(s.screen, 0, 0, width, styleBar)
	x := 1
	if s.win != nil {
		for _, m := range s.win.MenuBar() {
			x = drawText(s.screen, x, 0, width, styleBar, plainText(m.Title())) + 2
		}
	}
	if s.title != "" && len(s.title)+1 < width-x {
		drawText(s.screen, width-len(s.title)-1, 0, width, styleBar, s.title)
	}
}

func (s *Screen) drawToolbar(width int) {
	x := 0
	for _, e := range s.win.Toolbar().Entries() {
		switch {
		case e.Separator:
			x = drawText(s.screen, x, 1, width, tcell.StyleDefault, "|") + 1
		case e.Action != nil && e.Action.Visible():
			style := tcell.StyleDefault
			if !e.Action.Enabled() {
				style = styleDisabled
			}
			text := plainText(e.Action.Text())
			if e.Action.Checkable() && e.Action.Checked() {
				text = "*" + text
			}
			x = drawText(s.screen, x, 1, width, style, "["+text+"]") + 1
		}
	}
}

// drawBody lays out dock areas around the central editor region.
func (s *Screen) drawBody(width, height int) {
	top := 2
	bottom := height - 1

	bottomRows := s.stackRows(ui.AreaBottom)
	topRows := s.stackRows(ui.AreaTop)
	for i := len(bottomRows) - 1; i >= 0 && bottom > top; i-- {
		bottom--
		drawText(s.screen, 0, bottom, width, styleTabs, bottomRows[i])
	}
	for _, row := range topRows {
		if top >= bottom {
			break
		}
		drawText(s.screen, 0, top, width, styleTabs, row)
		top++
	}

	left := s.stackRows(ui.AreaLeft)
	right := s.stackRows(ui.AreaRight)
	leftW, rightW := 0, 0
	if len(left) > 0 {
		leftW = width / 5
	}
	if len(right) > 0 {
		rightW = width / 4
	}
	for i, row := range left {
		if top+i >= bottom {
			break
		}
		drawText(s.screen, 0, top+i, leftW, styleTabs, row)
	}
	for i, row := range right {
		if top+i >= bottom {
			break
		}
		drawText(s.screen, width-rightW, top+i, width, styleTabs, row)
	}

	if top < bottom {
		centre := "-- " + s.win.CentralView().Title() + " --"
		drawText(s.screen, leftW+1, top, width-rightW-1, tcell.StyleDefault, centre)
	}
}

// stackRows renders each tab stack of area as "[A|B]", skipping hidden
// panels.
func (s *Screen) stackRows(area ui.Area) []string {
	d := s.win.Dock()
	var rows []string
	for _, stack := range d.Stacks(area) {
		var titles []string
		for _, id := range stack {
			if !d.Visible(id) {
				continue
			}
			if p, ok := d.Panel(id); ok {
				titles = append(titles, p.Title())
			}
		}
		if len(titles) > 0 {
			rows = append(rows, "["+strings.Join(titles, "|")+"]")
		}
	}
	return rows
}

func (s *Screen) drawStatus(width, y int) {
	fill(s.screen, 0, y, width, styleBar)
	switch {
	case s.prompt != nil:
		drawText(s.screen, 0, y, width, styleBar, s.prompt.title+": "+string(s.prompt.input))
	case s.message != "":
		drawText(s.screen, 0, y, width, styleBar, s.message)
	default:
		style := styleBar
		if s.win != nil {
			switch s.win.Status() {
			case status.Running:
				style = styleRunning.Reverse(true)
			case status.Stopped:
				style = styleStopped.Reverse(true)
			}
		}
		drawText(s.screen, 0, y, width, style, s.label)
	}
}

// drawText writes s from x until maxX and returns the column after the last
// rune written.
func drawText(scr tcell.Screen, x, y, maxX int, style tcell.Style, s string) int {
	for _, r := range s {
		if x >= maxX {
			break
		}
		scr.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func fill(scr tcell.Screen, x, y, maxX int, style tcell.Style) {
	for ; x < maxX; x++ {
		scr.SetContent(x, y, ' ', nil, style)
	}
}
