package tui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/stormdbg/internal/ui"
)

// keyLabel renders a key event in the shortcut notation used by actions,
// e.g. "Ctrl+O", "F5" or "Shift+F11". Unmodified printable keys yield "".
func keyLabel(ev *tcell.EventKey) string {
	mod := ev.Modifiers()
	key := ev.Key()

	var name string
	switch {
	case key >= tcell.KeyF1 && key <= tcell.KeyF64:
		name = fmt.Sprintf("F%d", int(key-tcell.KeyF1)+1)
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
		name = string(rune('A' + int(key-tcell.KeyCtrlA)))
		mod |= tcell.ModCtrl
	case key == tcell.KeyRune:
		if mod&(tcell.ModCtrl|tcell.ModAlt) == 0 {
			return ""
		}
		name = string(unicode.ToUpper(ev.Rune()))
	default:
		return ""
	}

	var b strings.Builder
	if mod&tcell.ModCtrl != 0 {
		b.WriteString("Ctrl+")
	}
	if mod&tcell.ModAlt != 0 {
		b.WriteString("Alt+")
	}
	if mod&tcell.ModShift != 0 {
		b.WriteString("Shift+")
	}
	b.WriteString(name)
	return b.String()
}

// findShortcut searches menus depth-first for a visible action bound to
// label.
func findShortcut(menus []*ui.Menu, label string) *ui.Action {
	if label == "" {
		return nil
	}
	for _, m := range menus {
		for _, e := range m.Entries() {
			switch {
			case e.Action != nil && e.Action.Visible() && e.Action.Shortcut() == label:
				return e.Action
			case e.Menu != nil:
				if a := findShortcut([]*ui.Menu{e.Menu}, label); a != nil {
					return a
				}
			}
		}
	}
	return nil
}

// plainText strips mnemonic markers from menu text.
func plainText(s string) string {
	s = strings.ReplaceAll(s, "&&", "\x00")
	s = strings.ReplaceAll(s, "&", "")
	return strings.ReplaceAll(s, "\x00", "&")
}
