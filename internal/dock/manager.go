package dock

import (
	"context"
	"fmt"
	"slices"

	"github.com/dshills/stormdbg/internal/ui"
)

type entry struct {
	panel   *ui.Panel
	area    ui.Area
	visible bool
	toggle  *ui.Action
}

// Manager tracks attached panels and their arrangement. It is used on the UI
// loop only.
type Manager struct {
	entries map[string]*entry
	order   []string
	stacks  map[ui.Area][][]string
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{
		entries: make(map[string]*entry),
		stacks:  make(map[ui.Area][][]string),
	}
}

// Add attaches p in its requested area, in a stack of its own.
func (m *Manager) Add(p *ui.Panel) error {
	if p == nil || p.ID == "" {
		return ErrNilPanel
	}
	if !p.Area.Valid() {
		return fmt.Errorf("panel %s: %w", p.ID, ErrInvalidArea)
	}
	if _, ok := m.entries[p.ID]; ok {
		return fmt.Errorf("panel %s: %w", p.ID, ErrAlreadyAttached)
	}

	e := &entry{panel: p, area: p.Area, visible: true}
	id := p.ID
	e.toggle = ui.NewAction("view."+id, p.Title(),
		ui.WithCheckable(true),
		ui.WithTrigger(func(context.Context) error {
			return m.SetVisible(id, e.toggle.Checked())
		}),
	)

	m.entries[id] = e
	m.order = append(m.order, id)
	m.stacks[p.Area] = append(m.stacks[p.Area], []string{id})
	return nil
}

// Remove detaches the panel with the given ID and returns it.
func (m *Manager) Remove(id string) (*ui.Panel, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, fmt.Errorf("panel %s: %w", id, ErrNotAttached)
	}
	m.unstack(id)
	delete(m.entries, id)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	return e.panel, nil
}

// Panel returns the attached panel with the given ID.
func (m *Manager) Panel(id string) (*ui.Panel, bool) {
	e, ok := m.entries[id]
	if !ok {
		return nil, false
	}
	return e.panel, true
}

// Panels returns the attached panels in attach order.
func (m *Manager) Panels() []*ui.Panel {
	out := make([]*ui.Panel, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entries[id].panel)
	}
	return out
}

// Len returns the number of attached panels.
func (m *Manager) Len() int { return len(m.entries) }

// Area returns the area currently holding the panel.
func (m *Manager) Area(id string) (ui.Area, bool) {
	e, ok := m.entries[id]
	if !ok {
		return 0, false
	}
	return e.area, true
}

// Stacks returns a copy of the tab stacks in area.
func (m *Manager) Stacks(area ui.Area) [][]string {
	src := m.stacks[area]
	out := make([][]string, len(src))
	for i, s := range src {
		out[i] = slices.Clone(s)
	}
	return out
}

// StackOf returns the tab stack containing id.
func (m *Manager) StackOf(id string) []string {
	e, ok := m.entries[id]
	if !ok {
		return nil
	}
	for _, s := range m.stacks[e.area] {
		if slices.Contains(s, id) {
			return slices.Clone(s)
		}
	}
	return nil
}

// Tabify moves second into first's tab stack, and so into first's area.
func (m *Manager) Tabify(first, second string) error {
	fe, ok := m.entries[first]
	if !ok {
		return fmt.Errorf("panel %s: %w", first, ErrNotAttached)
	}
	se, ok := m.entries[second]
	if !ok {
		return fmt.Errorf("panel %s: %w", second, ErrNotAttached)
	}
	if first == second || slices.Contains(m.StackOf(first), second) {
		return nil
	}

	m.unstack(second)
	se.area = fe.area
	for i, s := range m.stacks[fe.area] {
		if slices.Contains(s, first) {
			m.stacks[fe.area][i] = append(s, second)
			return nil
		}
	}
	return nil
}

// SetVisible shows or hides a panel and keeps its toggle action in step.
func (m *Manager) SetVisible(id string, visible bool) error {
	e, ok := m.entries[id]
	if !ok {
		return fmt.Errorf("panel %s: %w", id, ErrNotAttached)
	}
	e.visible = visible
	e.toggle.SetChecked(visible)
	return nil
}

// Visible reports whether an attached panel is shown.
func (m *Manager) Visible(id string) bool {
	e, ok := m.entries[id]
	return ok && e.visible
}

// ToggleAction returns the checkable action that shows and hides the panel.
func (m *Manager) ToggleAction(id string) *ui.Action {
	e, ok := m.entries[id]
	if !ok {
		return nil
	}
	return e.toggle
}

// unstack removes id from whichever stack holds it, dropping empty stacks.
func (m *Manager) unstack(id string) {
	e := m.entries[id]
	stacks := m.stacks[e.area]
	for i, s := range stacks {
		j := slices.Index(s, id)
		if j < 0 {
			continue
		}
		s = slices.Delete(slices.Clone(s), j, j+1)
		if len(s) == 0 {
			stacks = slices.Delete(stacks, i, i+1)
		} else {
			stacks[i] = s
		}
		break
	}
	if len(stacks) == 0 {
		delete(m.stacks, e.area)
		return
	}
	m.stacks[e.area] = stacks
}
