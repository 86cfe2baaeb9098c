package ui

// Entry is one row of a menu or toolbar: an action, a submenu or a separator.
type Entry struct {
	Action    *Action
	Menu      *Menu
	Separator bool
}

// Menu is an ordered list of entries. The toolbar is modelled as a Menu too.
type Menu struct {
	id      string
	title   string
	entries []Entry
}

// NewMenu creates an empty menu.
func NewMenu(id, title string) *Menu {
	return &Menu{id: id, title: title}
}

// ID returns the menu identifier.
func (m *Menu) ID() string { return m.id }

// Title returns the display title.
func (m *Menu) Title() string { return m.title }

// AddAction appends an action.
func (m *Menu) AddAction(a *Action) {
	m.entries = append(m.entries, Entry{Action: a})
}

// InsertAction inserts a before the entry holding before.
// If before is nil or absent, a is appended.
func (m *Menu) InsertAction(before, a *Action) {
	for i, e := range m.entries {
		if before != nil && e.Action == before {
			m.entries = append(m.entries[:i], append([]Entry{{Action: a}}, m.entries[i:]...)...)
			return
		}
	}
	m.AddAction(a)
}

// AddMenu appends a submenu.
func (m *Menu) AddMenu(sub *Menu) {
	m.entries = append(m.entries, Entry{Menu: sub})
}

// AddSeparator appends a separator.
func (m *Menu) AddSeparator() {
	m.entries = append(m.entries, Entry{Separator: true})
}

// RemoveAction removes the first entry holding a.
func (m *Menu) RemoveAction(a *Action) bool {
	for i, e := range m.entries {
		if e.Action == a {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Entries returns a copy of the entries.
func (m *Menu) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Actions returns the top-level actions in order, skipping submenus and
// separators.
func (m *Menu) Actions() []*Action {
	out := make([]*Action, 0, len(m.entries))
	for _, e := range m.entries {
		if e.Action != nil {
			out = append(out, e.Action)
		}
	}
	return out
}

// Find searches the menu and its submenus for an action by id.
func (m *Menu) Find(id string) *Action {
	for _, e := range m.entries {
		switch {
		case e.Action != nil && e.Action.ID() == id:
			return e.Action
		case e.Menu != nil:
			if a := e.Menu.Find(id); a != nil {
				return a
			}
		}
	}
	return nil
}

// Len returns the number of entries.
func (m *Menu) Len() int { return len(m.entries) }

// MenuBar is the ordered set of top-level menus.
type MenuBar struct {
	menus []*Menu
}

// Add appends a menu.
func (b *MenuBar) Add(m *Menu) { b.menus = append(b.menus, m) }

// Menus returns the menus in order.
func (b *MenuBar) Menus() []*Menu {
	out := make([]*Menu, len(b.menus))
	copy(out, b.menus)
	return out
}

// Menu returns a menu by id.
func (b *MenuBar) Menu(id string) *Menu {
	for _, m := range b.menus {
		if m.id == id {
			return m
		}
	}
	return nil
}
