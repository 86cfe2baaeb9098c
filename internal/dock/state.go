package dock

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/dshills/stormdbg/internal/ui"
)

const stateVersion = 1

type savedState struct {
	Version int                   `json:"version"`
	Areas   map[string][][]string `json:"areas"`
	Hidden  []string              `json:"hidden,omitempty"`
}

// SaveState encodes the current arrangement and visibility.
func (m *Manager) SaveState() ([]byte, error) {
	st := savedState{
		Version: stateVersion,
		Areas:   make(map[string][][]string),
	}
	for _, area := range ui.Areas() {
		if stacks := m.Stacks(area); len(stacks) > 0 {
			st.Areas[area.String()] = stacks
		}
	}
	for _, id := range m.order {
		if !m.entries[id].visible {
			st.Hidden = append(st.Hidden, id)
		}
	}
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode dock state: %w", err)
	}
	return data, nil
}

// RestoreState applies a blob from SaveState. Empty input is a no-op. Panels
// named in the blob but not attached are ignored; attached panels the blob
// does not mention keep their place.
func (m *Manager) RestoreState(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var st savedState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if st.Version != stateVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorruptState, st.Version)
	}

	type placed struct {
		area   ui.Area
		stacks [][]string
	}
	var plan []placed
	seen := make(map[string]bool)
	for _, area := range ui.Areas() {
		var stacks [][]string
		for _, saved := range st.Areas[area.String()] {
			var stack []string
			for _, id := range saved {
				if _, ok := m.entries[id]; !ok || seen[id] {
					continue
				}
				seen[id] = true
				stack = append(stack, id)
			}
			if len(stack) > 0 {
				stacks = append(stacks, stack)
			}
		}
		if len(stacks) > 0 {
			plan = append(plan, placed{area: area, stacks: stacks})
		}
	}

	for id := range seen {
		m.unstack(id)
	}
	for _, p := range plan {
		for _, stack := range p.stacks {
			for _, id := range stack {
				m.entries[id].area = p.area
			}
			m.stacks[p.area] = append(m.stacks[p.area], stack)
		}
	}

	for _, id := range m.order {
		hidden := slices.Contains(st.Hidden, id)
		if !seen[id] && !hidden {
			continue
		}
		_ = m.SetVisible(id, !hidden)
	}
	return nil
}
