package ui

import (
	"context"
	"errors"
)

// ErrActionDisabled is returned when a disabled or hidden action is triggered.
var ErrActionDisabled = errors.New("action is disabled")

// TriggerFunc runs when an action is triggered.
type TriggerFunc func(ctx context.Context) error

// Action is a user-invokable command shown in menus and on the toolbar.
type Action struct {
	id       string
	text     string
	icon     string
	shortcut string

	enabled   bool
	visible   bool
	checkable bool
	checked   bool

	trigger TriggerFunc
}

// ActionOption configures an Action.
type ActionOption func(*Action)

// WithIcon sets the icon resource name.
func WithIcon(icon string) ActionOption {
	return func(a *Action) { a.icon = icon }
}

// WithShortcut sets the keyboard shortcut label, e.g. "Ctrl+O".
func WithShortcut(s string) ActionOption {
	return func(a *Action) { a.shortcut = s }
}

// WithTrigger sets the function run by Trigger.
func WithTrigger(fn TriggerFunc) ActionOption {
	return func(a *Action) { a.trigger = fn }
}

// WithCheckable makes the action a toggle with the given initial state.
func WithCheckable(checked bool) ActionOption {
	return func(a *Action) {
		a.checkable = true
		a.checked = checked
	}
}

// WithEnabled sets the initial enabled state.
func WithEnabled(enabled bool) ActionOption {
	return func(a *Action) { a.enabled = enabled }
}

// WithVisible sets the initial visibility.
func WithVisible(visible bool) ActionOption {
	return func(a *Action) { a.visible = visible }
}

// NewAction creates an enabled, visible action.
func NewAction(id, text string, opts ...ActionOption) *Action {
	a := &Action{
		id:      id,
		text:    text,
		enabled: true,
		visible: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ID returns the action identifier.
func (a *Action) ID() string { return a.id }

// Text returns the display text.
func (a *Action) Text() string { return a.text }

// SetText changes the display text.
func (a *Action) SetText(text string) { a.text = text }

// Icon returns the icon resource name.
func (a *Action) Icon() string { return a.icon }

// Shortcut returns the shortcut label.
func (a *Action) Shortcut() string { return a.shortcut }

// Enabled reports whether the action can be triggered.
func (a *Action) Enabled() bool { return a.enabled }

// SetEnabled enables or disables the action.
func (a *Action) SetEnabled(enabled bool) { a.enabled = enabled }

// Visible reports whether the action is shown.
func (a *Action) Visible() bool { return a.visible }

// SetVisible shows or hides the action.
func (a *Action) SetVisible(visible bool) { a.visible = visible }

// Checkable reports whether the action is a toggle.
func (a *Action) Checkable() bool { return a.checkable }

// Checked returns the toggle state.
func (a *Action) Checked() bool { return a.checked }

// SetChecked sets the toggle state without running the trigger.
func (a *Action) SetChecked(checked bool) {
	if a.checkable {
		a.checked = checked
	}
}

// SetTrigger replaces the trigger function.
func (a *Action) SetTrigger(fn TriggerFunc) { a.trigger = fn }

// Trigger runs the action. Checkable actions flip their state first so the
// trigger observes the new value through Checked.
func (a *Action) Trigger(ctx context.Context) error {
	if !a.enabled || !a.visible {
		return ErrActionDisabled
	}
	if a.checkable {
		a.checked = !a.checked
	}
	if a.trigger == nil {
		return nil
	}
	return a.trigger(ctx)
}
