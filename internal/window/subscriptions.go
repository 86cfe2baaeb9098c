package window

import (
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/dshills/stormdbg/internal/dock"
	"github.com/dshills/stormdbg/internal/event"
)

// subscriptions manages the window's bus subscriptions.
type subscriptions struct {
	w    *Window
	subs []event.Subscription
}

func newSubscriptions(w *Window) *subscriptions {
	return &subscriptions{w: w}
}

// setup registers the handlers for all four channels.
func (s *subscriptions) setup() error {
	// Lifecycle -> status, title and recent files
	if err := s.subscribe(event.ChannelLifecycle,
		event.AsHandlerFunc(s.handleLifecycle), event.PriorityHigh); err != nil {
		return err
	}

	// Panels -> dock and View menu
	if err := s.subscribe(event.ChannelPanelRegistration,
		event.AsHandlerFunc(s.handlePanelRegistration), event.PriorityHigh); err != nil {
		return err
	}
	if err := s.subscribe(event.ChannelPanelRemoval,
		event.AsHandlerFunc(s.handlePanelRemoval), event.PriorityHigh); err != nil {
		return err
	}

	// Actions -> Plugins menu
	return s.subscribe(event.ChannelActionRegistration,
		event.AsHandlerFunc(s.handleActionRegistration), event.PriorityNormal)
}

func (s *subscriptions) subscribe(ch event.Channel, fn event.HandlerFunc, p event.Priority) error {
	sub, err := s.w.hub.Bus.SubscribeFunc(ch, fn, event.WithPriority(p))
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", ch, err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

// cleanup unsubscribes all managed subscriptions.
func (s *subscriptions) cleanup() {
	for _, sub := range s.subs {
		_ = s.w.hub.Bus.Unsubscribe(sub)
	}
	s.subs = nil
}

func (s *subscriptions) handleLifecycle(_ context.Context, ev event.Lifecycle) error {
	w := s.w
	if ev.Kind != event.ExecutableOpened {
		w.status.Apply(ev.Kind)
		return nil
	}

	w.actions[ActionSaveSession].SetEnabled(w.hub.Sessions != nil)
	w.setFilePath(ev.Path)
	if err := w.recent.Add(ev.Path); err != nil {
		return fmt.Errorf("recent files: %w", err)
	}
	return nil
}

func (s *subscriptions) handlePanelRegistration(_ context.Context, reg event.PanelRegistration) error {
	w := s.w
	p := reg.Panel
	if err := w.dock.Add(p); err != nil {
		return err
	}
	if p.Toggle {
		w.menus[MenuView].AddAction(w.dock.ToggleAction(p.ID))
	}
	w.log.WithFields(logrus.Fields{
		"panel": p.ID,
		"owner": p.Owner,
		"area":  p.Area.String(),
	}).Debug("panel attached")
	return nil
}

func (s *subscriptions) handlePanelRemoval(_ context.Context, rm event.PanelRemoval) error {
	w := s.w
	p, ok := w.dock.Panel(rm.PanelID)
	if !ok {
		return fmt.Errorf("remove panel %s: %w", rm.PanelID, dock.ErrNotAttached)
	}
	if rm.Owner != "" && p.Owner != rm.Owner {
		return fmt.Errorf("remove panel %s for %s: %w", rm.PanelID, rm.Owner, ErrOwnerMismatch)
	}
	w.menus[MenuView].RemoveAction(w.dock.ToggleAction(rm.PanelID))
	if _, err := w.dock.Remove(rm.PanelID); err != nil {
		return err
	}
	w.log.WithField("panel", rm.PanelID).Debug("panel detached")
	return nil
}

func (s *subscriptions) handleActionRegistration(_ context.Context, reg event.ActionRegistration) error {
	menu := s.w.menus[MenuPlugins]
	if reg.Retract {
		menu.RemoveAction(reg.Action)
		return nil
	}
	if slices.Contains(menu.Actions(), reg.Action) {
		return nil
	}
	menu.AddAction(reg.Action)
	return nil
}
