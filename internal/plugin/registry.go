package plugin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/dshills/stormdbg/internal/event"
	"github.com/dshills/stormdbg/internal/hub"
	"github.com/dshills/stormdbg/internal/logging"
	"github.com/dshills/stormdbg/internal/ui"
)

// RegistryOwner is the owner recorded for the registry's own menu actions.
const RegistryOwner = "plugin-registry"

// record is the registry's bookkeeping for one discovered plugin.
type record struct {
	plugin Plugin
	id     string
	source string
	key    string
	state  State
	err    error
	toggle *ui.Action

	panelsRegistered bool
	panels           []string
	actions          []*ui.Action
}

// Registry manages the lifecycle of all plugins.
// It handles discovery, activation and withdrawal of contributions.
type Registry struct {
	hub     *hub.Context
	sources []Source
	log     logrus.FieldLogger

	// Plugins in registry order
	records []*record
	byID    map[string]*record
	seen    map[string]bool

	descriptorPath string
	panelsInserted bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithSources sets the plugin sources, scanned in order.
func WithSources(sources ...Source) RegistryOption {
	return func(r *Registry) { r.sources = append(r.sources, sources...) }
}

// WithDescriptorPath sets the default activation descriptor path.
func WithDescriptorPath(path string) RegistryOption {
	return func(r *Registry) { r.descriptorPath = path }
}

// NewRegistry creates a plugin registry publishing through h.Bus.
func NewRegistry(h *hub.Context, opts ...RegistryOption) *Registry {
	r := &Registry{
		hub:  h,
		byID: make(map[string]*record),
		seen: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.descriptorPath == "" {
		r.descriptorPath = DefaultDescriptorPath()
	}
	r.log = h.Log("plugins")
	return r
}

// DescriptorPath returns the default activation descriptor path.
func (r *Registry) DescriptorPath() string { return r.descriptorPath }

// DiscoverAndLoadAll instantiates every candidate of every source. A failing
// source or plugin is logged and skipped; the returned error joins those
// failures for the caller's information.
func (r *Registry) DiscoverAndLoadAll(ctx context.Context) error {
	_, err := r.scan(ctx)
	return err
}

// Rescan picks up plugins that appeared since the last scan. Known plugins
// are untouched and new ones start inactive. It returns the number added.
func (r *Registry) Rescan(ctx context.Context) (int, error) {
	return r.scan(ctx)
}

func (r *Registry) scan(ctx context.Context) (int, error) {
	var errs []error
	added := 0

	for _, src := range r.sources {
		candidates, err := src.Discover(ctx)
		if err != nil {
			lerr := &LoadError{Source: src.Name(), Err: err}
			r.log.WithError(lerr).Warn("plugin source failed")
			errs = append(errs, lerr)
		}
		for _, c := range candidates {
			if r.seen[c.Key] {
				continue
			}

			// Failed candidates stay unseen so the next scan retries them.
			rec, err := r.instantiate(ctx, src.Name(), c)
			if err != nil {
				r.log.WithError(err).Warn("skipping plugin")
				errs = append(errs, err)
				continue
			}
			r.seen[c.Key] = true
			r.add(ctx, rec)
			added++
		}
	}
	return added, errors.Join(errs...)
}

// instantiate runs a factory with panic recovery.
func (r *Registry) instantiate(ctx context.Context, source string, c Candidate) (rec *record, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.log.WithField("stack", string(debug.Stack())).Debug("plugin factory panicked")
			rec, err = nil, &LoadError{Source: source, Plugin: c.Key, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	p, err := c.New(ctx)
	if err != nil {
		return nil, &LoadError{Source: source, Plugin: c.Key, Err: err}
	}
	if p == nil || p.ID() == "" {
		return nil, &LoadError{Source: source, Plugin: c.Key, Err: ErrInvalidPlugin}
	}
	if _, dup := r.byID[p.ID()]; dup {
		closePlugin(p)
		return nil, &LoadError{Source: source, Plugin: p.ID(), Err: ErrDuplicateID}
	}
	return &record{plugin: p, id: p.ID(), source: source, key: c.Key}, nil
}

// add registers rec and publishes its Plugins menu toggle.
func (r *Registry) add(ctx context.Context, rec *record) {
	id := rec.id
	rec.toggle = ui.NewAction("plugins.toggle."+id, id,
		ui.WithCheckable(false),
		ui.WithTrigger(func(tctx context.Context) error {
			if rec.toggle.Checked() {
				return r.Activate(tctx, id)
			}
			return r.Deactivate(tctx, id)
		}),
	)
	r.records = append(r.records, rec)
	r.byID[id] = rec

	r.log.WithFields(logrus.Fields{"plugin": id, "source": rec.source}).Info("plugin discovered")
	r.publish(ctx, event.ChannelActionRegistration, event.ActionRegistration{Owner: RegistryOwner, Action: rec.toggle})
}

// LoadActivationSet activates exactly the enabled plugins listed at path and
// orders the registry by the descriptor. Listed IDs that were not discovered
// are ignored. When the descriptor cannot be read every plugin is activated.
// An empty path means the default descriptor.
func (r *Registry) LoadActivationSet(ctx context.Context, path string) error {
	if path == "" {
		path = r.descriptorPath
	}

	entries, err := ReadActivationSet(path)
	if err != nil {
		r.log.WithField("path", path).WithError(err).Info("no activation set, activating all plugins")
		var errs []error
		for _, rec := range r.records {
			if err := r.Activate(ctx, rec.id); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	enabled := make(map[string]bool)
	ordered := make([]*record, 0, len(r.records))
	for _, e := range entries {
		rec, ok := r.byID[e.ID]
		if !ok {
			r.log.WithField("plugin", e.ID).Debug("ignoring unknown plugin in activation set")
			continue
		}
		if slices.Contains(ordered, rec) {
			continue
		}
		ordered = append(ordered, rec)
		enabled[e.ID] = e.Enabled
	}
	for _, rec := range r.records {
		if !slices.Contains(ordered, rec) {
			ordered = append(ordered, rec)
		}
	}
	r.records = ordered

	var errs []error
	for _, rec := range r.records {
		if enabled[rec.id] {
			err = r.Activate(ctx, rec.id)
		} else {
			err = r.Deactivate(ctx, rec.id)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SaveActivationSet writes every discovered plugin with its enabled flag in
// registry order. An empty path means the default descriptor.
func (r *Registry) SaveActivationSet(path string) error {
	if path == "" {
		path = r.descriptorPath
	}
	entries := make([]ActivationEntry, 0, len(r.records))
	for _, rec := range r.records {
		entries = append(entries, ActivationEntry{ID: rec.id, Enabled: rec.state == StateActive})
	}
	if err := WriteActivationSet(path, entries); err != nil {
		return err
	}
	r.log.WithFields(logrus.Fields{"path": path, "plugins": len(entries)}).Debug("activation set saved")
	return nil
}

// Activate activates a discovered plugin. Its actions are registered now;
// its panels now or, before InsertPanels, during that phase.
func (r *Registry) Activate(ctx context.Context, id string) error {
	rec, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("activate %q: %w", id, ErrPluginNotFound)
	}
	if rec.state == StateActive || rec.state.IsTransitioning() {
		return nil
	}

	rec.state = StateActivating
	rec.err = nil
	host := r.host(rec)

	err := r.safeCall(func() error { return rec.plugin.RegisterActions(ctx, host) })
	if err == nil && r.panelsInserted {
		err = r.registerPanels(ctx, rec, host)
	}
	if err != nil {
		return r.fail(ctx, rec, err)
	}

	rec.state = StateActive
	rec.toggle.SetChecked(true)
	r.log.WithField("plugin", id).Info("plugin activated")
	return nil
}

// Deactivate deactivates a plugin and withdraws its panels and actions.
func (r *Registry) Deactivate(ctx context.Context, id string) error {
	rec, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("deactivate %q: %w", id, ErrPluginNotFound)
	}
	if rec.state != StateActive {
		rec.toggle.SetChecked(false)
		return nil
	}

	rec.state = StateDeactivating
	err := r.safeCall(func() error { return rec.plugin.Deactivate(ctx, r.host(rec)) })
	if err != nil {
		r.log.WithField("plugin", id).WithError(err).Warn("plugin deactivate failed")
	}
	r.withdraw(ctx, rec)
	rec.state = StateDiscovered
	rec.toggle.SetChecked(false)
	r.log.WithField("plugin", id).Info("plugin deactivated")
	return nil
}

// InsertPanels is the initial panel phase: every active plugin registers its
// panels. Later activations register panels immediately.
func (r *Registry) InsertPanels(ctx context.Context) error {
	r.panelsInserted = true
	var errs []error
	for _, rec := range r.records {
		if rec.state != StateActive || rec.panelsRegistered {
			continue
		}
		if err := r.registerPanels(ctx, rec, r.host(rec)); err != nil {
			errs = append(errs, r.fail(ctx, rec, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) registerPanels(ctx context.Context, rec *record, host Host) error {
	rec.panelsRegistered = true
	return r.safeCall(func() error { return rec.plugin.RegisterPanels(ctx, host) })
}

// fail withdraws a plugin whose registration failed and parks it in
// StateError.
func (r *Registry) fail(ctx context.Context, rec *record, err error) error {
	r.withdraw(ctx, rec)
	rec.state = StateError
	rec.err = err
	rec.toggle.SetChecked(false)
	lerr := &LoadError{Source: rec.source, Plugin: rec.id, Err: err}
	r.log.WithError(lerr).Warn("plugin activation failed")
	return lerr
}

// withdraw retracts every contribution of rec.
func (r *Registry) withdraw(ctx context.Context, rec *record) {
	for _, id := range rec.panels {
		r.publish(ctx, event.ChannelPanelRemoval, event.PanelRemoval{PanelID: id, Owner: rec.id})
	}
	for _, a := range rec.actions {
		r.publish(ctx, event.ChannelActionRegistration, event.ActionRegistration{Owner: rec.id, Action: a, Retract: true})
	}
	rec.panels = nil
	rec.actions = nil
	rec.panelsRegistered = false
}

// Descriptors returns a snapshot of every discovered plugin in registry order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, Descriptor{
			ID:      rec.id,
			Source:  rec.source,
			Enabled: rec.state == StateActive,
			State:   rec.state,
			Err:     rec.err,
			Panels:  slices.Clone(rec.panels),
			Actions: slices.Clone(rec.actions),
		})
	}
	return out
}

// ActivationSet returns the IDs of the active plugins in registry order.
func (r *Registry) ActivationSet() []string {
	var out []string
	for _, rec := range r.records {
		if rec.state == StateActive {
			out = append(out, rec.id)
		}
	}
	return out
}

// Close releases plugin resources without withdrawing contributions. It is
// called once the window is gone.
func (r *Registry) Close() error {
	var errs []error
	for _, rec := range r.records {
		if err := closePlugin(rec.plugin); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", rec.id, err))
		}
	}
	return errors.Join(errs...)
}

func closePlugin(p Plugin) error {
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// safeCall runs a plugin callback, converting a panic into an error.
func (r *Registry) safeCall(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.log.WithField("stack", string(debug.Stack())).Debug("plugin panicked")
			err = fmt.Errorf("plugin panic: %v", p)
		}
	}()
	return fn()
}

func (r *Registry) publish(ctx context.Context, ch event.Channel, payload any) {
	if err := r.hub.Bus.Publish(ctx, ch, payload); err != nil {
		r.log.WithField("channel", ch.String()).WithError(err).Warn("publish failed")
	}
}

func (r *Registry) host(rec *record) Host {
	return &pluginHost{reg: r, rec: rec, log: logging.Component(r.hub.Logger, "plugin:"+rec.id)}
}

// pluginHost is the Host handed to one plugin.
type pluginHost struct {
	reg *Registry
	rec *record
	log logrus.FieldLogger
}

func (h *pluginHost) AddPanel(ctx context.Context, p *ui.Panel) error {
	if p == nil || p.ID == "" {
		return ErrInvalidPlugin
	}
	if h.rec.state != StateActivating && h.rec.state != StateActive {
		return ErrNotActive
	}
	p.Owner = h.rec.id
	if err := h.reg.hub.Bus.Publish(ctx, event.ChannelPanelRegistration, event.PanelRegistration{Panel: p}); err != nil {
		return err
	}
	h.rec.panels = append(h.rec.panels, p.ID)
	return nil
}

func (h *pluginHost) AddAction(ctx context.Context, a *ui.Action) error {
	if a == nil {
		return ErrInvalidPlugin
	}
	if h.rec.state != StateActivating && h.rec.state != StateActive {
		return ErrNotActive
	}
	if err := h.reg.hub.Bus.Publish(ctx, event.ChannelActionRegistration, event.ActionRegistration{Owner: h.rec.id, Action: a}); err != nil {
		return err
	}
	h.rec.actions = append(h.rec.actions, a)
	return nil
}

func (h *pluginHost) Hub() *hub.Context { return h.reg.hub }

func (h *pluginHost) Logger() logrus.FieldLogger { return h.log }
