package event

import (
	"context"
	"time"

	"github.com/dshills/stormdbg/internal/ui"
)

// Event is a published payload together with its routing metadata.
// Events are passed by value and never modified after publishing.
type Event struct {
	// Channel is the stream the event was published on.
	Channel Channel

	// Payload is one of Lifecycle, PanelRegistration, PanelRemoval or
	// ActionRegistration, matching Channel.
	Payload any

	// Source identifies the publisher, if known.
	Source string

	// Time is when the event was published.
	Time time.Time
}

// LifecycleKind enumerates debugger lifecycle notifications.
type LifecycleKind int

const (
	// StartRunning is sent when the inferior starts or resumes.
	StartRunning LifecycleKind = iota + 1

	// StoppedNormally is sent when the inferior stops at a breakpoint or step.
	StoppedNormally

	// ReceivedSignal is sent when the inferior stops on a signal.
	ReceivedSignal

	// Exited is sent when the inferior terminates.
	Exited

	// ExecutableOpened is sent when the backend loads a new executable.
	ExecutableOpened
)

// String returns a human-readable kind name.
func (k LifecycleKind) String() string {
	switch k {
	case StartRunning:
		return "start-running"
	case StoppedNormally:
		return "stopped-normally"
	case ReceivedSignal:
		return "received-signal"
	case Exited:
		return "exited"
	case ExecutableOpened:
		return "executable-opened"
	default:
		return "unknown"
	}
}

// Lifecycle is the payload of ChannelLifecycle.
type Lifecycle struct {
	Kind LifecycleKind

	// Path is the executable path for ExecutableOpened.
	Path string

	// Detail carries backend-specific text, such as the signal name or exit
	// status.
	Detail string
}

// PanelRegistration is the payload of ChannelPanelRegistration.
type PanelRegistration struct {
	Panel *ui.Panel
}

// PanelRemoval is the payload of ChannelPanelRemoval.
type PanelRemoval struct {
	PanelID string
	Owner   string
}

// ActionRegistration is the payload of ChannelActionRegistration.
// Retract withdraws a previously registered action.
type ActionRegistration struct {
	Owner   string
	Action  *ui.Action
	Retract bool
}

type sourceKey struct{}

// WithSource returns a context that tags published events with source.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

// SourceFrom returns the source tag carried by ctx, or "".
func SourceFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(sourceKey{}).(string)
	return s
}
