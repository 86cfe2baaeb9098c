package event

import "fmt"

// Channel names one of the bus's fixed event streams.
type Channel int

const (
	// ChannelLifecycle carries Lifecycle payloads from the debugger backend.
	ChannelLifecycle Channel = iota + 1

	// ChannelPanelRegistration carries PanelRegistration payloads.
	ChannelPanelRegistration

	// ChannelPanelRemoval carries PanelRemoval payloads.
	ChannelPanelRemoval

	// ChannelActionRegistration carries ActionRegistration payloads.
	ChannelActionRegistration
)

// Channels returns every valid channel in declaration order.
func Channels() []Channel {
	return []Channel{
		ChannelLifecycle,
		ChannelPanelRegistration,
		ChannelPanelRemoval,
		ChannelActionRegistration,
	}
}

// String returns the channel name.
func (c Channel) String() string {
	switch c {
	case ChannelLifecycle:
		return "lifecycle"
	case ChannelPanelRegistration:
		return "panel-registration"
	case ChannelPanelRemoval:
		return "panel-removal"
	case ChannelActionRegistration:
		return "action-registration"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Valid reports whether c is one of the declared channels.
func (c Channel) Valid() bool {
	return c >= ChannelLifecycle && c <= ChannelActionRegistration
}

// accepts reports whether payload has the type carried by c.
func (c Channel) accepts(payload any) bool {
	switch c {
	case ChannelLifecycle:
		_, ok := payload.(Lifecycle)
		return ok
	case ChannelPanelRegistration:
		p, ok := payload.(PanelRegistration)
		return ok && p.Panel != nil
	case ChannelPanelRemoval:
		p, ok := payload.(PanelRemoval)
		return ok && p.PanelID != ""
	case ChannelActionRegistration:
		p, ok := payload.(ActionRegistration)
		return ok && p.Action != nil
	default:
		return false
	}
}
