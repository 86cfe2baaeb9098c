package event

import "github.com/sirupsen/logrus"

// BusOption configures an event Bus.
type BusOption func(*busConfig)

// busConfig contains configuration for the event bus.
type busConfig struct {
	// logger receives handler failures and dropped events.
	logger logrus.FieldLogger
}

// defaultBusConfig returns the default configuration.
func defaultBusConfig() busConfig {
	return busConfig{}
}

// WithLogger sets the logger used to report handler failures and drops.
func WithLogger(l logrus.FieldLogger) BusOption {
	return func(c *busConfig) {
		c.logger = l
	}
}
