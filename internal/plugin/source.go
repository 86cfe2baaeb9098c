package plugin

import "context"

// Candidate is a plugin a Source can instantiate.
type Candidate struct {
	// Key identifies the candidate within its source across scans.
	Key string

	// New instantiates the plugin.
	New Factory
}

// Source enumerates plugin candidates.
type Source interface {
	Name() string
	Discover(ctx context.Context) ([]Candidate, error)
}

// BuiltinSource serves plugins compiled into the binary.
type BuiltinSource struct {
	candidates []Candidate
}

// NewBuiltinSource returns a source with no plugins.
func NewBuiltinSource() *BuiltinSource {
	return &BuiltinSource{}
}

// Register adds a factory under key. Registration order is discovery order.
func (s *BuiltinSource) Register(key string, f Factory) *BuiltinSource {
	s.candidates = append(s.candidates, Candidate{Key: key, New: f})
	return s
}

// Name implements Source.
func (s *BuiltinSource) Name() string { return "builtin" }

// Discover implements Source.
func (s *BuiltinSource) Discover(context.Context) ([]Candidate, error) {
	out := make([]Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out, nil
}
