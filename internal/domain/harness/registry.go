package harness

import "errors"

// ErrRegistryFrozen is returned when a suite is registered after the
// registry has already been built for a run.
var ErrRegistryFrozen = errors.New("harness: registry is frozen")

// Builder accumulates suites during the setup phase. Registration performs
// no validation of case kinds; unknown kinds surface when the runner reaches
// the case.
type Builder struct {
	suites []Suite
	frozen bool
}

// NewBuilder returns an empty registry builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// RegisterSuite appends a suite holding the given cases, preserving both the
// suite order across calls and the case order within the call.
func (b *Builder) RegisterSuite(name string, cases ...TestCase) error {
	if b.frozen {
		return ErrRegistryFrozen
	}

	copied := make([]TestCase, len(cases))
	copy(copied, cases)

	b.suites = append(b.suites, Suite{Name: name, Cases: copied})
	return nil
}

// Build freezes the builder and returns the registry for the run phase.
// There is no way back to registration afterwards.
func (b *Builder) Build() *Registry {
	b.frozen = true
	return &Registry{suites: b.suites}
}

// Registry is the frozen, ordered collection of suites for one run.
type Registry struct {
	suites []Suite
}

// Suites returns the suites in registration order.
func (r *Registry) Suites() []Suite {
	return r.suites
}

// Len returns the total case count across all suites.
func (r *Registry) Len() int {
	total := 0
	for _, suite := range r.suites {
		total += len(suite.Cases)
	}
	return total
}
