package topics

import (
	"fmt"

	"SocialMonitor/internal/ports"
)

// Registry keeps a mapping from strategy names to topic modelers, so the
// active strategy is a configuration concern rather than pipeline logic.
type Registry struct {
	modelers map[string]ports.TopicModeler
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{modelers: map[string]ports.TopicModeler{}}
}

// Register adds or replaces a topic modeler.
func (r *Registry) Register(modeler ports.TopicModeler) {
	if r.modelers == nil {
		r.modelers = map[string]ports.TopicModeler{}
	}
	r.modelers[modeler.Name()] = modeler
}

// Resolve returns a modeler by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.TopicModeler, error) {
	if modeler, ok := r.modelers[name]; ok {
		return modeler, nil
	}
	return nil, fmt.Errorf("topic strategy %s is not registered", name)
}
