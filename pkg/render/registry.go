package render

import "errors"

// Emitter is a light source together with the handle of the point it aims at.
type Emitter struct {
	Label  string `json:"label"`
	Light  Handle `json:"light"`
	Target Handle `json:"target"`
}

// Registry tracks emitters. They are not children of any mesh node, so
// they are released here rather than with the scene tree.
type Registry struct {
	dev      Device
	emitters []Emitter
}

// NewRegistry creates an empty registry allocating from dev.
func NewRegistry(dev Device) *Registry {
	return &Registry{dev: dev}
}

// Add allocates an emitter and its target.
func (r *Registry) Add(label string) Emitter {
	e := Emitter{
		Label:  label,
		Light:  r.dev.Allocate(KindEmitter, label),
		Target: r.dev.Allocate(KindTarget, label+"/target"),
	}
	r.emitters = append(r.emitters, e)
	return e
}

// Len returns the number of registered emitters.
func (r *Registry) Len() int {
	return len(r.emitters)
}

// Clear releases every emitter and target and empties the registry.
func (r *Registry) Clear() error {
	var errs []error
	for _, e := range r.emitters {
		errs = append(errs, r.dev.Release(e.Light), r.dev.Release(e.Target))
	}
	r.emitters = r.emitters[:0]
	return errors.Join(errs...)
}
