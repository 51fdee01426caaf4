package plugins

import (
	apperrors "github.com/dtg01100/touch-settings/internal/errors"
)

// Registry holds plugins by name in registration order.
type Registry struct {
	order   []string
	plugins map[string]Plugin
}

// NewRegistry returns a registry holding ps.
func NewRegistry(ps ...Plugin) (*Registry, error) {
	r := &Registry{plugins: make(map[string]Plugin)}
	for _, p := range ps {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds p. Names must be unique.
func (r *Registry) Register(p Plugin) error {
	if _, ok := r.plugins[p.Name()]; ok {
		return apperrors.NewConfigInvalidError("plugin "+p.Name()+" registered twice", nil)
	}
	r.plugins[p.Name()] = p
	r.order = append(r.order, p.Name())
	return nil
}

// Get returns the named plugin.
func (r *Registry) Get(name string) (Plugin, error) {
	p, ok := r.plugins[name]
	if !ok {
		return nil, apperrors.NewUnknownDomainError(name)
	}
	return p, nil
}

// Names returns plugin names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// All returns plugins in registration order.
func (r *Registry) All() []Plugin {
	out := make([]Plugin, len(r.order))
	for i, n := range r.order {
		out[i] = r.plugins[n]
	}
	return out
}
