package platform

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned for a repository URL no registered backend serves.
var ErrUnsupported = errors.New("no hosting platform backend for repository URL")

// Factory builds a Gateway for repoURL. It returns ErrUnsupported when the
// URL belongs to a host it does not serve.
type Factory func(repoURL, token string) (Gateway, error)

// Registry picks the hosting backend for a repository URL.
type Registry struct {
	names     []string
	factories []Factory
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a backend. Factories are tried in registration order.
func (r *Registry) Register(name string, f Factory) {
	r.names = append(r.names, name)
	r.factories = append(r.factories, f)
}

// Names lists the registered backends.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Open returns the first backend that accepts repoURL.
func (r *Registry) Open(repoURL, token string) (Gateway, error) {
	for i, f := range r.factories {
		g, err := f(repoURL, token)
		switch {
		case err == nil:
			return g, nil
		case errors.Is(err, ErrUnsupported):
			continue
		default:
			return nil, fmt.Errorf("%s backend: %w", r.names[i], err)
		}
	}
	return nil, fmt.Errorf("%w: %s (registered: %v)", ErrUnsupported, repoURL, r.names)
}
