package attach

import (
	"sync"

	"golang.org/x/net/html"

	"github.com/marcus/mbrowse/internal/selection"
)

// Registry associates widget root elements with their controllers.
type Registry struct {
	mu          sync.Mutex
	controllers map[*html.Node]*selection.Controller
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{controllers: make(map[*html.Node]*selection.Controller)}
}

// Store records c as the controller for el.
func (r *Registry) Store(el *html.Node, c *selection.Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllers[el] = c
}

// Lookup returns the controller for el, or nil.
func (r *Registry) Lookup(el *html.Node) *selection.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.controllers[el]
}

// Dispose unbinds and forgets the controller for el.
func (r *Registry) Dispose(el *html.Node) {
	r.mu.Lock()
	c := r.controllers[el]
	delete(r.controllers, el)
	r.mu.Unlock()

	if c != nil {
		c.Dispose()
	}
}

// DisposeAll unbinds every controller.
func (r *Registry) DisposeAll() {
	r.mu.Lock()
	all := r.controllers
	r.controllers = make(map[*html.Node]*selection.Controller)
	r.mu.Unlock()

	for _, c := range all {
		c.Dispose()
	}
}

// Len returns the number of registered controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}
