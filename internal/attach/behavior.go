// Package attach binds selection controllers to list views found in a
// document or subtree, and tears them down again.
package attach

import (
	"fmt"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/marcus/mbrowse/internal/dom"
	"github.com/marcus/mbrowse/internal/i18n"
	"github.com/marcus/mbrowse/internal/selection"
	"github.com/marcus/mbrowse/internal/settings"
)

var rootSel = dom.MustCompile(selection.RootSelector)

// Behavior attaches one controller per entity browser form.
type Behavior struct {
	Provider  settings.ConfigurationProvider
	Formatter i18n.Formatter
	Delegator *dom.Delegator
	Logger    *slog.Logger

	registry *Registry
}

// New returns a behavior that resolves configuration through provider and
// routes events through d.
func New(provider settings.ConfigurationProvider, formatter i18n.Formatter, d *dom.Delegator) *Behavior {
	if d == nil {
		d = dom.NewDelegator()
	}
	return &Behavior{
		Provider:  provider,
		Formatter: formatter,
		Delegator: d,
		Logger:    slog.Default(),
		registry:  NewRegistry(),
	}
}

// Registry returns the element to controller registry.
func (b *Behavior) Registry() *Registry {
	return b.registry
}

// Element locates the widget root for a context. For the document node it
// is the first entity browser form in the document; for any other node it is
// the node itself, when the node is such a form.
func Element(ctx *html.Node) *html.Node {
	if ctx == nil {
		return nil
	}
	if dom.IsDocument(ctx) {
		return dom.Query(ctx, rootSel)
	}
	if rootSel.Match(ctx) {
		return ctx
	}
	return nil
}

// Attach creates and binds a controller for the context's widget root.
// Contexts without a root yield (nil, nil). A root that already has a
// controller gets a fresh one; the old controller is disposed first.
func (b *Behavior) Attach(ctx *html.Node) (*selection.Controller, error) {
	el := Element(ctx)
	if el == nil {
		return nil, nil
	}

	if old := b.registry.Lookup(el); old != nil {
		b.Logger.Debug("attach: replacing controller", "uuid", old.UUID())
		b.registry.Dispose(el)
	}

	c, err := selection.New(el, b.Provider,
		selection.WithFormatter(b.Formatter),
		selection.WithLogger(b.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("attach: %w", err)
	}
	c.Bind(b.Delegator)
	b.registry.Store(el, c)
	b.Logger.Debug("attach: bound", "uuid", c.UUID(), "cardinality", c.Cardinality())
	return c, nil
}

// Detach disposes the controller bound to the context's widget root, if any.
// It reports whether a controller was found.
func (b *Behavior) Detach(ctx *html.Node) bool {
	el := Element(ctx)
	if el == nil {
		return false
	}
	c := b.registry.Lookup(el)
	if c == nil {
		return false
	}
	b.registry.Dispose(el)
	b.Logger.Debug("attach: detached", "uuid", c.UUID())
	return true
}
