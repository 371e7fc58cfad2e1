package dom

import (
	"sync"

	"golang.org/x/net/html"
)

// Event types delivered by hosts.
const (
	EventClick    = "click"
	EventDblClick = "dblclick"
)

// Event describes one activation routed through a Delegator.
type Event struct {
	Type string
	// Target is the node the host reported the activation on.
	Target *html.Node
	// CurrentTarget is the descendant of Root matching the subscription's
	// selector that contains Target.
	CurrentTarget *html.Node
	Root          *html.Node
}

// Handler receives delegated events.
type Handler func(Event)

// Delegator routes events to subscriptions bound on a root element rather
// than on every matching descendant.
type Delegator struct {
	mu   sync.Mutex
	subs []*Subscription
}

// Subscription is one On registration. Off removes it as a unit.
type Subscription struct {
	d       *Delegator
	root    *html.Node
	sel     Selector
	types   map[string]bool
	handler Handler
	active  bool
}

// NewDelegator returns an empty delegator.
func NewDelegator() *Delegator {
	return &Delegator{}
}

// On subscribes handler to events of the given types whose target lies
// inside a descendant of root matching sel.
func (d *Delegator) On(root *html.Node, sel Selector, handler Handler, types ...string) *Subscription {
	s := &Subscription{
		d:       d,
		root:    root,
		sel:     sel,
		types:   make(map[string]bool, len(types)),
		handler: handler,
		active:  true,
	}
	for _, t := range types {
		s.types[t] = true
	}

	d.mu.Lock()
	d.subs = append(d.subs, s)
	d.mu.Unlock()
	return s
}

// Off removes the subscription. Once Off returns, the handler is not called
// again. Calling Off more than once is a no-op.
func (s *Subscription) Off() {
	if s == nil {
		return
	}
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	for i, other := range d.subs {
		if other == s {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			break
		}
	}
}

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	return s.active
}

// Len returns the number of live subscriptions.
func (d *Delegator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs)
}

// Dispatch delivers an event of type typ targeted at target. It returns true
// when at least one handler ran.
func (d *Delegator) Dispatch(target *html.Node, typ string) bool {
	d.mu.Lock()
	subs := make([]*Subscription, len(d.subs))
	copy(subs, d.subs)
	d.mu.Unlock()

	delivered := false
	for _, s := range subs {
		if !s.types[typ] || !Contains(s.root, target) {
			continue
		}
		current := Closest(target, s.sel, s.root)
		if current == nil || current == s.root {
			continue
		}
		// A handler may dispose another subscription mid-dispatch.
		if !s.Active() {
			continue
		}
		s.handler(Event{Type: typ, Target: target, CurrentTarget: current, Root: s.root})
		delivered = true
	}
	return delivered
}
