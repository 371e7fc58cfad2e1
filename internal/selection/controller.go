// Package selection implements the selection state machine of an entity
// browser list view.
//
// A Controller is bound to one root element carrying a uuid attribute. Rows
// inside the root are toggled through Activate, which keeps three things in
// step: the row's "checked" class and backing checkbox, the running count
// shown in the counter badge, and the Locked state in which every unselected
// row is "disabled" because the cardinality has been reached.
//
//	Unlocked --select reaching cardinality--> Locked
//	Locked   --deselect--------------------> Unlocked
//
// Unbounded widgets never lock. Single-cardinality widgets replace the
// current choice on every activation.
package selection

import (
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/marcus/mbrowse/internal/dom"
	"github.com/marcus/mbrowse/internal/i18n"
	"github.com/marcus/mbrowse/internal/settings"
)

// Markup contract with the server-rendered list view.
const (
	UUIDAttribute = "data-entity-browser-uuid"
	RootSelector  = "form[" + UUIDAttribute + "]"

	ClassChecked  = "checked"
	ClassDisabled = "disabled"
	ClassCounter  = "media-browser-file-counter"
	ClassLimit    = "media-browser-limit"
)

// User-facing strings, passed through the formatter.
const (
	CounterSingular = "Selected 1 item."
	CounterPlural   = "Selected @count items."
	LimitMessage    = "No more items could be selected, you reached the items limit."
)

var (
	rowSel       = dom.MustCompile(".views-row")
	uncheckedSel = dom.MustCompile(".views-row:not(." + ClassChecked + ")")
	inputSel     = dom.MustCompile(`input[name^="entity_browser_select"]`)
	contentSel   = dom.MustCompile(".view-content")
	counterSel   = dom.MustCompile("." + ClassCounter)
	limitSel     = dom.MustCompile("." + ClassLimit)
)

// RowSelector matches item rows.
func RowSelector() dom.Selector {
	return rowSel
}

// Controller is the per-widget selection state machine.
type Controller struct {
	root        *html.Node
	uuid        string
	count       int
	cardinality settings.Cardinality

	formatter i18n.Formatter
	log       *slog.Logger
	sub       *dom.Subscription
}

// Option configures a Controller.
type Option func(*Controller)

// WithFormatter sets the formatter for the counter and limit message.
func WithFormatter(f i18n.Formatter) Option {
	return func(c *Controller) {
		if f != nil {
			c.formatter = f
		}
	}
}

// WithLogger sets the logger used for transition records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// New binds a controller to root. The record for the root's uuid comes from
// provider; a missing record falls back to settings.Defaults. The initial
// counter is rendered before New returns.
func New(root *html.Node, provider settings.ConfigurationProvider, opts ...Option) (*Controller, error) {
	if root == nil {
		return nil, &RootError{Err: ErrNilRoot}
	}
	uuid, ok := dom.Attr(root, UUIDAttribute)
	if !ok || uuid == "" {
		return nil, &RootError{Tag: root.Data, Err: ErrMissingUUID}
	}

	c := &Controller{
		root:      root,
		uuid:      uuid,
		formatter: i18n.Default(),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	rec, found := settings.Resolve(provider, uuid)
	c.count = rec.Count
	c.cardinality = rec.Cardinality
	c.log.Debug("selection: attached", "uuid", uuid, "count", c.count, "cardinality", c.cardinality, "configured", found)

	if c.cardinality.Bounded() && c.count > int(c.cardinality) {
		c.count = int(c.cardinality)
	}
	// A multi-choice field that is already full starts locked.
	if c.Locked() {
		c.Lock()
	}

	c.RenderCounter()
	return c, nil
}

// UUID returns the widget identifier.
func (c *Controller) UUID() string { return c.uuid }

// Root returns the element the controller is bound to.
func (c *Controller) Root() *html.Node { return c.root }

// Count returns the number of selected items.
func (c *Controller) Count() int { return c.count }

// Cardinality returns the selection limit.
func (c *Controller) Cardinality() settings.Cardinality { return c.cardinality }

// Locked reports whether the limit has been reached. Single-choice widgets
// replace their selection instead and never lock.
func (c *Controller) Locked() bool {
	return c.cardinality > 1 && c.count == int(c.cardinality)
}

// State returns the lock state.
func (c *Controller) State() State {
	if c.Locked() {
		return StateLocked
	}
	return StateUnlocked
}

// Items returns the rows in document order.
func (c *Controller) Items() []*html.Node {
	return dom.QueryAll(c.root, rowSel)
}

// Selected returns the rows presented as checked.
func (c *Controller) Selected() []*html.Node {
	var out []*html.Node
	for _, item := range c.Items() {
		if IsSelected(item) {
			out = append(out, item)
		}
	}
	return out
}

// SelectedIDs returns ItemID for every selected row.
func (c *Controller) SelectedIDs() []string {
	var ids []string
	for _, item := range c.Selected() {
		ids = append(ids, ItemID(item))
	}
	return ids
}

// IsSelected reports whether item is presented as checked.
func IsSelected(item *html.Node) bool {
	return dom.HasClass(item, ClassChecked)
}

// IsDisabled reports whether item is presented as disabled.
func IsDisabled(item *html.Node) bool {
	return dom.HasClass(item, ClassDisabled)
}

// ItemID identifies a row by the key inside its checkbox name
// (entity_browser_select[media:12] -> media:12), falling back to the row's
// data-id attribute.
func ItemID(item *html.Node) string {
	if input := dom.Query(item, inputSel); input != nil {
		name, _ := dom.Attr(input, "name")
		if open := strings.IndexByte(name, '['); open >= 0 && strings.HasSuffix(name, "]") {
			return name[open+1 : len(name)-1]
		}
	}
	id, _ := dom.Attr(item, "data-id")
	return id
}

// content returns the area badges are prepended to. Markup without a
// content area gets them on the root.
func (c *Controller) content() *html.Node {
	if n := dom.Query(c.root, contentSel); n != nil {
		return n
	}
	return c.root
}

// RenderCounter replaces the counter badge with the current count.
func (c *Controller) RenderCounter() {
	for _, old := range dom.QueryAll(c.root, counterSel) {
		dom.Remove(old)
	}
	badge := dom.NewElement("div", ClassCounter)
	dom.SetText(badge, c.formatter.FormatPlural(c.count, CounterSingular, CounterPlural))
	dom.Prepend(c.content(), badge)
}

// CounterText returns the text of the rendered counter badge.
func (c *Controller) CounterText() string {
	if n := dom.Query(c.root, counterSel); n != nil {
		return dom.Text(n)
	}
	return ""
}

// LimitText returns the limit warning, or "" when none is shown.
func (c *Controller) LimitText() string {
	if n := dom.Query(c.root, limitSel); n != nil {
		return dom.Text(n)
	}
	return ""
}

// Select marks item as chosen.
func (c *Controller) Select(item *html.Node) {
	dom.AddClass(item, ClassChecked)
	if input := dom.Query(item, inputSel); input != nil {
		dom.SetAttr(input, "checked", "checked")
	}
}

// Deselect clears item's chosen state.
func (c *Controller) Deselect(item *html.Node) {
	dom.RemoveClass(item, ClassChecked)
	if input := dom.Query(item, inputSel); input != nil {
		dom.RemoveAttr(input, "checked")
	}
}

// DeselectAll clears every row.
func (c *Controller) DeselectAll() {
	for _, item := range c.Items() {
		c.Deselect(item)
	}
}

// Lock shows the limit warning and disables every unselected row.
func (c *Controller) Lock() {
	if dom.Query(c.root, limitSel) == nil {
		msg := dom.NewElement("div", ClassLimit, "messages", "warning")
		dom.SetText(msg, c.formatter.T(LimitMessage))
		dom.Prepend(c.content(), msg)
	}
	for _, item := range dom.QueryAll(c.root, uncheckedSel) {
		dom.AddClass(item, ClassDisabled)
	}
}

// Unlock removes the limit warning and re-enables every row.
func (c *Controller) Unlock() {
	for _, msg := range dom.QueryAll(c.root, limitSel) {
		dom.Remove(msg)
	}
	for _, item := range c.Items() {
		dom.RemoveClass(item, ClassDisabled)
	}
}

// Activate handles a click or double click on item.
func (c *Controller) Activate(item *html.Node) Outcome {
	outcome := c.activate(item)
	c.log.Debug("selection: activate",
		"uuid", c.uuid,
		"item", ItemID(item),
		"outcome", outcome,
		"count", c.count,
		"state", c.State(),
	)
	return outcome
}

func (c *Controller) activate(item *html.Node) Outcome {
	switch {
	case IsDisabled(item):
		return OutcomeIgnored

	case c.cardinality == 1:
		c.DeselectAll()
		c.Select(item)
		c.count = 1
		c.RenderCounter()
		return OutcomeReplaced

	case IsSelected(item):
		c.Deselect(item)
		if c.count > 0 {
			c.count--
		}
		c.Unlock()
		c.RenderCounter()
		return OutcomeDeselected

	default:
		c.Select(item)
		c.count++
		outcome := OutcomeSelected
		if c.cardinality.Bounded() && c.count == int(c.cardinality) {
			c.Lock()
			outcome = OutcomeLocked
		}
		c.RenderCounter()
		return outcome
	}
}

// Bind subscribes the controller to click and double click events on rows
// inside its root. Binding again replaces the previous subscription.
func (c *Controller) Bind(d *dom.Delegator) {
	c.Dispose()
	c.sub = d.On(c.root, rowSel, func(e dom.Event) {
		c.Activate(e.CurrentTarget)
	}, dom.EventClick, dom.EventDblClick)
}

// Bound reports whether the controller currently receives events.
func (c *Controller) Bound() bool {
	return c.sub != nil && c.sub.Active()
}

// Dispose removes the controller's event subscription. No handler runs
// after Dispose returns.
func (c *Controller) Dispose() {
	if c.sub != nil {
		c.sub.Off()
		c.sub = nil
	}
}
