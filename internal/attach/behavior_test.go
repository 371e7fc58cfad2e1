package attach

import (
	"errors"
	"testing"

	"golang.org/x/net/html"

	"github.com/marcus/mbrowse/internal/dom"
	"github.com/marcus/mbrowse/internal/i18n"
	"github.com/marcus/mbrowse/internal/selection"
	"github.com/marcus/mbrowse/internal/settings"
)

const page = `<html><body>
<div id="wrapper">
<form data-entity-browser-uuid="first"><div class="view-content">
  <div class="views-row"><input type="checkbox" name="entity_browser_select[media:1]"></div>
  <div class="views-row"><input type="checkbox" name="entity_browser_select[media:2]"></div>
</div></form>
<form data-entity-browser-uuid="second"><div class="view-content">
  <div class="views-row"><input type="checkbox" name="entity_browser_select[media:3]"></div>
</div></form>
</div>
</body></html>`

func setup(t *testing.T) (*html.Node, *Behavior) {
	t.Helper()
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	reg := settings.NewRegistry(map[string]settings.Record{
		"first":  {Cardinality: 2},
		"second": {Cardinality: settings.Unbounded},
	})
	return doc, New(reg, i18n.Default(), nil)
}

func forms(doc *html.Node) []*html.Node {
	return dom.QueryAll(doc, rootSel)
}

func TestElement(t *testing.T) {
	doc, _ := setup(t)
	all := forms(doc)

	if got := Element(doc); got != all[0] {
		t.Error("document context should find the first form")
	}
	if got := Element(all[1]); got != all[1] {
		t.Error("form context should filter to itself")
	}
	wrapper := dom.Query(doc, dom.MustCompile("#wrapper"))
	if got := Element(wrapper); got != nil {
		t.Error("non-form subtree context should not search descendants")
	}
	if Element(nil) != nil {
		t.Error("nil context")
	}
}

func TestAttachDocument(t *testing.T) {
	doc, b := setup(t)

	c, err := b.Attach(doc)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if c == nil || c.UUID() != "first" || c.Cardinality() != 2 {
		t.Fatalf("unexpected controller: %+v", c)
	}
	if b.Registry().Lookup(forms(doc)[0]) != c {
		t.Error("controller should be registered on its element")
	}

	row := c.Items()[0]
	if !b.Delegator.Dispatch(row, dom.EventClick) {
		t.Fatal("click not delivered")
	}
	if c.Count() != 1 {
		t.Errorf("count: got %d, want 1", c.Count())
	}
}

func TestAttachSubtree(t *testing.T) {
	doc, b := setup(t)
	second := forms(doc)[1]

	c, err := b.Attach(second)
	if err != nil || c == nil {
		t.Fatalf("Attach: %v, %v", c, err)
	}
	if c.Cardinality() != settings.Unbounded {
		t.Errorf("cardinality: %v", c.Cardinality())
	}

	wrapper := dom.Query(doc, dom.MustCompile("#wrapper"))
	none, err := b.Attach(wrapper)
	if none != nil || err != nil {
		t.Errorf("context without a root: got %v, %v", none, err)
	}
}

func TestReattachReplaces(t *testing.T) {
	doc, b := setup(t)

	first, _ := b.Attach(doc)
	second, _ := b.Attach(doc)

	if first == second {
		t.Fatal("re-attach should build a new controller")
	}
	if first.Bound() {
		t.Error("old controller should be disposed")
	}
	if b.Registry().Len() != 1 || b.Delegator.Len() != 1 {
		t.Errorf("registry=%d subscriptions=%d, want 1 and 1", b.Registry().Len(), b.Delegator.Len())
	}

	b.Delegator.Dispatch(second.Items()[0], dom.EventClick)
	if first.Count() != 0 || second.Count() != 1 {
		t.Errorf("only the new controller should react: first=%d second=%d", first.Count(), second.Count())
	}
}

func TestDetach(t *testing.T) {
	doc, b := setup(t)
	c, _ := b.Attach(doc)

	if !b.Detach(doc) {
		t.Fatal("Detach should find the controller")
	}
	if c.Bound() || b.Registry().Len() != 0 {
		t.Error("controller should be disposed and forgotten")
	}
	if b.Delegator.Dispatch(c.Items()[0], dom.EventClick) {
		t.Error("event delivered after detach")
	}
	if b.Detach(doc) {
		t.Error("second Detach should find nothing")
	}
}

func TestAttachMissingUUID(t *testing.T) {
	// Element only returns forms carrying the uuid attribute, so an empty
	// value is the one way to reach the precondition check.
	doc, _ := dom.ParseString(`<form data-entity-browser-uuid=""></form>`)
	b := New(nil, nil, nil)

	_, err := b.Attach(doc)
	if !errors.Is(err, selection.ErrMissingUUID) {
		t.Errorf("got %v, want ErrMissingUUID", err)
	}
	if b.Registry().Len() != 0 {
		t.Error("failed attach must not register")
	}
}

func TestDisposeAll(t *testing.T) {
	doc, b := setup(t)
	all := forms(doc)
	c1, _ := b.Attach(all[0])
	c2, _ := b.Attach(all[1])

	b.Registry().DisposeAll()
	if c1.Bound() || c2.Bound() || b.Registry().Len() != 0 {
		t.Error("DisposeAll should unbind everything")
	}
}

func TestFramedProvider(t *testing.T) {
	doc, _ := dom.ParseString(page)
	embedder := settings.NewWindow("top", settings.NewRegistry(map[string]settings.Record{"first": {Cardinality: 3}}))
	frame := embedder.Frame("iframe", settings.NewRegistry(map[string]settings.Record{"first": {Cardinality: 9}}))

	c, err := New(frame, nil, nil).Attach(doc)
	if err != nil {
		t.Fatal(err)
	}
	if c.Cardinality() != 3 {
		t.Errorf("framed widget should read the embedder's settings, got cardinality %v", c.Cardinality())
	}
}
