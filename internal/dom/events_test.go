package dom

import (
	"testing"
)

func TestDelegatorDispatch(t *testing.T) {
	doc := mustParse(t, listView)
	form := Query(doc, MustCompile("form"))
	rows := QueryAll(form, MustCompile(".views-row"))
	input := Query(rows[1], MustCompile("input"))

	d := NewDelegator()
	var got []Event
	d.On(form, MustCompile(".views-row"), func(e Event) { got = append(got, e) }, EventClick, EventDblClick)

	if !d.Dispatch(input, EventClick) {
		t.Fatal("click on a row descendant should be delivered")
	}
	if len(got) != 1 || got[0].CurrentTarget != rows[1] || got[0].Target != input {
		t.Fatalf("unexpected event: %+v", got)
	}

	d.Dispatch(rows[0], EventDblClick)
	if len(got) != 2 || got[1].Type != EventDblClick || got[1].CurrentTarget != rows[0] {
		t.Errorf("dblclick not delivered to row: %+v", got)
	}

	if d.Dispatch(rows[0], "keydown") {
		t.Error("unsubscribed type should not be delivered")
	}
	if d.Dispatch(form, EventClick) {
		t.Error("click on the root itself matches no row")
	}
	body := Query(doc, MustCompile("body"))
	if d.Dispatch(body, EventClick) {
		t.Error("click outside the root should not be delivered")
	}
}

func TestSubscriptionOff(t *testing.T) {
	doc := mustParse(t, listView)
	form := Query(doc, MustCompile("form"))
	row := Query(form, MustCompile(".views-row"))

	d := NewDelegator()
	calls := 0
	sub := d.On(form, MustCompile(".views-row"), func(Event) { calls++ }, EventClick)

	sub.Off()
	sub.Off()
	if sub.Active() {
		t.Error("subscription should be inactive after Off")
	}
	if d.Len() != 0 {
		t.Errorf("Len: got %d, want 0", d.Len())
	}
	if d.Dispatch(row, EventClick) || calls != 0 {
		t.Errorf("handler ran after Off: calls=%d", calls)
	}
}

func TestOffDuringDispatch(t *testing.T) {
	doc := mustParse(t, listView)
	form := Query(doc, MustCompile("form"))
	row := Query(form, MustCompile(".views-row"))

	d := NewDelegator()
	var second *Subscription
	secondCalls := 0
	d.On(form, MustCompile(".views-row"), func(Event) { second.Off() }, EventClick)
	second = d.On(form, MustCompile(".views-row"), func(Event) { secondCalls++ }, EventClick)

	d.Dispatch(row, EventClick)
	if secondCalls != 0 {
		t.Errorf("disposed subscription received event: %d", secondCalls)
	}
}
