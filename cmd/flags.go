package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/marcus/mbrowse/internal/settings"
)

// cardinalityValue is a pflag.Value accepting a positive number or
// "unlimited".
type cardinalityValue struct {
	c *settings.Cardinality
}

var _ pflag.Value = cardinalityValue{}

func newCardinalityValue(def settings.Cardinality, p *settings.Cardinality) cardinalityValue {
	*p = def
	return cardinalityValue{c: p}
}

func (v cardinalityValue) String() string {
	if v.c == nil {
		return settings.DefaultCardinality.String()
	}
	return v.c.String()
}

func (v cardinalityValue) Set(s string) error {
	parsed, err := settings.ParseCardinality(s)
	if err != nil {
		return err
	}
	*v.c = parsed
	return nil
}

func (v cardinalityValue) Type() string {
	return "cardinality"
}

// cardinalityFlag registers a cardinality flag on fs.
func cardinalityFlag(fs *pflag.FlagSet, p *settings.Cardinality, name, shorthand string, def settings.Cardinality, usage string) {
	fs.VarP(newCardinalityValue(def, p), name, shorthand, usage)
}

// activation is one scripted event on a row.
type activation struct {
	ID    string
	Event string
}

// activationValue appends to a list shared by several flags, so the
// activations keep their command line order across flags.
type activationValue struct {
	list  *[]activation
	event string
}

var _ pflag.SliceValue = activationValue{}

func (v activationValue) String() string {
	return "[" + strings.Join(v.GetSlice(), ",") + "]"
}

func (v activationValue) Set(s string) error {
	if s == "" {
		return fmt.Errorf("item id must not be empty")
	}
	*v.list = append(*v.list, activation{ID: s, Event: v.event})
	return nil
}

func (v activationValue) Type() string {
	return "id"
}

func (v activationValue) Append(s string) error {
	return v.Set(s)
}

func (v activationValue) Replace(ids []string) error {
	kept := (*v.list)[:0]
	for _, a := range *v.list {
		if a.Event != v.event {
			kept = append(kept, a)
		}
	}
	*v.list = kept
	for _, id := range ids {
		if err := v.Set(id); err != nil {
			return err
		}
	}
	return nil
}

// GetSlice returns the ids recorded by this flag.
func (v activationValue) GetSlice() []string {
	var ids []string
	for _, a := range *v.list {
		if a.Event == v.event {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// activationFlag registers a repeatable flag that records event activations
// into list.
func activationFlag(fs *pflag.FlagSet, list *[]activation, name, event, usage string) {
	fs.Var(activationValue{list: list, event: event}, name, usage)
}
