// Package settings holds entity browser configuration records and the
// registries and providers that resolve them by widget uuid.
package settings

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Cardinality is the maximum number of items a widget may select.
type Cardinality int

const (
	// Unbounded means there is no selection limit.
	Unbounded Cardinality = -1
	// DefaultCardinality applies when a record does not say otherwise.
	DefaultCardinality Cardinality = 1
)

// Bounded reports whether the cardinality imposes a limit.
func (c Cardinality) Bounded() bool {
	return c > 0
}

func (c Cardinality) String() string {
	if c < 0 {
		return "unlimited"
	}
	return strconv.Itoa(int(c))
}

// ParseCardinality accepts a positive integer, -1, or "unlimited".
func ParseCardinality(s string) (Cardinality, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "unlimited", "unbounded", "-1":
		return Unbounded, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid cardinality %q: want a positive integer or \"unlimited\"", s)
	}
	return Cardinality(n), nil
}

// UnmarshalYAML accepts integers and the "unlimited" keyword.
func (c *Cardinality) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := parseLoose(value.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalJSON accepts numbers and strings.
func (c *Cardinality) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		*c = 0
		return nil
	}
	parsed, err := parseLoose(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalJSON always writes a number so embedders read the same shape back.
func (c Cardinality) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(c))
}

// parseLoose keeps zero and negative values so Normalize can map them.
func parseLoose(s string) (Cardinality, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if strings.EqualFold(s, "unlimited") || strings.EqualFold(s, "unbounded") {
		return Unbounded, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid cardinality %q", s)
	}
	return Cardinality(n), nil
}

// Record is the configuration an embedder provides for one widget.
type Record struct {
	Count       int         `json:"count" yaml:"count"`
	Cardinality Cardinality `json:"cardinality" yaml:"cardinality"`
}

// Defaults is the record used when none is configured: a single-choice
// field with nothing selected yet.
var Defaults = Record{Count: 0, Cardinality: DefaultCardinality}

// Normalize maps missing or out-of-range values onto the defaults. A zero
// cardinality means "not set" and becomes 1; any negative cardinality means
// unbounded.
func (r Record) Normalize() Record {
	if r.Count < 0 {
		r.Count = 0
	}
	switch {
	case r.Cardinality == 0:
		r.Cardinality = DefaultCardinality
	case r.Cardinality < 0:
		r.Cardinality = Unbounded
	}
	return r
}
