package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/marcus/mbrowse/internal/dom"
)

// settingsFile is the on-disk and embedded shape, mirroring the
// entity_browser key embedders publish.
type settingsFile struct {
	EntityBrowser map[string]Record `json:"entity_browser" yaml:"entity_browser"`
}

// LoadFile reads a YAML (or JSON) settings file. A missing file yields an
// empty registry.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{}, nil
		}
		return nil, err
	}

	var f settingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return NewRegistry(f.EntityBrowser), nil
}

// SaveFile writes reg as YAML, creating the parent directory.
func SaveFile(path string, reg *Registry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f := settingsFile{EntityBrowser: reg.Records()}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var settingsScript = dom.MustCompile(`script[type="application/json"][data-drupal-selector="drupal-settings-json"]`)

// FromDocument reads the settings a page embeds for its own window. Pages
// without an embedded settings script yield an empty registry. A malformed
// script also yields an empty registry, together with the parse error so the
// caller can report it.
func FromDocument(doc *html.Node) (*Registry, error) {
	script := dom.Query(doc, settingsScript)
	if script == nil || script.FirstChild == nil || script.FirstChild.Type != html.TextNode {
		return &Registry{}, nil
	}
	raw := script.FirstChild.Data

	var f settingsFile
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return &Registry{}, fmt.Errorf("parse embedded settings: %w", err)
	}
	return NewRegistry(f.EntityBrowser), nil
}

var headSel = dom.MustCompile("head")

// Embed publishes reg as the page's own settings. An existing settings
// script keeps its other keys and has its entity_browser entry replaced;
// otherwise a new script is appended to <head>.
func Embed(doc *html.Node, reg *Registry) error {
	payload := map[string]json.RawMessage{}
	script := dom.Query(doc, settingsScript)
	if script != nil && script.FirstChild != nil && script.FirstChild.Type == html.TextNode {
		if err := json.Unmarshal([]byte(script.FirstChild.Data), &payload); err != nil {
			return fmt.Errorf("parse embedded settings: %w", err)
		}
	}

	records, err := json.Marshal(reg.Records())
	if err != nil {
		return err
	}
	payload["entity_browser"] = records
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if script == nil {
		script = dom.NewElement("script")
		dom.SetAttr(script, "type", "application/json")
		dom.SetAttr(script, "data-drupal-selector", "drupal-settings-json")
		parent := dom.Query(doc, headSel)
		if parent == nil {
			parent = doc
		}
		parent.AppendChild(script)
	}
	dom.SetText(script, string(data))
	return nil
}
