// Package i18n formats the user-facing strings of the selection widget.
package i18n

import (
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CountPlaceholder is replaced by the formatted count in plural strings.
const CountPlaceholder = "@count"

// Formatter translates and pluralizes strings.
type Formatter interface {
	// FormatPlural picks singular or plural for count and interpolates
	// CountPlaceholder.
	FormatPlural(count int, singular, plural string) string
	// T translates a fixed string.
	T(s string) string
}

// Locale formats with the CLDR plural rules of one language. Translations
// are looked up in an optional catalog; untranslated strings pass through.
type Locale struct {
	tag     language.Tag
	printer *message.Printer
	strings map[string]string
}

// New returns a formatter for the given language.
func New(tag language.Tag) *Locale {
	return &Locale{
		tag:     tag,
		printer: message.NewPrinter(tag),
		strings: make(map[string]string),
	}
}

// Parse returns a formatter for a BCP 47 language string, falling back to
// English when it cannot be parsed.
func Parse(lang string) *Locale {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return New(tag)
}

// Default is the English formatter.
func Default() *Locale {
	return New(language.English)
}

// Tag returns the formatter's language.
func (l *Locale) Tag() language.Tag {
	return l.tag
}

// Translate registers a translation for source.
func (l *Locale) Translate(source, translated string) *Locale {
	l.strings[source] = translated
	return l
}

// T returns the registered translation of s, or s.
func (l *Locale) T(s string) string {
	if t, ok := l.strings[s]; ok {
		return t
	}
	return s
}

// FormatPlural implements Formatter.
func (l *Locale) FormatPlural(count int, singular, pluralForm string) string {
	text := l.T(pluralForm)
	if l.form(count) == plural.One {
		text = l.T(singular)
	}
	return strings.ReplaceAll(text, CountPlaceholder, l.printer.Sprintf("%d", count))
}

func (l *Locale) form(count int) plural.Form {
	n := count
	if n < 0 {
		n = -n
	}
	// Integers have no visible fraction digits: v = w = f = t = 0.
	return plural.Cardinal.MatchPlural(l.tag, n, 0, 0, 0, 0)
}
