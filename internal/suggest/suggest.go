// Package suggest proposes corrections for mistyped command-line flags.
package suggest

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestions caps the number of proposals returned by Flag.
const maxSuggestions = 3

// CommonFlagAliases maps words users reach for to the flag that does the
// job, or to a short pointer when no flag does.
var CommonFlagAliases = map[string]string{
	"limit":    "--cardinality, -c",
	"max":      "--cardinality, -c",
	"selected": "--count, -n",
	"select":   "--click",
	"item":     "--click",
	"output":   "--out, -o",
	"write":    "--out, -o",
	"frame":    "--framed",
	"iframe":   "--framed",
	"version":  "use: mbrowse version",
	"uuid":     "pass the uuid as an argument",
}

// GetFlagHint returns the alias hint for flag, or "".
func GetFlagHint(flag string) string {
	return CommonFlagAliases[strings.ToLower(normalize(flag))]
}

// Flag returns up to three valid flags close to unknown, nearest first.
// A candidate matches when its edit distance is at most max(3, len/2) of
// the candidate's name.
func Flag(unknown string, validFlags []string) []string {
	target := normalize(unknown)

	type scored struct {
		flag string
		name string
		dist int
	}
	var matches []scored
	for _, f := range validFlags {
		name := normalize(f)
		maxDist := len(name) / 2
		if maxDist < 3 {
			maxDist = 3
		}
		if d := levenshtein.ComputeDistance(target, name); d <= maxDist {
			matches = append(matches, scored{flag: f, name: name, dist: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return len(matches[i].name) < len(matches[j].name)
	})

	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.flag
	}
	return out
}

func normalize(flag string) string {
	return strings.TrimLeft(flag, "-")
}
