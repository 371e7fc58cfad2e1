package browser

import (
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Selecting items

Rows are shown as cards. Activate a card to select it, activate it again
to deselect it.

| Key | Action |
|-----|--------|
| arrows, hjkl | move the cursor |
| space, enter | select or deselect the card |
| mouse click | select or deselect the card under the pointer |
| / | filter cards by label |
| y | copy the selected ids to the clipboard |
| q | finish and print the selection |
| esc | leave without a selection |

## Limits

A widget with a limit stops accepting new items once it is full. Every
unselected card is then disabled and a warning is shown. Deselecting any
card lifts the limit again.

A widget that holds a single item replaces the current choice on every
activation.
`

// renderHelp renders the help text for the given width. Rendering failures
// fall back to the raw markdown.
func renderHelp(width int) string {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}

func newHelpViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.SetContent(renderHelp(width - 2))
	return vp
}
