package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/mbrowse/internal/selection"
)

// View implements tea.Model. Hit regions are rebuilt on every render so
// mouse coordinates always refer to what is on screen.
func (m Model) View() string {
	if m.done {
		return ""
	}
	m.mouse.Clear()

	if m.showHelp {
		return m.helpView.View() + "\n" + mutedText.Render("? or esc to close")
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	if warn := m.ctrl.LimitText(); warn != "" {
		sections = append(sections, bannerStyle.Render(m.truncate(warn)))
	}
	if m.filtering || m.filter.Value() != "" {
		sections = append(sections, m.filter.View())
	}

	top := 0
	for _, s := range sections {
		top += lipgloss.Height(s)
	}

	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = mutedText.Render(m.status)
	}
	sections = append(sections, m.renderGrid(top), footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader shows the title and the counter badge as rendered into the
// document.
func (m Model) renderHeader() string {
	header := titleStyle.Render(m.title)
	if counter := m.ctrl.CounterText(); counter != "" {
		header += " " + badgeStyle.Render(counter)
	}
	return m.truncate(header)
}

func (m Model) truncate(s string) string {
	if m.width > 0 && lipgloss.Width(s) > m.width {
		return ansi.Truncate(s, m.width, "…")
	}
	return s
}

func (m Model) cardWidth() int {
	w := (m.width - (m.columns - 1)) / m.columns
	if w < minCardWidth {
		w = minCardWidth
	}
	return w
}

// renderGrid draws the visible card rows starting at screen line top and
// registers a hit region per card.
func (m Model) renderGrid(top int) string {
	if len(m.visible) == 0 {
		return mutedText.Render("No items match.")
	}

	cw := m.cardWidth()
	rows := m.visibleRows()
	var lines []string

	for r := m.offset; r < m.offset+rows; r++ {
		var cells []string
		for c := 0; c < m.columns; c++ {
			i := r*m.columns + c
			if i >= len(m.visible) {
				break
			}
			if c > 0 {
				cells = append(cells, " ")
			}
			cells = append(cells, m.renderCard(i, cw))
			m.mouse.HitMap.AddRect(fmt.Sprintf("card-%d", i), c*(cw+1), top+(r-m.offset)*cardHeight, cw, cardHeight, i)
		}
		if len(cells) == 0 {
			break
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	if more := m.gridRows() - (m.offset + rows); more > 0 {
		lines = append(lines, mutedText.Render(fmt.Sprintf("↓ %d more rows", more)))
	}
	return strings.Join(lines, "\n")
}

// renderCard renders the card at display position i. The checked and
// disabled looks come from the row's classes.
func (m Model) renderCard(i, width int) string {
	c := m.cards[m.visible[i]]

	mark := "[ ] "
	style := cardStyle
	switch {
	case selection.IsSelected(c.node):
		mark = "[x] "
		style = cardCheckedStyle
	case selection.IsDisabled(c.node):
		mark = "[-] "
		style = cardDisabledStyle
	}
	if i == m.cursor {
		style = style.BorderForeground(primaryColor)
	}

	inner := width - 2
	text := mark + c.label
	if lipgloss.Width(text) > inner {
		text = ansi.Truncate(text, inner, "…")
	}
	return style.Width(inner).Render(text)
}
