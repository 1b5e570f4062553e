package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"safeboard/pkg/layout"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	if m.editor != nil {
		return m.overlay(m.editor.View())
	}
	if m.search != nil {
		return m.overlay(m.search.View(m.height - footerLines))
	}

	g := computeGeometry(m.width, m.height, m.store.Layout())

	cols := make([]string, 0, 3)
	for c := 0; c < 3; c++ {
		cells := make([]string, 0, len(columnSlots[c]))
		for _, slot := range columnSlots[c] {
			r, _ := g.rectFor(slot)
			cells = append(cells, m.renderSlot(slot, r))
		}
		cols = append(cols, lipgloss.JoinVertical(lipgloss.Left, cells...))
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	return board + "\n" + m.footer()
}

// renderSlot draws one panel inside its bordered cell-space rect.
func (m Model) renderSlot(slot layout.Slot, r slotRect) string {
	innerW := r.w - 2
	innerH := r.h - 2
	if innerW < 1 || innerH < 1 {
		return m.borderStyle(slot).Width(max(r.w-2, 0)).Height(max(r.h-2, 0)).Render("")
	}

	panel := m.store.PanelAt(slot)
	content := m.renderPanel(panel, slot, innerW, innerH)
	content = clampLines(content, innerW, innerH)

	return m.borderStyle(slot).Width(innerW).Height(innerH).Render(content)
}

// borderStyle picks the panel border for the current gesture state.
func (m Model) borderStyle(slot layout.Slot) lipgloss.Style {
	if !m.swapArmed {
		return PanelStyle
	}
	if m.swapSource != nil {
		if *m.swapSource == slot {
			return SwapSourceStyle
		}
		if m.store.CanAcceptDrop(*m.swapSource, slot) {
			return DroppableStyle
		}
		return NotDroppableStyle
	}
	return DroppableStyle
}

func (m Model) footer() string {
	var left string
	if m.store.Locked() {
		left = LockedBadgeStyle.Render(" LOCKED ") + " "
	}
	if m.status != "" {
		left += SubtextStyle.Render(m.status)
	}
	right := m.help.View(m.keys)

	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		return truncate(left, m.width)
	}
	return left + strings.Repeat(" ", pad) + right
}

// overlay centers a modal view over a blank board.
func (m Model) overlay(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		PanelStyle.Padding(1, 2).Render(content))
}

// clampLines hard-limits content to the panel interior so an oversized
// renderer cannot push the grid out of alignment.
func clampLines(s string, w, h int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for i, line := range lines {
		lines[i] = truncate(line, w)
	}
	return strings.Join(lines, "\n")
}

// truncate cuts a line to width cells, rune-width aware.
func truncate(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	return runewidth.Truncate(s, w, "…")
}

func scaledLabel(scale float64, full, short string) string {
	if scale < 0.85 {
		return short
	}
	return full
}

