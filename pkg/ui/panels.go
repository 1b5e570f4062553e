package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"safeboard/pkg/analysis"
	"safeboard/pkg/layout"
	"safeboard/pkg/model"
)

var monthShort = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

func (m Model) renderPanel(panel layout.Panel, slot layout.Slot, w, h int) string {
	scale := m.panelScales[slot].Current()
	rec := m.store.Safety()

	switch panel {
	case layout.PanelSlogan:
		return m.renderSlogan(rec, w, h)
	case layout.PanelSafetyData:
		return m.renderSafetyData(rec, w, scale)
	case layout.PanelCalendar:
		return m.renderCalendar(rec, w, h, scale)
	case layout.PanelStreak:
		return m.renderStreak(rec, w, scale)
	case layout.PanelAnnouncements:
		return TitleStyle.Render("Announcements") + "\n" + m.annCache
	case layout.PanelPolicy:
		return m.renderPolicy(rec, w)
	case layout.PanelPoster:
		return m.renderPoster(rec, w, h)
	}
	return ""
}

func (m Model) renderSlogan(rec *model.SafetyRecord, w, h int) string {
	th := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render(rec.SloganTh)
	en := SubtextStyle.Render(rec.SloganEn)
	block := th + "\n" + en
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, block)
}

// renderSafetyData shows the metric cards, recomputed from the calendar so
// the numbers can never drift from the day statuses.
func (m Model) renderSafetyData(rec *model.SafetyRecord, w int, scale float64) string {
	metrics := analysis.RefreshMetrics(rec)
	summary := analysis.Summarize(rec.TrendRows)

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Safety Data %d", m.store.Year())))
	b.WriteString("\n\n")
	for _, mt := range metrics {
		label := scaledLabel(scale, mt.Label, runewidth.Truncate(mt.Label, 9, "."))
		val := fmt.Sprintf("%.0f", mt.Value)
		if mt.Unit != "" {
			val += " " + mt.Unit
		}
		gap := w - lipgloss.Width(label) - lipgloss.Width(val)
		if gap < 1 {
			gap = 1
		}
		b.WriteString(label + strings.Repeat(" ", gap) + lipgloss.NewStyle().Bold(true).Render(val) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("trend: ") + string(summary.Direction))
	return b.String()
}

// renderCalendar draws the year heatmap, one row per month. At small scales
// the month labels shrink to single letters.
func (m Model) renderCalendar(rec *model.SafetyRecord, w, h int, scale float64) string {
	labelW := 4
	if scale < 0.85 || w < 36 {
		labelW = 2
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Calendar %d", m.store.Year())))
	b.WriteString("\n")
	for i, month := range rec.MonthlyData {
		label := monthShort[i]
		if labelW == 2 {
			label = label[:1]
		}
		b.WriteString(SubtextStyle.Render(runewidth.FillRight(label, labelW)))
		for _, d := range month.Days {
			status := ""
			if d.Status != nil {
				status = string(*d.Status)
			}
			b.WriteString(StatusDot(status))
		}
		if i < len(rec.MonthlyData)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderStreak(rec *model.SafetyRecord, w int, scale float64) string {
	streak := model.ComputeStreak(rec)
	big := lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	var b strings.Builder
	b.WriteString(TitleStyle.Render(scaledLabel(scale, "Accident-Free Streak", "Streak")))
	b.WriteString("\n\n")
	b.WriteString(big.Render(fmt.Sprintf("%d", streak.Current)) + SubtextStyle.Render(" days"))
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render(fmt.Sprintf("best this year: %d", streak.Best)))
	return b.String()
}

func (m Model) renderPolicy(rec *model.SafetyRecord, w int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(rec.PolicyTitle))
	b.WriteString("\n")
	b.WriteString(RenderDivider(min(w, lipgloss.Width(rec.PolicyTitle))))
	b.WriteString("\n")
	for i, line := range rec.PolicyLines {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, line))
	}
	return b.String()
}

// renderPoster shows the poster path and zoom; the image itself only exists
// in exports. PosterZoom is clamped the same way the export pipeline does.
func (m Model) renderPoster(rec *model.SafetyRecord, w, h int) string {
	if rec.PolicyPoster == "" {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center,
			MutedStyle.Render("no poster configured"))
	}
	name := rec.PolicyPoster
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	block := TitleStyle.Render("Poster") + "\n" +
		SubtextStyle.Render(name) + "\n" +
		MutedStyle.Render(fmt.Sprintf("zoom %.0f%%", rec.PosterZoom*100))
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, block)
}
