package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"safeboard/pkg/model"
)

const maxSearchResults = 12

// SearchModel is the fuzzy-find overlay across announcements, policy lines,
// and slogans.
type SearchModel struct {
	input   textinput.Model
	entries []string
	matches fuzzy.Matches
}

// NewSearch builds the search corpus from the current record.
func NewSearch(rec *model.SafetyRecord) *SearchModel {
	entries := make([]string, 0, len(rec.Announcements)+len(rec.PolicyLines)+2)
	for _, a := range rec.Announcements {
		entries = append(entries, a.Title)
	}
	entries = append(entries, rec.PolicyLines...)
	entries = append(entries, rec.SloganTh, rec.SloganEn)

	in := textinput.New()
	in.Placeholder = "search announcements and policy"
	in.Prompt = "/ "
	in.Focus()
	return &SearchModel{input: in, entries: entries}
}

// Init returns the cursor blink command.
func (s *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update feeds a message to the input and re-ranks the matches.
func (s *SearchModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	q := s.input.Value()
	if q == "" {
		s.matches = nil
	} else {
		s.matches = fuzzy.Find(q, s.entries)
	}
	return cmd
}

// View renders the query line and the ranked matches with the matched runes
// highlighted.
func (s *SearchModel) View(maxH int) string {
	var b strings.Builder
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	limit := maxSearchResults
	if maxH-4 < limit {
		limit = maxH - 4
	}
	if len(s.matches) == 0 {
		if s.input.Value() != "" {
			b.WriteString(MutedStyle.Render("no matches"))
		} else {
			b.WriteString(MutedStyle.Render("type to search"))
		}
		return b.String()
	}
	hl := lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)
	for i, match := range s.matches {
		if i >= limit {
			b.WriteString(MutedStyle.Render("..."))
			break
		}
		b.WriteString(highlightMatch(match, hl))
		b.WriteString("\n")
	}
	return b.String()
}

func highlightMatch(match fuzzy.Match, hl lipgloss.Style) string {
	idx := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		idx[i] = true
	}
	var b strings.Builder
	for i, r := range match.Str {
		if idx[i] {
			b.WriteString(hl.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
