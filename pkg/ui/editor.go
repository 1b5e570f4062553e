package ui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"safeboard/pkg/model"
	"safeboard/pkg/storage"
)

// DayEditor is the modal form for setting one day's status by hand.
type DayEditor struct {
	form   *huh.Form
	month  string
	day    string
	status string
}

// NewDayEditor builds the form. Values are validated again at apply time
// against the actual calendar, since day-in-month depends on the month field.
func NewDayEditor() *DayEditor {
	e := &DayEditor{}
	e.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Month").
			Placeholder("1-12").
			Value(&e.month).
			Validate(intInRange(1, 12)),
		huh.NewInput().
			Title("Day").
			Placeholder("1-31").
			Value(&e.day).
			Validate(intInRange(1, 31)),
		huh.NewSelect[string]().
			Title("Status").
			Options(
				huh.NewOption("Safe", string(model.StatusSafe)),
				huh.NewOption("Near miss", string(model.StatusNearMiss)),
				huh.NewOption("Accident", string(model.StatusAccident)),
				huh.NewOption("Clear (undecided)", ""),
			).
			Value(&e.status),
	))
	return e
}

// Init starts the form.
func (e *DayEditor) Init() tea.Cmd {
	return e.form.Init()
}

// Update feeds a message to the form.
func (e *DayEditor) Update(msg tea.Msg) tea.Cmd {
	f, cmd := e.form.Update(msg)
	if form, ok := f.(*huh.Form); ok {
		e.form = form
	}
	return cmd
}

// Completed reports whether the form was submitted.
func (e *DayEditor) Completed() bool {
	return e.form.State == huh.StateCompleted
}

// View renders the form.
func (e *DayEditor) View() string {
	return TitleStyle.Render("Edit day status") + "\n\n" + e.form.View()
}

// Apply writes the chosen status into the store.
func (e *DayEditor) Apply(store *storage.Store) error {
	month, _ := strconv.Atoi(e.month)
	day, _ := strconv.Atoi(e.day)
	if day > model.DaysIn(store.Year(), month) {
		return fmt.Errorf("month %d has no day %d", month, day)
	}
	store.UpdateSafety(func(r *model.SafetyRecord) {
		d := &r.MonthlyData[month-1].Days[day-1]
		if e.status == "" {
			d.Status = nil
			return
		}
		s := model.DayStatus(e.status)
		d.Status = &s
	})
	return nil
}

func intInRange(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("enter a number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be %d-%d", lo, hi)
		}
		return nil
	}
}
