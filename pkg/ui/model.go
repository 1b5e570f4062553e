// Package ui renders the safety board and feeds operator gestures into the
// layout and persistence engine.
package ui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/sirupsen/logrus"

	"safeboard/pkg/layout"
	"safeboard/pkg/storage"
)

// Model is the bubbletea model for the dashboard. All board mutations happen
// here, on the event loop; timers and watchers reach it through messages.
type Model struct {
	store *storage.Store

	width  int
	height int
	ready  bool

	keys     KeyMap
	help     help.Model
	showHelp bool

	rootScale   *layout.ScaleTracker
	panelScales map[layout.Slot]*layout.ScaleTracker

	// Active resize gesture, nil when idle.
	resizing     *layout.ResizeSession
	dragOrigin   int
	dragVertical bool

	// Swap gesture: armed by the swap key, then two slot digits.
	swapArmed  bool
	swapSource *layout.Slot

	search *SearchModel
	editor *DayEditor

	md       *glamour.TermRenderer
	annCache string

	status string
}

// New creates the dashboard model over a loaded store.
func New(store *storage.Store) Model {
	m := Model{
		store:       store,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		rootScale:   layout.NewScaleTracker(1.0),
		panelScales: make(map[layout.Slot]*layout.ScaleTracker),
	}
	for _, slot := range layout.AllSlots() {
		m.panelScales[slot] = layout.NewScaleTracker(1.0)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.rebuildRenderer()
		m.refreshScales()
		m.refreshAnnouncements()
		return m, nil

	case AutoSafeMsg:
		if m.store.ApplyAutoSafe() {
			m.status = "day statuses backfilled"
		}
		return m, nil

	case StoreChangedMsg:
		m.store.Load()
		m.refreshAnnouncements()
		m.status = "store reloaded after external edit"
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Non-key messages (cursor blink, form ticks) still belong to the
	// active overlay.
	if m.editor != nil {
		return m, m.editor.Update(msg)
	}
	if m.search != nil {
		return m, m.search.Update(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal overlays swallow input first.
	if m.editor != nil {
		return m.handleEditorKey(msg)
	}
	if m.search != nil {
		return m.handleSearchKey(msg)
	}
	if m.swapArmed {
		return m.handleSwapKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.store.Flush()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Lock):
		locked := !m.store.Locked()
		m.store.SetLocked(locked)
		if locked {
			m.status = "layout locked"
		} else {
			m.status = "layout unlocked"
		}
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.store.ResetLayout()
		m.refreshScales()
		m.status = "layout reset to defaults"
		return m, nil

	case key.Matches(msg, m.keys.Swap):
		if m.store.Locked() {
			m.status = "layout is locked"
			return m, nil
		}
		m.swapArmed = true
		m.swapSource = nil
		m.status = "swap: pick source slot (1-7)"
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.search = NewSearch(m.store.Safety())
		return m, m.search.Init()

	case key.Matches(msg, m.keys.EditDay):
		m.editor = NewDayEditor()
		return m, m.editor.Init()

	case key.Matches(msg, m.keys.Copy):
		rec := m.store.Safety()
		text := rec.SloganTh + "\n" + rec.SloganEn
		if err := clipboard.WriteAll(text); err != nil {
			logrus.WithError(err).Debug("clipboard write failed")
			m.status = "clipboard unavailable"
		} else {
			m.status = "slogan copied"
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleSwapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) || key.Matches(msg, m.keys.Quit) {
		m.swapArmed = false
		m.swapSource = nil
		m.status = "swap cancelled"
		return m, nil
	}
	slot, ok := slotForDigit(msg.String())
	if !ok {
		return m, nil
	}
	if m.swapSource == nil {
		s := slot
		m.swapSource = &s
		m.status = fmt.Sprintf("swap: %s with? (1-7)", slot)
		return m, nil
	}
	src := *m.swapSource
	m.swapArmed = false
	m.swapSource = nil
	if !m.store.CanAcceptDrop(src, slot) {
		m.status = "swap rejected"
		return m, nil
	}
	m.store.SwapSlots(src, slot)
	m.status = fmt.Sprintf("swapped %s and %s", src, slot)
	return m, nil
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) && !m.editor.Completed() {
		m.editor = nil
		return m, nil
	}
	cmd := m.editor.Update(msg)
	if m.editor.Completed() {
		if err := m.editor.Apply(m.store); err != nil {
			m.status = err.Error()
		} else {
			m.status = "day status updated"
			m.refreshAnnouncements()
		}
		m.editor = nil
	}
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		m.search = nil
		return m, nil
	}
	cmd := m.search.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.store.Locked() {
			return m, nil
		}
		g := computeGeometry(m.width, m.height, m.store.Layout())
		d, ok := g.hitDivider(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		vec := m.store.Layout().Vector(d.group)
		m.resizing = layout.StartResize(d.group, vec, d.index, float64(d.extent))
		m.dragVertical = d.vertical
		if d.vertical {
			m.dragOrigin = msg.X
		} else {
			m.dragOrigin = msg.Y
		}

	case tea.MouseActionMotion:
		if m.resizing == nil {
			return m, nil
		}
		pos := msg.Y
		if m.dragVertical {
			pos = msg.X
		}
		vec := m.resizing.Update(float64(pos - m.dragOrigin))
		cfg := m.store.Layout()
		cfg.SetVector(m.resizing.Group(), vec)
		m.store.SetLayout(cfg)
		m.refreshScales()

	case tea.MouseActionRelease:
		// No commit step: the last computed vector is already stored.
		m.resizing = nil
	}
	return m, nil
}

// refreshScales recomputes the root and per-slot scale factors from the
// current geometry. The trackers apply hysteresis so sub-threshold changes
// do not cause visible jitter.
func (m *Model) refreshScales() {
	if !m.ready {
		return
	}
	m.rootScale.Observe(layout.RootScale(float64(m.width*cellPxW), float64(m.height*cellPxH)))
	g := computeGeometry(m.width, m.height, m.store.Layout())
	for _, r := range g.rects {
		m.panelScales[r.slot].Observe(layout.PanelScale(float64(r.w*cellPxW), float64(r.h*cellPxH)))
	}
}

func (m *Model) rebuildRenderer() {
	wrap := m.width / 3
	if wrap < 20 {
		wrap = 20
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(wrap-4),
	)
	if err != nil {
		logrus.WithError(err).Debug("glamour renderer unavailable")
		m.md = nil
		return
	}
	m.md = md
}

// refreshAnnouncements re-renders the announcements markdown. Cached because
// glamour rendering is far too slow for every frame.
func (m *Model) refreshAnnouncements() {
	rec := m.store.Safety()
	var raw string
	for _, a := range rec.Announcements {
		raw += "## " + a.Title + "\n"
		if a.Date != "" {
			raw += "*" + a.Date + "*\n"
		}
		raw += "\n" + a.Body + "\n\n"
	}
	if raw == "" {
		m.annCache = MutedStyle.Render("No announcements.")
		return
	}
	if m.md == nil {
		m.annCache = raw
		return
	}
	out, err := m.md.Render(raw)
	if err != nil {
		m.annCache = raw
		return
	}
	m.annCache = out
}

// slotForDigit maps keys 1-7 to slots in grid order.
func slotForDigit(key string) (layout.Slot, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '7' {
		return "", false
	}
	return layout.AllSlots()[key[0]-'1'], true
}
