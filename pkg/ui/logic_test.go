package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"safeboard/pkg/layout"
	"safeboard/pkg/storage"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	s := storage.Open(storage.NewMemStore(), storage.Options{
		Year:         2026,
		Now:          func() time.Time { return time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC) },
		LayoutWindow: 20 * time.Millisecond,
		SafetyWindow: 20 * time.Millisecond,
	})
	t.Cleanup(func() { s.Close() })
	s.Load()

	m := New(s)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 240, Height: 67})
	return next.(Model)
}

func keyPress(m Model, k string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return next.(Model)
}

func TestApportionSumsExactly(t *testing.T) {
	for _, total := range []int{7, 80, 81, 239, 240} {
		v := layout.Vector{27, 46, 27}
		parts := apportion(total, v)
		sum := 0
		for _, p := range parts {
			sum += p
		}
		if sum != total {
			t.Errorf("total %d: parts %v sum to %d", total, parts, sum)
		}
	}
}

func TestApportionEvenSplit(t *testing.T) {
	parts := apportion(90, layout.Vector{100.0 / 3, 100.0 / 3, 100.0 / 3})
	for i, p := range parts {
		if p != 30 {
			t.Errorf("part %d = %d, want 30", i, p)
		}
	}
}

func TestGeometryCoversBoard(t *testing.T) {
	g := computeGeometry(240, 67, layout.DefaultConfig())
	if len(g.rects) != 7 {
		t.Fatalf("got %d rects, want 7", len(g.rects))
	}
	area := 0
	for _, r := range g.rects {
		area += r.w * r.h
	}
	want := 240 * (67 - footerLines)
	if area != want {
		t.Errorf("rect area %d, want %d", area, want)
	}
}

func TestHitDividerColumnBoundary(t *testing.T) {
	g := computeGeometry(240, 67, layout.DefaultConfig())
	x := g.colEdges[0]
	d, ok := g.hitDivider(x, 10)
	if !ok {
		t.Fatal("expected a divider at the first column edge")
	}
	if d.group != layout.GroupCols || d.index != 0 || !d.vertical {
		t.Errorf("got divider %+v", d)
	}
	if d.extent != 240 {
		t.Errorf("extent = %d, want 240", d.extent)
	}
}

func TestHitDividerColumnWinsOverRow(t *testing.T) {
	g := computeGeometry(240, 67, layout.DefaultConfig())
	x := g.colEdges[0]
	y := g.rowEdges[0][0]
	d, ok := g.hitDivider(x, y)
	if !ok || !d.vertical {
		t.Errorf("expected the column divider to win at the crossing, got %+v ok=%v", d, ok)
	}
}

func TestHitDividerMissesInterior(t *testing.T) {
	g := computeGeometry(240, 67, layout.DefaultConfig())
	if _, ok := g.hitDivider(g.colEdges[0]+10, 5); ok {
		t.Error("interior point should not grab a divider")
	}
}

func TestHitDividerIgnoresFooter(t *testing.T) {
	g := computeGeometry(240, 67, layout.DefaultConfig())
	if _, ok := g.hitDivider(g.colEdges[0], g.height); ok {
		t.Error("footer row should not grab a divider")
	}
}

func TestSlotForDigit(t *testing.T) {
	if s, ok := slotForDigit("1"); !ok || s != layout.SlotLeftTop {
		t.Errorf("digit 1 = %v, %v", s, ok)
	}
	if s, ok := slotForDigit("7"); !ok || s != layout.SlotRightBottom {
		t.Errorf("digit 7 = %v, %v", s, ok)
	}
	for _, bad := range []string{"0", "8", "a", "12"} {
		if _, ok := slotForDigit(bad); ok {
			t.Errorf("%q should not map to a slot", bad)
		}
	}
}

func TestSwapKeyFlow(t *testing.T) {
	m := newTestModel(t)
	before := m.store.PanelAt(layout.SlotLeftTop)
	target := m.store.PanelAt(layout.SlotRightBottom)

	m = keyPress(m, "s")
	if !m.swapArmed {
		t.Fatal("swap key should arm the gesture")
	}
	m = keyPress(m, "1")
	if m.swapSource == nil || *m.swapSource != layout.SlotLeftTop {
		t.Fatalf("source = %v", m.swapSource)
	}
	m = keyPress(m, "7")
	if m.swapArmed {
		t.Error("gesture should disarm after the second digit")
	}
	if got := m.store.PanelAt(layout.SlotLeftTop); got != target {
		t.Errorf("leftTop now holds %q, want %q", got, target)
	}
	if got := m.store.PanelAt(layout.SlotRightBottom); got != before {
		t.Errorf("rightBottom now holds %q, want %q", got, before)
	}
}

func TestSwapSameSlotRejected(t *testing.T) {
	m := newTestModel(t)
	before := m.store.PanelAt(layout.SlotCenterTop)

	m = keyPress(m, "s")
	m = keyPress(m, "3")
	m = keyPress(m, "3")
	if got := m.store.PanelAt(layout.SlotCenterTop); got != before {
		t.Errorf("self swap changed the assignment to %q", got)
	}
}

func TestSwapBlockedWhenLocked(t *testing.T) {
	m := newTestModel(t)
	m.store.SetLocked(true)
	m = keyPress(m, "s")
	if m.swapArmed {
		t.Error("swap should not arm while the layout is locked")
	}
}

func TestLockToggleKey(t *testing.T) {
	m := newTestModel(t)
	m = keyPress(m, "L")
	if !m.store.Locked() {
		t.Fatal("L should lock the layout")
	}
	m = keyPress(m, "L")
	if m.store.Locked() {
		t.Error("L again should unlock")
	}
}

func TestDragResizeUpdatesLayout(t *testing.T) {
	m := newTestModel(t)
	g := computeGeometry(240, 67, m.store.Layout())
	x := g.colEdges[0]

	next, _ := m.Update(tea.MouseMsg{X: x, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(Model)
	if m.resizing == nil {
		t.Fatal("press on the column edge should start a resize")
	}

	next, _ = m.Update(tea.MouseMsg{X: x + 24, Y: 10, Action: tea.MouseActionMotion})
	m = next.(Model)
	cols := m.store.Layout().Cols
	if cols[0] <= 27 {
		t.Errorf("dragging right should grow the first column, got %v", cols)
	}
	if sum := cols.Sum(); sum < 99.9 || sum > 100.1 {
		t.Errorf("columns must stay normalized, sum %v", sum)
	}

	next, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = next.(Model)
	if m.resizing != nil {
		t.Error("release should end the gesture")
	}
}

func TestDragIgnoredWhenLocked(t *testing.T) {
	m := newTestModel(t)
	m.store.SetLocked(true)
	g := computeGeometry(240, 67, m.store.Layout())

	next, _ := m.Update(tea.MouseMsg{X: g.colEdges[0], Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(Model)
	if m.resizing != nil {
		t.Error("locked layout should ignore divider grabs")
	}
}

func TestScaleHysteresisAcrossResize(t *testing.T) {
	m := newTestModel(t)
	before := m.rootScale.Current()

	next, _ := m.Update(tea.WindowSizeMsg{Width: 239, Height: 67})
	m = next.(Model)
	if m.rootScale.Current() != before {
		t.Error("a one-cell resize should not move the root scale")
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 34})
	m = next.(Model)
	if m.rootScale.Current() >= before {
		t.Error("halving the terminal should shrink the root scale")
	}
}

func TestClampLines(t *testing.T) {
	got := clampLines("aaaa\nbbbb\ncccc", 3, 2)
	want := "aa…\nbb…"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestViewRendersWithoutPanic(t *testing.T) {
	m := newTestModel(t)
	if out := m.View(); out == "" {
		t.Error("view should render the board")
	}
}
