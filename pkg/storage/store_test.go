package storage

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"safeboard/pkg/layout"
	"safeboard/pkg/model"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// A clock early on Jan 1 so the auto-safe backfill has nothing to do and
// tests see pristine loaded state.
var quietClock = fixedClock(time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC))

func newStore(kv KV) *Store {
	return Open(kv, Options{
		Year:         2026,
		Now:          quietClock,
		LayoutWindow: 20 * time.Millisecond,
		SafetyWindow: 20 * time.Millisecond,
	})
}

func waitIdle() { time.Sleep(80 * time.Millisecond) }

func TestLoad_MissingKeysFallBackToDefaults(t *testing.T) {
	s := newStore(NewMemStore())
	defer s.Close()
	s.Load()

	if s.LayoutState() != StateFallenBack {
		t.Errorf("layout state = %v, want fallen_back", s.LayoutState())
	}
	if s.SlotsState() != StateFallenBack {
		t.Errorf("slots state = %v, want fallen_back", s.SlotsState())
	}
	if s.SafetyState() != StateFallenBack {
		t.Errorf("safety state = %v, want fallen_back", s.SafetyState())
	}

	def := layout.DefaultConfig()
	got := s.Layout()
	for i := range def.Cols {
		if math.Abs(got.Cols[i]-def.Cols[i]) > 1e-9 {
			t.Errorf("cols[%d] = %v, want default %v", i, got.Cols[i], def.Cols[i])
		}
	}
	if s.PanelAt(layout.SlotLeftTop) != layout.PanelSlogan {
		t.Errorf("leftTop = %s, want slogan", s.PanelAt(layout.SlotLeftTop))
	}
}

func TestLoad_MalformedPayloadsYieldExactDefaults(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{"not json", "{{{"},
		{"wrong shape", `{"cols": "wide"}`},
		{"missing vector", `{"cols":[25,45,30],"leftRows":[58,42],"centerRows":[34,33,33]}`},
		{"wrong arity", `{"cols":[50,50],"leftRows":[58,42],"centerRows":[34,33,33],"rightRows":[55,45]}`},
		{"zero sum", `{"cols":[0,0,0],"leftRows":[58,42],"centerRows":[34,33,33],"rightRows":[55,45]}`},
	}
	for _, tc := range cases {
		kv := NewMemStore()
		kv.WriteKey(LayoutKey, tc.value)
		s := newStore(kv)
		s.Load()

		if s.LayoutState() != StateFallenBack {
			t.Errorf("%s: state = %v, want fallen_back", tc.name, s.LayoutState())
		}
		def := layout.DefaultConfig()
		got := s.Layout()
		for i := range def.Cols {
			if got.Cols[i] != def.Cols[i] {
				t.Errorf("%s: partial merge detected, cols = %v", tc.name, got.Cols)
			}
		}
		s.Close()
	}
}

func TestLoad_ValidLayoutIsRenormalized(t *testing.T) {
	kv := NewMemStore()
	// Sums to 200: accepted, renormalized to [25 45 30].
	kv.WriteKey(LayoutKey, `{"cols":[50,90,60],"leftRows":[58,42],"centerRows":[34,33,33],"rightRows":[55,45]}`)
	s := newStore(kv)
	defer s.Close()
	s.Load()

	if s.LayoutState() != StateValid {
		t.Fatalf("layout state = %v, want valid", s.LayoutState())
	}
	got := s.Layout()
	want := []float64{25, 45, 30}
	for i := range want {
		if math.Abs(got.Cols[i]-want[i]) > 1e-9 {
			t.Errorf("cols[%d] = %v, want %v", i, got.Cols[i], want[i])
		}
	}
}

func TestLoad_NonBijectiveSlotsAcceptedAsIs(t *testing.T) {
	// Hand-edited payload showing the slogan twice. Documented permissive
	// behavior: every key present and every value known, so it loads.
	kv := NewMemStore()
	kv.WriteKey(SlotsKey, `{
		"leftTop":"slogan","leftBottom":"slogan","centerTop":"safetyData",
		"centerMid":"calendar","centerBottom":"streak",
		"rightTop":"announcements","rightBottom":"policy"}`)
	s := newStore(kv)
	defer s.Close()
	s.Load()

	if s.SlotsState() != StateValid {
		t.Fatalf("slots state = %v, want valid", s.SlotsState())
	}
	if s.PanelAt(layout.SlotLeftBottom) != layout.PanelSlogan {
		t.Errorf("leftBottom = %s, want the duplicated slogan", s.PanelAt(layout.SlotLeftBottom))
	}
}

func TestLoad_UnknownPanelFallsBack(t *testing.T) {
	kv := NewMemStore()
	kv.WriteKey(SlotsKey, `{
		"leftTop":"weather","leftBottom":"poster","centerTop":"safetyData",
		"centerMid":"calendar","centerBottom":"streak",
		"rightTop":"announcements","rightBottom":"policy"}`)
	s := newStore(kv)
	defer s.Close()
	s.Load()

	if s.SlotsState() != StateFallenBack {
		t.Errorf("slots state = %v, want fallen_back", s.SlotsState())
	}
	if s.PanelAt(layout.SlotLeftTop) != layout.PanelSlogan {
		t.Errorf("leftTop = %s, want default slogan", s.PanelAt(layout.SlotLeftTop))
	}
}

func TestLoad_SafetyCalendarValidation(t *testing.T) {
	bad := model.Default(2026)
	bad.MonthlyData[3].Month = 7 // tag mismatch
	raw, _ := json.Marshal(bad)

	kv := NewMemStore()
	kv.WriteKey(SafetyKey(2026), string(raw))
	s := newStore(kv)
	defer s.Close()
	s.Load()

	if s.SafetyState() != StateFallenBack {
		t.Errorf("safety state = %v, want fallen_back", s.SafetyState())
	}
}

func TestDebounce_CoalescesRapidMutations(t *testing.T) {
	kv := NewMemStore()
	s := newStore(kv)
	defer s.Close()
	s.Load()

	// A continuous drag: many layout replacements inside the window.
	for i := 0; i < 8; i++ {
		cfg := s.Layout()
		cfg.Cols = layout.Vector{25 + float64(i), 45 - float64(i), 30}
		s.SetLayout(cfg)
	}
	waitIdle()

	if s.LayoutState() != StateValid {
		t.Errorf("layout state = %v after save, want valid", s.LayoutState())
	}
	raw, ok := kv.ReadKey(LayoutKey)
	if !ok {
		t.Fatal("layout key not written")
	}
	var rec layout.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("persisted layout unreadable: %v", err)
	}
	// Last writer wins: the final vector of the burst is on disk.
	if math.Abs(rec.Cols[0]-32) > 1e-9 {
		t.Errorf("persisted cols[0] = %v, want 32 (last mutation)", rec.Cols[0])
	}
}

func TestSwap_PersistsAndRejectionDoesNot(t *testing.T) {
	kv := NewMemStore()
	s := newStore(kv)
	defer s.Close()
	s.Load()

	if s.SwapSlots(layout.SlotLeftTop, layout.SlotLeftTop) {
		t.Error("same-slot swap reported a change")
	}
	s.SetLocked(true)
	if s.SwapSlots(layout.SlotLeftTop, layout.SlotRightTop) {
		t.Error("swap succeeded while locked")
	}
	waitIdle()
	if _, ok := kv.ReadKey(SlotsKey); ok {
		t.Error("rejected swaps must not schedule a write")
	}

	s.SetLocked(false)
	if !s.SwapSlots(layout.SlotLeftTop, layout.SlotLeftBottom) {
		t.Fatal("swap failed")
	}
	waitIdle()
	raw, ok := kv.ReadKey(SlotsKey)
	if !ok {
		t.Fatal("slots key not written after swap")
	}
	var rec layout.SlotRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("persisted slots unreadable: %v", err)
	}
	if rec.LeftTop != "poster" || rec.LeftBottom != "slogan" {
		t.Errorf("persisted swap wrong: leftTop=%s leftBottom=%s", rec.LeftTop, rec.LeftBottom)
	}
}

func TestResetLayout_ClearsLayoutAndSlotsKeysOnly(t *testing.T) {
	kv := NewMemStore()
	s := newStore(kv)
	defer s.Close()
	s.Load()

	cfg := s.Layout()
	cfg.Cols = layout.Vector{40, 40, 20}
	s.SetLayout(cfg)
	s.SwapSlots(layout.SlotLeftTop, layout.SlotRightTop)
	s.UpdateSafety(func(r *model.SafetyRecord) { r.SloganEn = "Zero Harm" })
	s.Flush()

	s.ResetLayout()

	if _, ok := kv.ReadKey(LayoutKey); ok {
		t.Error("layout key survived reset")
	}
	if _, ok := kv.ReadKey(SlotsKey); ok {
		t.Error("slots key survived reset")
	}
	if _, ok := kv.ReadKey(SafetyKey(2026)); !ok {
		t.Error("safety key must survive a layout reset")
	}
	if s.PanelAt(layout.SlotLeftTop) != layout.PanelSlogan {
		t.Errorf("leftTop = %s after reset, want slogan", s.PanelAt(layout.SlotLeftTop))
	}
	got := s.Layout()
	def := layout.DefaultConfig()
	if got.Cols[0] != def.Cols[0] {
		t.Errorf("cols[0] = %v after reset, want default %v", got.Cols[0], def.Cols[0])
	}
}

func TestAutoSafeOnLoad_BackfillsAndPersists(t *testing.T) {
	kv := NewMemStore()
	s := Open(kv, Options{
		Year:         2026,
		Now:          fixedClock(time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)),
		LayoutWindow: 20 * time.Millisecond,
		SafetyWindow: 20 * time.Millisecond,
	})
	defer s.Close()
	s.Load()

	rec := s.Safety()
	if st := rec.MonthlyData[2].Days[13].Status; st == nil || *st != model.StatusSafe {
		t.Errorf("Mar 14 = %v after load, want safe", st)
	}
	if st := rec.MonthlyData[2].Days[14].Status; st != nil {
		t.Errorf("Mar 15 = %v before cutoff, want nil", *st)
	}
	waitIdle()
	if _, ok := kv.ReadKey(SafetyKey(2026)); !ok {
		t.Error("backfill on load must be persisted")
	}
}

func TestApplyAutoSafe_NoOpSchedulesNoWrite(t *testing.T) {
	kv := NewMemStore()
	s := newStore(kv)
	defer s.Close()
	s.Load()
	waitIdle() // drain any load-time persistence

	before, _ := kv.ReadKey(SafetyKey(2026))
	if s.ApplyAutoSafe() {
		t.Error("transition reported a change with nothing to backfill")
	}
	waitIdle()
	after, _ := kv.ReadKey(SafetyKey(2026))
	if before != after {
		t.Error("no-op transition caused a write")
	}
}

func TestClose_CancelsPendingWrites(t *testing.T) {
	kv := NewMemStore()
	s := newStore(kv)
	s.Load()

	cfg := s.Layout()
	cfg.Cols = layout.Vector{40, 40, 20}
	s.SetLayout(cfg)
	s.Close()
	waitIdle()

	if _, ok := kv.ReadKey(LayoutKey); ok {
		t.Error("write fired after Close")
	}
}

func TestFlush_WritesPendingState(t *testing.T) {
	kv := NewMemStore()
	s := newStore(kv)
	defer s.Close()
	s.Load()

	s.UpdateSafety(func(r *model.SafetyRecord) { r.SloganEn = "Zero Harm" })
	s.Flush()

	raw, ok := kv.ReadKey(SafetyKey(2026))
	if !ok {
		t.Fatal("safety key not written by Flush")
	}
	var rec model.SafetyRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("persisted safety unreadable: %v", err)
	}
	if rec.SloganEn != "Zero Harm" {
		t.Errorf("persisted sloganEn = %q", rec.SloganEn)
	}
}

func TestSafetyRoundTrip(t *testing.T) {
	kv := NewMemStore()
	s := newStore(kv)
	s.Load()
	s.UpdateSafety(func(r *model.SafetyRecord) {
		acc := model.StatusAccident
		r.MonthlyData[0].Days[4].Status = &acc
		r.Announcements = append(r.Announcements, model.Announcement{
			Title: "Drill", Body: "Fire drill **Friday**.", Date: "2026-01-05",
		})
	})
	s.Flush()
	s.Close()

	s2 := newStore(kv)
	defer s2.Close()
	s2.Load()
	if s2.SafetyState() != StateValid {
		t.Fatalf("safety state = %v on reload, want valid", s2.SafetyState())
	}
	rec := s2.Safety()
	if st := rec.MonthlyData[0].Days[4].Status; st == nil || *st != model.StatusAccident {
		t.Errorf("Jan 5 = %v on reload, want accident", st)
	}
	if len(rec.Announcements) != 1 || rec.Announcements[0].Title != "Drill" {
		t.Errorf("announcements did not round-trip: %+v", rec.Announcements)
	}
}
