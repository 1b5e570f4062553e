package storage

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"safeboard/pkg/layout"
	"safeboard/pkg/model"
	"safeboard/pkg/validate"
	"safeboard/pkg/watcher"
)

// Debounce windows per record group. Layout and slots change in rapid bursts
// during a drag; the safety group changes less often but carries more data.
const (
	LayoutDebounce = 250 * time.Millisecond
	SafetyDebounce = 450 * time.Millisecond
)

// State is the lifecycle of one persisted record.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateValid
	StateFallenBack
	StateDirty
	StateSaving
)

// String returns the state name used in logs.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateValid:
		return "valid"
	case StateFallenBack:
		return "fallen_back"
	case StateDirty:
		return "dirty"
	case StateSaving:
		return "saving"
	default:
		return "unknown"
	}
}

// Clock supplies wall-clock time; injectable for tests.
type Clock func() time.Time

// Options configures a Store.
type Options struct {
	// Year selects the safety record; zero means the clock's current year.
	Year int
	// CutoffHour for the auto-safe backfill; zero means the default.
	CutoffHour int
	// Now overrides the wall clock.
	Now Clock
	// LayoutWindow and SafetyWindow override the debounce windows.
	LayoutWindow time.Duration
	SafetyWindow time.Duration
}

// Store owns the three persisted records (layout, slots, safety) and their
// load/validate/save lifecycles. There is a single writer, the UI event
// loop, so the mutex only guards against the debounce timers' goroutines.
type Store struct {
	kv     KV
	year   int
	cutoff int
	now    Clock

	mu          sync.Mutex
	layout      layout.Config
	slots       *layout.Slots
	safety      *model.SafetyRecord
	layoutState State
	slotsState  State
	safetyState State

	layoutDeb *watcher.Debouncer
	slotsDeb  *watcher.Debouncer
	safetyDeb *watcher.Debouncer
}

// Open creates a Store over the given KV. Call Load before reading state.
func Open(kv KV, opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	year := opts.Year
	if year == 0 {
		year = now().Year()
	}
	cutoff := opts.CutoffHour
	if cutoff == 0 {
		cutoff = model.DefaultCutoffHour
	}
	lw := opts.LayoutWindow
	if lw == 0 {
		lw = LayoutDebounce
	}
	sw := opts.SafetyWindow
	if sw == 0 {
		sw = SafetyDebounce
	}

	s := &Store{
		kv:     kv,
		year:   year,
		cutoff: cutoff,
		now:    now,
		layout: layout.DefaultConfig(),
		slots:  layout.DefaultSlots(),
		safety: model.Default(year),
	}
	s.layoutDeb = watcher.NewDebouncer(lw, s.saveLayout)
	s.slotsDeb = watcher.NewDebouncer(lw, s.saveSlots)
	s.safetyDeb = watcher.NewDebouncer(sw, s.saveSafety)
	return s
}

// Year returns the active safety-record year.
func (s *Store) Year() int { return s.year }

// CutoffHour returns the auto-safe cutoff hour.
func (s *Store) CutoffHour() int { return s.cutoff }

// Load reads and validates all three records, falling back to compiled-in
// defaults on any read or shape failure: never a partial apply, never an
// error to the caller. The auto-safe backfill is applied to the safety
// record before it becomes visible.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLayoutLocked()
	s.loadSlotsLocked()
	s.loadSafetyLocked()
}

func (s *Store) loadLayoutLocked() {
	s.layoutState = StateLoading
	raw, ok := s.kv.ReadKey(LayoutKey)
	if !ok {
		s.layout = layout.DefaultConfig()
		s.layoutState = StateFallenBack
		return
	}
	var rec layout.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		logrus.WithError(err).Warn("layout record unreadable; using defaults")
		s.layout = layout.DefaultConfig()
		s.layoutState = StateFallenBack
		return
	}
	if err := validate.Struct(rec); err != nil {
		logrus.WithError(err).Warn("layout record malformed; using defaults")
		s.layout = layout.DefaultConfig()
		s.layoutState = StateFallenBack
		return
	}
	cfg, ok := layout.FromRecord(rec)
	if !ok {
		logrus.Warn("layout record has a degenerate vector; using defaults")
		s.layout = layout.DefaultConfig()
		s.layoutState = StateFallenBack
		return
	}
	s.layout = cfg
	s.layoutState = StateValid
}

func (s *Store) loadSlotsLocked() {
	s.slotsState = StateLoading
	raw, ok := s.kv.ReadKey(SlotsKey)
	if !ok {
		s.slots = layout.DefaultSlots()
		s.slotsState = StateFallenBack
		return
	}
	var rec layout.SlotRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		logrus.WithError(err).Warn("slots record unreadable; using defaults")
		s.slots = layout.DefaultSlots()
		s.slotsState = StateFallenBack
		return
	}
	if err := validate.Struct(rec); err != nil {
		logrus.WithError(err).Warn("slots record malformed; using defaults")
		s.slots = layout.DefaultSlots()
		s.slotsState = StateFallenBack
		return
	}
	locked := s.slots.Locked()
	s.slots = layout.SlotsFromRecord(rec)
	s.slots.SetLocked(locked)
	s.slotsState = StateValid
}

func (s *Store) loadSafetyLocked() {
	s.safetyState = StateLoading
	rec := s.readSafety()
	if rec == nil {
		rec = model.Default(s.year)
		s.safetyState = StateFallenBack
	} else {
		s.safetyState = StateValid
	}
	// Backfill before the record becomes visible. A change here is a real
	// mutation that must be persisted.
	filled := model.ApplyAutoSafe(rec, s.now(), s.cutoff)
	s.safety = filled
	if filled != rec {
		s.markSafetyDirtyLocked()
	}
}

func (s *Store) readSafety() *model.SafetyRecord {
	raw, ok := s.kv.ReadKey(SafetyKey(s.year))
	if !ok {
		return nil
	}
	var rec model.SafetyRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		logrus.WithError(err).Warn("safety record unreadable; using defaults")
		return nil
	}
	if err := validate.Struct(rec); err != nil {
		logrus.WithError(err).Warn("safety record malformed; using defaults")
		return nil
	}
	if err := rec.Validate(s.year); err != nil {
		logrus.WithError(err).Warn("safety calendar malformed; using defaults")
		return nil
	}
	return &rec
}

// Layout returns a copy of the current layout configuration.
func (s *Store) Layout() layout.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.Clone()
}

// SetLayout replaces the layout configuration and schedules a debounced
// write.
func (s *Store) SetLayout(cfg layout.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layout = cfg.Clone()
	s.layoutState = StateDirty
	s.layoutDeb.Trigger()
}

// Slots returns a copy of the current slot assignment.
func (s *Store) Slots() *layout.Slots {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots.Clone()
}

// PanelAt returns the panel currently assigned to slot.
func (s *Store) PanelAt(slot layout.Slot) layout.Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots.Panel(slot)
}

// SwapSlots exchanges the panels at two slots and schedules a debounced
// write. Rejected swaps (same slot, locked layout) change nothing and
// schedule nothing.
func (s *Store) SwapSlots(a, b layout.Slot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.slots.Swap(a, b) {
		return false
	}
	s.slotsState = StateDirty
	s.slotsDeb.Trigger()
	return true
}

// CanAcceptDrop reports whether target may accept a drop from source.
func (s *Store) CanAcceptDrop(source, target layout.Slot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots.CanAcceptDrop(source, target)
}

// Locked reports the layout lock state.
func (s *Store) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots.Locked()
}

// SetLocked toggles the layout lock. The lock itself is not persisted.
func (s *Store) SetLocked(locked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots.SetLocked(locked)
}

// Safety returns the current safety record. Callers must treat it as
// read-only and mutate through UpdateSafety.
func (s *Store) Safety() *model.SafetyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.safety
}

// UpdateSafety applies fn to a clone of the safety record, adopts the
// result, and schedules a debounced write.
func (s *Store) UpdateSafety(fn func(*model.SafetyRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.safety.Clone()
	fn(next)
	s.safety = next
	s.markSafetyDirtyLocked()
}

// ApplyAutoSafe runs the backfill transition against the current clock and
// reports whether anything changed. A no-op schedules no write.
func (s *Store) ApplyAutoSafe() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := model.ApplyAutoSafe(s.safety, s.now(), s.cutoff)
	if next == s.safety {
		return false
	}
	s.safety = next
	s.markSafetyDirtyLocked()
	return true
}

func (s *Store) markSafetyDirtyLocked() {
	s.safetyState = StateDirty
	s.safetyDeb.Trigger()
}

// ResetLayout restores the default layout and slot assignment, cancels their
// pending writes, and clears their persisted keys. The safety record is
// untouched.
func (s *Store) ResetLayout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layoutDeb.Cancel()
	s.slotsDeb.Cancel()
	locked := s.slots.Locked()
	s.layout = layout.DefaultConfig()
	s.slots = layout.DefaultSlots()
	s.slots.SetLocked(locked)
	s.layoutState = StateValid
	s.slotsState = StateValid
	if err := s.kv.DeleteKey(LayoutKey); err != nil {
		logrus.WithError(err).Warn("failed to clear layout key")
	}
	if err := s.kv.DeleteKey(SlotsKey); err != nil {
		logrus.WithError(err).Warn("failed to clear slots key")
	}
}

// LayoutState returns the layout record's lifecycle state.
func (s *Store) LayoutState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layoutState
}

// SlotsState returns the slots record's lifecycle state.
func (s *Store) SlotsState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slotsState
}

// SafetyState returns the safety record's lifecycle state.
func (s *Store) SafetyState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.safetyState
}

// Flush forces any pending debounced writes to run now. Call before Close at
// teardown so the last mutations are not lost.
func (s *Store) Flush() {
	s.layoutDeb.Flush()
	s.slotsDeb.Flush()
	s.safetyDeb.Flush()
}

// Close cancels all pending debounce timers so no write fires after
// teardown.
func (s *Store) Close() {
	s.layoutDeb.Cancel()
	s.slotsDeb.Cancel()
	s.safetyDeb.Cancel()
}

func (s *Store) saveLayout() {
	s.mu.Lock()
	s.layoutState = StateSaving
	rec := s.layout.ToRecord()
	s.mu.Unlock()

	raw, err := json.Marshal(rec)
	if err != nil {
		logrus.WithError(err).Error("marshal layout record")
		return
	}
	if err := s.kv.WriteKey(LayoutKey, string(raw)); err != nil {
		logrus.WithError(err).Error("write layout record")
	}

	s.mu.Lock()
	if s.layoutState == StateSaving {
		s.layoutState = StateValid
	}
	s.mu.Unlock()
}

func (s *Store) saveSlots() {
	s.mu.Lock()
	s.slotsState = StateSaving
	rec := s.slots.ToRecord()
	s.mu.Unlock()

	raw, err := json.Marshal(rec)
	if err != nil {
		logrus.WithError(err).Error("marshal slots record")
		return
	}
	if err := s.kv.WriteKey(SlotsKey, string(raw)); err != nil {
		logrus.WithError(err).Error("write slots record")
	}

	s.mu.Lock()
	if s.slotsState == StateSaving {
		s.slotsState = StateValid
	}
	s.mu.Unlock()
}

func (s *Store) saveSafety() {
	s.mu.Lock()
	s.safetyState = StateSaving
	rec := s.safety
	s.mu.Unlock()

	raw, err := json.Marshal(rec)
	if err != nil {
		logrus.WithError(err).Error("marshal safety record")
		return
	}
	if err := s.kv.WriteKey(SafetyKey(s.year), string(raw)); err != nil {
		logrus.WithError(err).Error("write safety record")
	}

	s.mu.Lock()
	if s.safetyState == StateSaving {
		s.safetyState = StateValid
	}
	s.mu.Unlock()
}
