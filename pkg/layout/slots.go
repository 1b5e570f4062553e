package layout

// Slot identifies one of the seven fixed grid positions.
type Slot string

const (
	SlotLeftTop      Slot = "leftTop"
	SlotLeftBottom   Slot = "leftBottom"
	SlotCenterTop    Slot = "centerTop"
	SlotCenterMid    Slot = "centerMid"
	SlotCenterBottom Slot = "centerBottom"
	SlotRightTop     Slot = "rightTop"
	SlotRightBottom  Slot = "rightBottom"
)

// AllSlots returns the slots in grid order (left column top to bottom, then
// center, then right).
func AllSlots() []Slot {
	return []Slot{
		SlotLeftTop, SlotLeftBottom,
		SlotCenterTop, SlotCenterMid, SlotCenterBottom,
		SlotRightTop, SlotRightBottom,
	}
}

// IsValid returns true if the slot is a recognized value.
func (s Slot) IsValid() bool {
	switch s {
	case SlotLeftTop, SlotLeftBottom, SlotCenterTop, SlotCenterMid,
		SlotCenterBottom, SlotRightTop, SlotRightBottom:
		return true
	}
	return false
}

// Panel identifies one of the seven dashboard panels.
type Panel string

const (
	PanelSlogan        Panel = "slogan"
	PanelSafetyData    Panel = "safetyData"
	PanelAnnouncements Panel = "announcements"
	PanelCalendar      Panel = "calendar"
	PanelStreak        Panel = "streak"
	PanelPolicy        Panel = "policy"
	PanelPoster        Panel = "poster"
)

// IsValid returns true if the panel is a recognized value.
func (p Panel) IsValid() bool {
	switch p {
	case PanelSlogan, PanelSafetyData, PanelAnnouncements, PanelCalendar,
		PanelStreak, PanelPolicy, PanelPoster:
		return true
	}
	return false
}

// Slots is the total mapping from slots to panels. The mapping is a bijection
// by construction: Swap is the only mutator, and a pure exchange can neither
// duplicate nor drop a panel.
type Slots struct {
	assign map[Slot]Panel
	locked bool
}

// DefaultSlots returns the compiled-in slot assignment.
func DefaultSlots() *Slots {
	return &Slots{
		assign: map[Slot]Panel{
			SlotLeftTop:      PanelSlogan,
			SlotLeftBottom:   PanelPoster,
			SlotCenterTop:    PanelSafetyData,
			SlotCenterMid:    PanelCalendar,
			SlotCenterBottom: PanelStreak,
			SlotRightTop:     PanelAnnouncements,
			SlotRightBottom:  PanelPolicy,
		},
	}
}

// Panel returns the panel currently assigned to a slot.
func (s *Slots) Panel(slot Slot) Panel {
	return s.assign[slot]
}

// Locked reports whether the layout is locked. While locked, drag sources are
// disabled and Swap rejects every request.
func (s *Slots) Locked() bool { return s.locked }

// SetLocked toggles the layout lock.
func (s *Slots) SetLocked(locked bool) { s.locked = locked }

// CanAcceptDrop reports whether target may accept a drop originating at
// source: true iff the layout is unlocked and the slots differ.
func (s *Slots) CanAcceptDrop(source, target Slot) bool {
	return !s.locked && source != target
}

// Swap exchanges the panels at the two slots and reports whether the
// assignment changed. A same-slot swap or a swap while locked is a silent
// no-op, not an error.
func (s *Slots) Swap(a, b Slot) bool {
	if !s.CanAcceptDrop(a, b) {
		return false
	}
	s.assign[a], s.assign[b] = s.assign[b], s.assign[a]
	return true
}

// Clone returns an independent copy (lock state included).
func (s *Slots) Clone() *Slots {
	c := &Slots{assign: make(map[Slot]Panel, len(s.assign)), locked: s.locked}
	for k, v := range s.assign {
		c.assign[k] = v
	}
	return c
}

// SlotRecord is the persisted JSON shape of a slot assignment. Validation
// checks that every slot key is present and every value is a known panel; it
// deliberately does not re-check bijectivity, so a hand-edited payload with a
// duplicated panel is accepted as-is.
type SlotRecord struct {
	LeftTop      string `json:"leftTop" validate:"required,oneof=slogan safetyData announcements calendar streak policy poster"`
	LeftBottom   string `json:"leftBottom" validate:"required,oneof=slogan safetyData announcements calendar streak policy poster"`
	CenterTop    string `json:"centerTop" validate:"required,oneof=slogan safetyData announcements calendar streak policy poster"`
	CenterMid    string `json:"centerMid" validate:"required,oneof=slogan safetyData announcements calendar streak policy poster"`
	CenterBottom string `json:"centerBottom" validate:"required,oneof=slogan safetyData announcements calendar streak policy poster"`
	RightTop     string `json:"rightTop" validate:"required,oneof=slogan safetyData announcements calendar streak policy poster"`
	RightBottom  string `json:"rightBottom" validate:"required,oneof=slogan safetyData announcements calendar streak policy poster"`
}

// ToRecord converts the assignment to its persisted shape.
func (s *Slots) ToRecord() SlotRecord {
	return SlotRecord{
		LeftTop:      string(s.assign[SlotLeftTop]),
		LeftBottom:   string(s.assign[SlotLeftBottom]),
		CenterTop:    string(s.assign[SlotCenterTop]),
		CenterMid:    string(s.assign[SlotCenterMid]),
		CenterBottom: string(s.assign[SlotCenterBottom]),
		RightTop:     string(s.assign[SlotRightTop]),
		RightBottom:  string(s.assign[SlotRightBottom]),
	}
}

// SlotsFromRecord builds a Slots from a validated persisted record.
func SlotsFromRecord(r SlotRecord) *Slots {
	return &Slots{
		assign: map[Slot]Panel{
			SlotLeftTop:      Panel(r.LeftTop),
			SlotLeftBottom:   Panel(r.LeftBottom),
			SlotCenterTop:    Panel(r.CenterTop),
			SlotCenterMid:    Panel(r.CenterMid),
			SlotCenterBottom: Panel(r.CenterBottom),
			SlotRightTop:     Panel(r.RightTop),
			SlotRightBottom:  Panel(r.RightBottom),
		},
	}
}
