// Package model defines the safety-record dataset: a per-year calendar of day
// statuses plus the auxiliary records shown on the board (announcements,
// metric cards, trend rows, policy, poster, slogans).
package model

import (
	"fmt"
	"time"
)

// DayStatus is the recorded outcome of one calendar day.
type DayStatus string

const (
	StatusSafe     DayStatus = "safe"
	StatusNearMiss DayStatus = "near_miss"
	StatusAccident DayStatus = "accident"
)

// IsValid returns true if the status is a recognized value.
func (s DayStatus) IsValid() bool {
	switch s {
	case StatusSafe, StatusNearMiss, StatusAccident:
		return true
	}
	return false
}

// Day is one calendar day. A nil Status means the day has not been decided
// yet and serializes as JSON null.
type Day struct {
	Day    int        `json:"day"`
	Status *DayStatus `json:"status"`
}

// Month is one month of the yearly calendar.
type Month struct {
	Month int   `json:"month"`
	Year  int   `json:"year"`
	Days  []Day `json:"days"`
}

// Announcement is one entry of the announcements panel. Body is markdown.
type Announcement struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Date  string `json:"date,omitempty"`
}

// Metric is one card of the safety-data panel.
type Metric struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// TrendRow is one point of the trend chart, typically one per month.
type TrendRow struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// SafetyRecord is the per-year persisted document backing the whole board.
type SafetyRecord struct {
	MonthlyData   []Month        `json:"monthlyData" validate:"required,len=12"`
	Announcements []Announcement `json:"announcements"`
	PolicyPoster  string         `json:"policyPoster"`
	PosterZoom    float64        `json:"posterZoom"`
	PolicyTitle   string         `json:"policyTitle"`
	PolicyLines   []string       `json:"policyLines"`
	SloganTh      string         `json:"sloganTh"`
	SloganEn      string         `json:"sloganEn"`
	Metrics       []Metric       `json:"metrics"`
	TrendRows     []TrendRow     `json:"trendRows"`
}

// DaysIn returns the number of days in a month of a given year.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var monthLabels = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// Default returns the compiled-in record for a year: a full calendar of
// undecided days and placeholder board content.
func Default(year int) *SafetyRecord {
	months := make([]Month, 12)
	for i := range months {
		n := DaysIn(year, i+1)
		days := make([]Day, n)
		for d := range days {
			days[d] = Day{Day: d + 1}
		}
		months[i] = Month{Month: i + 1, Year: year, Days: days}
	}
	trend := make([]TrendRow, 12)
	for i := range trend {
		trend[i] = TrendRow{Label: monthLabels[i]}
	}
	return &SafetyRecord{
		MonthlyData: months,
		SloganTh:    "ปลอดภัยไว้ก่อน",
		SloganEn:    "Safety First",
		PolicyTitle: "Safety Policy",
		PolicyLines: []string{
			"Report every hazard, however small.",
			"Wear the required protective equipment at all times.",
			"Stop work when conditions are unsafe.",
		},
		PosterZoom: 1.0,
		Metrics: []Metric{
			{Label: "Safe Days", Unit: "days"},
			{Label: "Near Misses"},
			{Label: "Accidents"},
		},
		TrendRows: trend,
	}
}

// Validate checks the calendar shape of a loaded record: exactly 12 months,
// month/year tags matching position, day counts matching the calendar for
// that year and month, and only known day statuses. Auxiliary records are
// intentionally permissive.
func (r *SafetyRecord) Validate(year int) error {
	if len(r.MonthlyData) != 12 {
		return fmt.Errorf("expected 12 months, got %d", len(r.MonthlyData))
	}
	for i, m := range r.MonthlyData {
		if m.Month != i+1 {
			return fmt.Errorf("month at position %d tagged %d", i, m.Month)
		}
		if m.Year != year {
			return fmt.Errorf("month %d tagged year %d, want %d", m.Month, m.Year, year)
		}
		want := DaysIn(year, m.Month)
		if len(m.Days) != want {
			return fmt.Errorf("month %d has %d days, want %d", m.Month, len(m.Days), want)
		}
		for j, d := range m.Days {
			if d.Status != nil && !d.Status.IsValid() {
				return fmt.Errorf("month %d day %d has unknown status %q", m.Month, j+1, *d.Status)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the record.
func (r *SafetyRecord) Clone() *SafetyRecord {
	c := *r
	c.MonthlyData = make([]Month, len(r.MonthlyData))
	for i, m := range r.MonthlyData {
		cm := m
		cm.Days = make([]Day, len(m.Days))
		for j, d := range m.Days {
			cd := d
			if d.Status != nil {
				v := *d.Status
				cd.Status = &v
			}
			cm.Days[j] = cd
		}
		c.MonthlyData[i] = cm
	}
	c.Announcements = append([]Announcement(nil), r.Announcements...)
	c.PolicyLines = append([]string(nil), r.PolicyLines...)
	c.Metrics = append([]Metric(nil), r.Metrics...)
	c.TrendRows = append([]TrendRow(nil), r.TrendRows...)
	return &c
}

// Year returns the year the calendar is tagged with, or 0 for an empty
// record.
func (r *SafetyRecord) Year() int {
	if len(r.MonthlyData) == 0 {
		return 0
	}
	return r.MonthlyData[0].Year
}

// CountByStatus tallies decided days per status.
func (r *SafetyRecord) CountByStatus() map[DayStatus]int {
	out := make(map[DayStatus]int)
	for _, m := range r.MonthlyData {
		for _, d := range m.Days {
			if d.Status != nil {
				out[*d.Status]++
			}
		}
	}
	return out
}
