// Package layout implements the adaptive grid engine for the safety board:
// normalized proportion vectors for the 3-column/7-slot grid, the drag-resize
// controller, slot-to-panel assignment, and scale derivation from live
// dimensions.
package layout

import "math"

// NormalizedTotal is the invariant sum of every proportion vector.
const NormalizedTotal = 100.0

// Minimum share (in percentage points) any element of a group may hold.
// Columns need more room than rows because each column nests its own rows.
const (
	ColFloor       = 18.0
	LeftRowFloor   = 18.0
	CenterRowFloor = 14.0
	RightRowFloor  = 16.0
)

// Vector is an ordered sequence of non-negative shares summing to
// NormalizedTotal. Vectors are always replaced whole; elements are never set
// individually.
type Vector []float64

// Sum returns the total of all elements.
func (v Vector) Sum() float64 {
	total := 0.0
	for _, e := range v {
		total += e
	}
	return total
}

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

// Normalize returns a vector scaled so its elements sum to NormalizedTotal.
// Normalizing an already-normalized vector is a fixed point up to floating
// tolerance. A vector with sum <= 0 is returned unchanged; the resize
// controller guarantees by construction that it never produces one.
func (v Vector) Normalize() Vector {
	sum := v.Sum()
	if sum <= 0 {
		return v
	}
	out := make(Vector, len(v))
	scale := NormalizedTotal / sum
	for i, e := range v {
		out[i] = e * scale
	}
	return out
}

// equalWithin reports whether two vectors match element-wise within eps.
func equalWithin(a, b Vector, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Group identifies one of the four adjustable proportion groups.
type Group int

const (
	GroupCols Group = iota
	GroupLeftRows
	GroupCenterRows
	GroupRightRows
)

// Floor returns the minimum share for elements of this group.
func (g Group) Floor() float64 {
	switch g {
	case GroupCols:
		return ColFloor
	case GroupLeftRows:
		return LeftRowFloor
	case GroupCenterRows:
		return CenterRowFloor
	case GroupRightRows:
		return RightRowFloor
	default:
		return CenterRowFloor
	}
}

// String returns the group name used in logs.
func (g Group) String() string {
	switch g {
	case GroupCols:
		return "cols"
	case GroupLeftRows:
		return "leftRows"
	case GroupCenterRows:
		return "centerRows"
	case GroupRightRows:
		return "rightRows"
	default:
		return "unknown"
	}
}

// Config holds the four proportion vectors of the dashboard grid.
type Config struct {
	Cols       Vector
	LeftRows   Vector
	CenterRows Vector
	RightRows  Vector
}

// DefaultConfig returns the compiled-in grid proportions.
func DefaultConfig() Config {
	return Config{
		Cols:       Vector{27, 46, 27},
		LeftRows:   Vector{58, 42},
		CenterRows: Vector{34, 33, 33},
		RightRows:  Vector{55, 45},
	}
}

// Vector returns the proportion vector for a group.
func (c Config) Vector(g Group) Vector {
	switch g {
	case GroupCols:
		return c.Cols
	case GroupLeftRows:
		return c.LeftRows
	case GroupCenterRows:
		return c.CenterRows
	case GroupRightRows:
		return c.RightRows
	default:
		return nil
	}
}

// SetVector replaces the proportion vector for a group.
func (c *Config) SetVector(g Group, v Vector) {
	switch g {
	case GroupCols:
		c.Cols = v
	case GroupLeftRows:
		c.LeftRows = v
	case GroupCenterRows:
		c.CenterRows = v
	case GroupRightRows:
		c.RightRows = v
	}
}

// Clone returns a deep copy of the configuration.
func (c Config) Clone() Config {
	return Config{
		Cols:       c.Cols.Clone(),
		LeftRows:   c.LeftRows.Clone(),
		CenterRows: c.CenterRows.Clone(),
		RightRows:  c.RightRows.Clone(),
	}
}

// Record is the persisted JSON shape of a Config. Vectors are accepted in any
// positive sum and renormalized on load.
type Record struct {
	Cols       []float64 `json:"cols" validate:"required,len=3,dive,gte=0"`
	LeftRows   []float64 `json:"leftRows" validate:"required,len=2,dive,gte=0"`
	CenterRows []float64 `json:"centerRows" validate:"required,len=3,dive,gte=0"`
	RightRows  []float64 `json:"rightRows" validate:"required,len=2,dive,gte=0"`
}

// ToRecord converts the configuration to its persisted shape.
func (c Config) ToRecord() Record {
	return Record{
		Cols:       c.Cols.Clone(),
		LeftRows:   c.LeftRows.Clone(),
		CenterRows: c.CenterRows.Clone(),
		RightRows:  c.RightRows.Clone(),
	}
}

// FromRecord builds a Config from a persisted record, renormalizing every
// vector. It reports false when any vector has a non-positive sum, in which
// case the record must be treated as malformed.
func FromRecord(r Record) (Config, bool) {
	vecs := []Vector{r.Cols, r.LeftRows, r.CenterRows, r.RightRows}
	for _, v := range vecs {
		if v.Sum() <= 0 {
			return Config{}, false
		}
	}
	return Config{
		Cols:       Vector(r.Cols).Normalize(),
		LeftRows:   Vector(r.LeftRows).Normalize(),
		CenterRows: Vector(r.CenterRows).Normalize(),
		RightRows:  Vector(r.RightRows).Normalize(),
	}, true
}
