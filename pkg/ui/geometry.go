package ui

import "safeboard/pkg/layout"

// Terminal cells are not square; these factors convert the cell grid into
// the pseudo-pixel space the scale functions are calibrated for (a 240x67
// terminal maps to roughly the 1920x1080 reference).
const (
	cellPxW = 8
	cellPxH = 16
)

const footerLines = 1

// dividerGrabZone is how close (in cells) the pointer must be to a boundary
// to start a resize gesture.
const dividerGrabZone = 1

// slotRect is a slot's cell-space bounding box.
type slotRect struct {
	slot       layout.Slot
	x, y, w, h int
}

// divider identifies a draggable boundary between two adjacent regions.
type divider struct {
	group    layout.Group
	index    int
	vertical bool
	extent   int // container size in cells along the drag axis
}

// geometry is the resolved cell-space layout of the board for one frame.
type geometry struct {
	width, height int // board area, excluding the footer
	colEdges      []int
	rowEdges      [3][]int
	rects         []slotRect
}

// columnSlots lists each column's slots top to bottom.
var columnSlots = [3][]layout.Slot{
	{layout.SlotLeftTop, layout.SlotLeftBottom},
	{layout.SlotCenterTop, layout.SlotCenterMid, layout.SlotCenterBottom},
	{layout.SlotRightTop, layout.SlotRightBottom},
}

// rowGroups maps a column index to its row proportion group.
var rowGroups = [3]layout.Group{layout.GroupLeftRows, layout.GroupCenterRows, layout.GroupRightRows}

// apportion splits total cells across a proportion vector using cumulative
// rounding so the pieces always sum exactly to total.
func apportion(total int, v layout.Vector) []int {
	out := make([]int, len(v))
	prefix := 0.0
	prevEdge := 0
	for i, share := range v {
		prefix += share
		edge := int(prefix/layout.NormalizedTotal*float64(total) + 0.5)
		if edge > total {
			edge = total
		}
		out[i] = edge - prevEdge
		prevEdge = edge
	}
	out[len(out)-1] += total - prevEdge
	return out
}

// edges converts piece widths to cumulative boundary positions (the last
// edge, the container end, is omitted).
func edges(pieces []int) []int {
	out := make([]int, 0, len(pieces)-1)
	pos := 0
	for _, p := range pieces[:len(pieces)-1] {
		pos += p
		out = append(out, pos)
	}
	return out
}

// computeGeometry resolves the proportion configuration against the current
// terminal size.
func computeGeometry(termW, termH int, cfg layout.Config) geometry {
	boardH := termH - footerLines
	if boardH < 1 {
		boardH = 1
	}
	g := geometry{width: termW, height: boardH}

	colWidths := apportion(termW, cfg.Cols)
	g.colEdges = edges(colWidths)

	x := 0
	for c := 0; c < 3; c++ {
		rows := cfg.Vector(rowGroups[c])
		rowHeights := apportion(boardH, rows)
		g.rowEdges[c] = edges(rowHeights)

		y := 0
		for r, slot := range columnSlots[c] {
			g.rects = append(g.rects, slotRect{
				slot: slot,
				x:    x, y: y,
				w: colWidths[c], h: rowHeights[r],
			})
			y += rowHeights[r]
		}
		x += colWidths[c]
	}
	return g
}

// rectFor returns the rect of a slot.
func (g geometry) rectFor(slot layout.Slot) (slotRect, bool) {
	for _, r := range g.rects {
		if r.slot == slot {
			return r, true
		}
	}
	return slotRect{}, false
}

// columnAt returns the column index containing x.
func (g geometry) columnAt(x int) int {
	for i, edge := range g.colEdges {
		if x < edge {
			return i
		}
	}
	return 2
}

// hitDivider reports which boundary, if any, the pointer is grabbing.
// Column boundaries win over row boundaries where they overlap.
func (g geometry) hitDivider(x, y int) (divider, bool) {
	if y >= g.height {
		return divider{}, false
	}
	for i, edge := range g.colEdges {
		if abs(x-edge) <= dividerGrabZone {
			return divider{group: layout.GroupCols, index: i, vertical: true, extent: g.width}, true
		}
	}
	col := g.columnAt(x)
	for i, edge := range g.rowEdges[col] {
		if abs(y-edge) <= dividerGrabZone {
			return divider{group: rowGroups[col], index: i, extent: g.height}, true
		}
	}
	return divider{}, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
