package export

import (
	"fmt"
	"image"
	"io"

	"git.sr.ht/~sbinet/gg"
	xdraw "golang.org/x/image/draw"

	"safeboard/pkg/model"
)

// Heatmap geometry: one column per month, one cell per day.
const (
	cellSize   = 16
	cellGap    = 2
	mapPadding = 48
)

func statusColor(s *model.DayStatus) (r, g, b float64) {
	if s == nil {
		return 0.21, 0.22, 0.29 // undecided
	}
	switch *s {
	case model.StatusSafe:
		return 0.31, 0.98, 0.48
	case model.StatusNearMiss:
		return 1.00, 0.72, 0.42
	case model.StatusAccident:
		return 1.00, 0.33, 0.33
	default:
		return 0.21, 0.22, 0.29
	}
}

// WriteCalendarPNG renders the yearly calendar as a heatmap, months across,
// days down.
func WriteCalendarPNG(w io.Writer, rec *model.SafetyRecord) error {
	width := 2*mapPadding + 12*(cellSize+cellGap)
	height := 2*mapPadding + 31*(cellSize+cellGap)

	dc := gg.NewContext(width, height)
	dc.SetRGB(0.12, 0.12, 0.16)
	dc.Clear()

	dc.SetRGB(0.97, 0.97, 0.95)
	dc.DrawString(fmt.Sprintf("Safety Calendar %d", rec.Year()), mapPadding, mapPadding-20)

	for mi, month := range rec.MonthlyData {
		cx := float64(mapPadding + mi*(cellSize+cellGap))
		dc.SetRGB(0.75, 0.75, 0.75)
		dc.DrawString(fmt.Sprintf("%02d", month.Month), cx, mapPadding-4)
		for di, day := range month.Days {
			cy := float64(mapPadding + di*(cellSize+cellGap))
			r, g, b := statusColor(day.Status)
			dc.SetRGB(r, g, b)
			dc.DrawRectangle(cx, cy, cellSize, cellSize)
			dc.Fill()
		}
	}
	return dc.EncodePNG(w)
}

// Thumbnail scales an image to fit within maxW by maxH, preserving aspect
// ratio. Used for the poster panel's export copy.
func Thumbnail(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return src
	}
	scaleW := float64(maxW) / float64(b.Dx())
	scaleH := float64(maxH) / float64(b.Dy())
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(b.Dx())*scale), int(float64(b.Dy())*scale)))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
