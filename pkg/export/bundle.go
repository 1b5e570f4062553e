package export

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"safeboard/pkg/model"
)

// Bundle writes the export artifacts for a record into dir: trend.svg and
// calendar.png. The two renders are independent and run concurrently.
func Bundle(dir string, rec *model.SafetyRecord) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	var g errgroup.Group
	g.Go(func() error {
		f, err := os.Create(filepath.Join(dir, "trend.svg"))
		if err != nil {
			return fmt.Errorf("create trend.svg: %w", err)
		}
		defer f.Close()
		title := fmt.Sprintf("Incidents per month, %d", rec.Year())
		WriteTrendSVG(f, rec.TrendRows, title)
		return nil
	})
	g.Go(func() error {
		f, err := os.Create(filepath.Join(dir, "calendar.png"))
		if err != nil {
			return fmt.Errorf("create calendar.png: %w", err)
		}
		defer f.Close()
		return WriteCalendarPNG(f, rec)
	})
	return g.Wait()
}
