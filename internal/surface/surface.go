// Package surface draws chart configurations onto named targets and tracks
// which chart is currently live on each of them.
//
// A Surface is anything that can turn a chart.Config into a visible chart: a
// terminal pane, an image file, or an in-memory image served over HTTP. Every
// draw produces an Instance that must be destroyed before the surface is
// drawn on again; the Registry enforces that.
package surface

import (
	"errors"

	"github.com/theirongolddev/spendview/internal/chart"
)

// ErrNoSurface is returned when a draw targets an id nothing is bound to.
var ErrNoSurface = errors.New("surface: no such surface")

// Surface is a drawable target identified by a stable id.
type Surface interface {
	ID() string
	// Draw creates a new chart instance from cfg. It does not touch any
	// previous instance; callers go through a Registry for that.
	Draw(cfg chart.Config) (Instance, error)
}

// Instance is a chart currently displayed on a surface.
type Instance interface {
	Config() chart.Config
	// Destroy releases whatever the instance holds. Calling it twice is a no-op.
	Destroy() error
}
