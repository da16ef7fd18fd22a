package progress

import (
	"fmt"
	"io"
	"math"

	"github.com/shipengqi/modelsync/pkg/api"
)

const (
	ModeLine = "line"
	ModeBar  = "bar"
)

// Renderer draws the events of one pull.
type Renderer interface {
	Render(ev api.ProgressEvent) error
	// Close releases the terminal; it is called once the pull returns.
	Close() error
}

// Factory returns a fresh Renderer for each pull.
type Factory func(out io.Writer) Renderer

// NewFactory maps a mode name to its Factory. An empty mode means ModeLine.
func NewFactory(mode string) (Factory, error) {
	switch mode {
	case "", ModeLine:
		return func(out io.Writer) Renderer { return NewLineRenderer(out) }, nil
	case ModeBar:
		return func(out io.Writer) Renderer { return NewBarRenderer(out) }, nil
	}
	return nil, fmt.Errorf("unknown progress mode %q, want %q or %q", mode, ModeLine, ModeBar)
}

// Percent returns completed/total as a rounded percentage, or 0 when either
// is unknown.
func Percent(completed, total int64) int {
	if completed <= 0 || total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
