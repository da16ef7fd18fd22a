package progress

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shipengqi/modelsync/pkg/api"
)

// LineRenderer keeps a single status line up to date by blanking the
// previous text with spaces before writing the next.
type LineRenderer struct {
	out        io.Writer
	lineLength int
}

func NewLineRenderer(out io.Writer) *LineRenderer {
	return &LineRenderer{out: out}
}

// Render overwrites the current line. Events with a digest are download
// chunks and print "{status} {percent}%..."; anything else prints the status
// and ends the line. Only chunks update the width blanked by the next write.
func (r *LineRenderer) Render(ev api.ProgressEvent) error {
	blank := strings.Repeat(" ", r.lineLength)
	if ev.Digest != "" {
		line := fmt.Sprintf("%s %d%%...", ev.Status, Percent(ev.Completed, ev.Total))
		r.lineLength = utf8.RuneCountInString(line)
		_, err := fmt.Fprintf(r.out, "\r%s\r%s", blank, line)
		return err
	}
	_, err := fmt.Fprintf(r.out, "\r%s\r%s\n", blank, ev.Status)
	return err
}

func (r *LineRenderer) Close() error { return nil }
