package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/gosuri/uiprogress"

	"github.com/shipengqi/modelsync/pkg/api"
)

// BarRenderer draws download chunks as a uiprogress bar labelled with the
// latest status. Status-only events stop the bar and print a plain line.
type BarRenderer struct {
	out      io.Writer
	progress *uiprogress.Progress
	bar      *uiprogress.Bar

	mu     sync.Mutex
	status string
}

func NewBarRenderer(out io.Writer) *BarRenderer {
	return &BarRenderer{out: out}
}

func (r *BarRenderer) Render(ev api.ProgressEvent) error {
	if ev.Digest == "" {
		r.stop()
		_, err := fmt.Fprintln(r.out, ev.Status)
		return err
	}
	if r.bar == nil {
		r.start()
	}
	r.mu.Lock()
	r.status = ev.Status
	r.mu.Unlock()

	percent := Percent(ev.Completed, ev.Total)
	if percent > 100 {
		percent = 100
	}
	return r.bar.Set(percent)
}

func (r *BarRenderer) Close() error {
	r.stop()
	return nil
}

func (r *BarRenderer) start() {
	r.progress = uiprogress.New()
	r.progress.SetOut(r.out)
	r.bar = r.progress.AddBar(100).AppendCompleted().PrependFunc(func(b *uiprogress.Bar) string {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.status
	})
	r.progress.Start()
}

func (r *BarRenderer) stop() {
	if r.progress == nil {
		return
	}
	r.progress.Stop()
	r.progress = nil
	r.bar = nil
}
