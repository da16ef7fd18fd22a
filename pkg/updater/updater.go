// Package updater compares installed models against the registry and
// re-pulls the ones whose manifest changed.
package updater

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/shipengqi/modelsync/pkg/api"
	"github.com/shipengqi/modelsync/pkg/log"
	"github.com/shipengqi/modelsync/pkg/manifest"
	"github.com/shipengqi/modelsync/pkg/models"
	"github.com/shipengqi/modelsync/pkg/progress"
	"github.com/shipengqi/modelsync/pkg/registry/client"
)

// Store is the local model store.
type Store interface {
	List(ctx context.Context) ([]api.LocalModel, error)
	Pull(ctx context.Context, name string, fn func(api.ProgressEvent) error) error
}

// Registry serves remote manifests. A manifest that cannot be offered is
// reported with an error for which client.IsUnavailable is true.
type Registry interface {
	FetchManifest(ctx context.Context, repo, reference string) ([]byte, error)
}

// Report counts what a run did.
type Report struct {
	Checked  int
	UpToDate int
	Outdated int
	Updated  int
	Skipped  int
}

type Updater struct {
	store       Store
	registry    Registry
	out         io.Writer
	newRenderer progress.Factory
	dryRun      bool
}

type Option func(*Updater)

// WithOutput sets where status lines and progress go. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(u *Updater) { u.out = w }
}

// WithRenderer sets the progress renderer used for every pull.
func WithRenderer(f progress.Factory) Option {
	return func(u *Updater) { u.newRenderer = f }
}

// WithDryRun reports outdated models without pulling them.
func WithDryRun(dryRun bool) Option {
	return func(u *Updater) { u.dryRun = dryRun }
}

func New(store Store, registry Registry, opts ...Option) *Updater {
	u := &Updater{
		store:    store,
		registry: registry,
		out:      os.Stdout,
		newRenderer: func(out io.Writer) progress.Renderer {
			return progress.NewLineRenderer(out)
		},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Run checks every installed model in turn. Any failure other than an
// unavailable manifest stops the run; the report covers the models handled
// so far.
func (u *Updater) Run(ctx context.Context) (Report, error) {
	var report Report
	local, err := u.store.List(ctx)
	if err != nil {
		return report, err
	}
	log.Debugf("found %d local models", len(local))

	for _, m := range local {
		if err := u.check(ctx, m, &report); err != nil {
			return report, err
		}
	}
	log.Debugf("checked %d, up to date %d, outdated %d, updated %d, skipped %d",
		report.Checked, report.UpToDate, report.Outdated, report.Updated, report.Skipped)
	return report, nil
}

func (u *Updater) check(ctx context.Context, m api.LocalModel, report *Report) error {
	ref := models.ParseName(m.Name)
	raw, err := u.registry.FetchManifest(ctx, ref.Repo, ref.Tag)
	if client.IsUnavailable(err) {
		log.Debugf("skip %s: registry returned %v", m.Name, err)
		report.Skipped++
		return nil
	}
	if err != nil {
		return err
	}
	report.Checked++

	latest, err := manifest.Matches(raw, m.Digest)
	if err != nil {
		return fmt.Errorf("%s: %w", m.Name, err)
	}
	if latest {
		report.UpToDate++
		_, err = fmt.Fprintf(u.out, "%s is up to date\n", m.Name)
		return err
	}

	report.Outdated++
	if _, err = fmt.Fprintf(u.out, "You have an outdated version of %s\n", m.Name); err != nil {
		return err
	}
	if u.dryRun {
		return nil
	}
	if _, err = fmt.Fprintf(u.out, "Updating %s\n", m.Name); err != nil {
		return err
	}
	if err = u.pull(ctx, m.Name); err != nil {
		return err
	}
	report.Updated++
	return nil
}

func (u *Updater) pull(ctx context.Context, name string) error {
	r := u.newRenderer(u.out)
	err := u.store.Pull(ctx, name, r.Render)
	if cerr := r.Close(); err == nil {
		err = cerr
	}
	return err
}
