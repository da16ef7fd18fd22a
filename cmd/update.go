package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipengqi/modelsync/pkg/filelock"
	"github.com/shipengqi/modelsync/pkg/log"
	"github.com/shipengqi/modelsync/pkg/ollama"
	"github.com/shipengqi/modelsync/pkg/progress"
	"github.com/shipengqi/modelsync/pkg/registry/client"
	"github.com/shipengqi/modelsync/pkg/updater"
)

func checkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report outdated models without pulling them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, true)
		},
	}
	cmd.Flags().SortFlags = false
	return cmd
}

func runUpdate(cmd *cobra.Command, dryRun bool) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	handleSignals(ctx, cancel)

	if !dryRun {
		if err := filelock.Lock(Conf.LockFile); err != nil {
			if errors.Is(err, filelock.ErrLocked) {
				pid, _ := filelock.Owner(Conf.LockFile)
				return fmt.Errorf("another update is running (pid %d), remove %s if it is not", pid, Conf.LockFile)
			}
			return err
		}
		defer func() { _ = filelock.UnLock(Conf.LockFile) }()
	}

	renderer, err := progress.NewFactory(Conf.Progress)
	if err != nil {
		return err
	}
	store := ollama.New(Conf.Host)
	store.SetRequestTimeout(Conf.Timeout)

	registry := client.New()
	registry.SetBaseURL(Conf.Registry)
	registry.SetRequestTimeout(Conf.Timeout)
	registry.SetRequestsPerSecond(Conf.RequestsPerSecond)

	log.Debugf("host %s, registry %s, dry run %t", Conf.Host, Conf.Registry, dryRun)
	u := updater.New(store, registry,
		updater.WithOutput(cmd.OutOrStdout()),
		updater.WithRenderer(renderer),
		updater.WithDryRun(dryRun),
	)
	report, err := u.Run(ctx)
	if err != nil {
		return err
	}
	log.Infof("%d models up to date, %d updated, %d skipped", report.UpToDate, report.Updated, report.Skipped)
	return nil
}
