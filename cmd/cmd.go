package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shipengqi/modelsync/pkg/log"
	"github.com/shipengqi/modelsync/pkg/progress"
)

func NewModelsyncCommand() *cobra.Command {
	Conf = defaultConfig()
	configFile = ""

	modelsyncCmd := &cobra.Command{
		Use:   "modelsync",
		Short: "modelsync re-pulls local Ollama models whose registry manifest has changed",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd.Flags(), configFile); err != nil {
				return err
			}
			if _, err := progress.NewFactory(Conf.Progress); err != nil {
				return err
			}
			if err := log.Init(Conf.LogFile, Conf.LogLevel); err != nil {
				return err
			}
			log.WithField("run", uuid.NewString())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, false)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Disable commands sorting
	cobra.EnableCommandSorting = false
	modelsyncCmd.PersistentFlags().SortFlags = false
	addGlobalFlags(modelsyncCmd.PersistentFlags())
	// Add sub commands
	modelsyncCmd.AddCommand(checkCommand())
	modelsyncCmd.AddCommand(versionCommand())
	return modelsyncCmd
}

// Execute runs the command tree. A failure is always printed on the
// command's error stream, whatever the log level.
func Execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		if log.ToFile() {
			log.Errorf("%v", err)
		}
	}
	return err
}

// handleSignals cancels the run on the first SIGINT, SIGTERM or SIGQUIT.
// The signals are caught from the moment it returns; a second signal gets
// the default behaviour.
func handleSignals(ctx context.Context, cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(c)
		select {
		case s := <-c:
			log.Warnf("[SIGNAL] Catch %v", s)
			cancel()
		case <-ctx.Done():
		}
	}()
}
