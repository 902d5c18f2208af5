package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"recroute/internal/journal"
	"recroute/internal/launcher"
	"recroute/internal/session"
)

// newLauncher builds the session launcher; tests replace it to avoid
// spawning processes.
var newLauncher = launcher.New

func newLaunchCommand(ctx *commandContext) *cobra.Command {
	var templateFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Start the recording session helpers, the recorder, and route the graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			controller, err := ctx.controller(false)
			if err != nil {
				return err
			}
			l, err := newLauncher(cfg, controller, logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			template := ctx.templateOrDefault(templateFlag)
			var (
				result *session.Result
				runErr error
			)
			if err := ctx.withLock(func() error {
				result, runErr = l.Run(runCtx, template)
				ctx.journal(runCtx, result, journal.TriggerLaunch)
				return nil
			}); err != nil {
				return err
			}
			if result == nil {
				return runErr
			}
			if jsonOutput {
				if encErr := writeJSON(cmd, toResultJSON(result)); encErr != nil {
					return encErr
				}
				return runErr
			}
			printResult(cmd.OutOrStdout(), result, false)
			if runErr == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Recording session ready")
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&templateFlag, "template", "t", "", "Route template (analog, multichannel); defaults to routing.template")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run result as JSON")
	return cmd
}
