package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"recroute/internal/hotplug"
	"recroute/internal/journal"
	"recroute/internal/logging"
	"recroute/internal/runlock"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var templateFlag string
	var now bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-route the graph whenever a sound device is plugged in",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			template := ctx.templateOrDefault(templateFlag)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			handler := func(hctx context.Context, ev hotplug.Event) error {
				logger.Info("device added, reconfiguring",
					logging.String(logging.FieldEventType, "hotplug_reconfigure"),
					logging.String(logging.FieldDevice, ev.Device),
				)
				_, err := ctx.reconfigure(hctx, template, journal.TriggerHotplug, false)
				if errors.Is(err, runlock.ErrBusy) {
					logger.Info("another run holds the lock; skipping hotplug reconfigure",
						logging.String(logging.FieldEventType, "hotplug_skipped_busy"),
					)
					return nil
				}
				return err
			}

			if now {
				if err := handler(runCtx, hotplug.Event{Action: "manual"}); err != nil {
					logging.WarnWithContext(logger, "initial reconfigure failed", "watch_initial_failed",
						logging.Error(err),
						logging.String(logging.FieldImpact, "graph left as-is until the next device event"),
					)
				}
			}

			monitor, err := hotplug.New(cfg, logger, handler)
			if err != nil {
				return err
			}
			if err := monitor.Start(runCtx); err != nil {
				return fmt.Errorf("start hotplug monitor: %w", err)
			}
			defer monitor.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s devices (template %s); press Ctrl+C to stop\n", cfg.Watch.Subsystem, template)
			select {
			case <-runCtx.Done():
			case <-monitor.Done():
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&templateFlag, "template", "t", "", "Route template (analog, multichannel); defaults to routing.template")
	cmd.Flags().BoolVar(&now, "now", false, "Reconfigure once before waiting for device events")
	return cmd
}
