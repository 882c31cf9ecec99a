package main

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"podforge/internal/project"
	"podforge/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and project statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withStore(func(st *store.Store) error {
				stats, err := st.Stats(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				running := daemonRunning(filepath.Join(cfg.Paths.DataDir, "podforged.lock"))
				kind := statusOK
				message := "running"
				if !running {
					kind = statusWarn
					message = "not running"
				}
				fmt.Fprintln(out, renderStatusLine("Daemon", kind, message, colorize))
				fmt.Fprintf(out, "  %-*s %s\n", statusLabelWidth, "Database:", st.Path())

				rows := make([][]string, 0, 4)
				for _, status := range []project.Status{
					project.StatusUploaded,
					project.StatusProcessing,
					project.StatusCompleted,
					project.StatusFailed,
				} {
					rows = append(rows, []string{string(status), fmt.Sprintf("%d", stats[status])})
				}
				fmt.Fprintln(out, renderTable([]string{"STATUS", "PROJECTS"}, rows, 2))
				return nil
			})
		},
	}
}

// daemonRunning probes the daemon lock file. An acquired probe lock is
// released immediately; failing to acquire means a daemon holds it.
func daemonRunning(lockPath string) bool {
	probe := flock.New(lockPath)
	ok, err := probe.TryLock()
	if err != nil {
		return false
	}
	if ok {
		_ = probe.Unlock()
		return false
	}
	return true
}
