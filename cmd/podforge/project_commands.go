package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"podforge/internal/api"
	"podforge/internal/jobs"
	"podforge/internal/plan"
	"podforge/internal/project"
	"podforge/internal/timefmt"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage podcast projects",
	}

	projectCmd.AddCommand(newProjectCreateCommand(ctx))
	projectCmd.AddCommand(newProjectListCommand(ctx))
	projectCmd.AddCommand(newProjectShowCommand(ctx))
	projectCmd.AddCommand(newProjectDeleteCommand(ctx))
	projectCmd.AddCommand(newProjectRenameCommand(ctx))

	return projectCmd
}

func newProjectCreateCommand(ctx *commandContext) *cobra.Command {
	var (
		inputURL    string
		fileName    string
		displayName string
		fileSize    int64
		duration    float64
		fileFormat  string
		mimeType    string
		tierFlag    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register an uploaded audio file for processing",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := ctx.userID()
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *api.Service) error {
				p, err := svc.CreateProject(cmd.Context(), api.CreateProjectInput{
					UserID:       userID,
					InputURL:     inputURL,
					FileName:     fileName,
					DisplayName:  displayName,
					FileSize:     fileSize,
					FileDuration: duration,
					FileFormat:   fileFormat,
					MimeType:     mimeType,
					Plan:         plan.Parse(tierFlag),
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Project %d created (%s, %s plan)\n", p.ID, p.DisplayTitle(), p.Plan)
				fmt.Fprintln(out, "The daemon will pick it up on its next poll.")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&inputURL, "url", "", "Blob URL of the uploaded audio")
	cmd.Flags().StringVar(&fileName, "file-name", "", "Original file name")
	cmd.Flags().StringVar(&displayName, "name", "", "Display name (derived from the file name when omitted)")
	cmd.Flags().Int64Var(&fileSize, "size", 0, "File size in bytes")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Audio duration in seconds")
	cmd.Flags().StringVar(&fileFormat, "format", "", "Container format, e.g. mp3")
	cmd.Flags().StringVar(&mimeType, "mime", "", "MIME type of the audio")
	cmd.Flags().StringVar(&tierFlag, "plan", "free", "Plan tier the upload was made under")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("file-name")
	_ = cmd.MarkFlagRequired("size")
	_ = cmd.MarkFlagRequired("mime")
	return cmd
}

func newProjectListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your projects, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := ctx.userID()
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *api.Service) error {
				projects, err := svc.ListProjects(cmd.Context(), userID, limit, offset)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(projects) == 0 {
					fmt.Fprintln(out, "No projects found.")
					return nil
				}

				rows := make([][]string, 0, len(projects))
				for _, p := range projects {
					rows = append(rows, []string{
						fmt.Sprintf("%d", p.ID),
						truncate(p.DisplayTitle(), 40),
						string(p.Plan),
						string(p.Status),
						formatBytes(p.FileSize),
						formatTime(p.CreatedAt),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "TITLE", "PLAN", "STATUS", "SIZE", "CREATED"},
					rows, 1, 5,
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum projects to list (0 for all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Projects to skip from the newest")
	return cmd
}

func newProjectShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show one project in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := ctx.userID()
			if err != nil {
				return err
			}
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *api.Service) error {
				p, err := svc.GetProject(cmd.Context(), userID, id)
				if err != nil {
					return err
				}
				printProject(cmd, p)
				return nil
			})
		},
	}
}

func printProject(cmd *cobra.Command, p *project.Project) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintf(out, "Project %d: %s\n", p.ID, p.DisplayTitle())
	fmt.Fprintln(out, renderStatusLine("Status", statusKindFor(p.Status), string(p.Status), colorize))
	fmt.Fprintln(out, renderStatusLine("Transcription", phaseKind(p.JobStatus.Transcription), string(p.JobStatus.Transcription), colorize))
	fmt.Fprintln(out, renderStatusLine("Generation", phaseKind(p.JobStatus.ContentGeneration), string(p.JobStatus.ContentGeneration), colorize))
	fmt.Fprintf(out, "  %-*s %s\n", statusLabelWidth, "Plan:", p.Plan)
	fmt.Fprintf(out, "  %-*s %s (%s)\n", statusLabelWidth, "File:", p.FileName, formatBytes(p.FileSize))
	if p.FileDuration > 0 {
		fmt.Fprintf(out, "  %-*s %s\n", statusLabelWidth, "Duration:", timefmt.FormatDuration(p.FileDuration))
	}
	fmt.Fprintf(out, "  %-*s %d\n", statusLabelWidth, "Attempts:", p.Attempts)
	fmt.Fprintf(out, "  %-*s %s\n", statusLabelWidth, "Created:", formatTime(p.CreatedAt))
	if p.CompletedAt != nil {
		fmt.Fprintf(out, "  %-*s %s\n", statusLabelWidth, "Completed:", formatTime(*p.CompletedAt))
	}

	if p.Error != nil {
		fmt.Fprintln(out, renderStatusLine("Error", statusError, fmt.Sprintf("%s (step %s)", p.Error.Message, p.Error.Step), colorize))
	}

	fmt.Fprintln(out, "Content:")
	for _, job := range jobs.ForTier(p.Plan) {
		switch {
		case p.Content.Has(job):
			fmt.Fprintln(out, renderStatusLine(string(job), statusOK, "generated", colorize))
		case p.JobErrors[job] != "":
			fmt.Fprintln(out, renderStatusLine(string(job), statusError, p.JobErrors[job], colorize))
		default:
			fmt.Fprintln(out, renderStatusLine(string(job), statusInfo, "pending", colorize))
		}
	}
}

func statusKindFor(status project.Status) statusKind {
	switch status {
	case project.StatusCompleted:
		return statusOK
	case project.StatusFailed:
		return statusError
	case project.StatusProcessing:
		return statusWarn
	default:
		return statusInfo
	}
}

func phaseKind(phase project.PhaseStatus) statusKind {
	switch phase {
	case project.PhaseCompleted:
		return statusOK
	case project.PhaseFailed:
		return statusError
	case project.PhaseRunning:
		return statusWarn
	default:
		return statusInfo
	}
}

func newProjectDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project and its uploaded audio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := ctx.userID()
			if err != nil {
				return err
			}
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *api.Service) error {
				inputURL, err := svc.DeleteProject(cmd.Context(), userID, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Project %d deleted (source %s)\n", id, inputURL)
				return nil
			})
		},
	}
}

func newProjectRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <project-id> <name>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := ctx.userID()
			if err != nil {
				return err
			}
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[1])
			return ctx.withService(func(svc *api.Service) error {
				if err := svc.UpdateDisplayName(cmd.Context(), userID, id, name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Project %d renamed to %q\n", id, name)
				return nil
			})
		},
	}
}
