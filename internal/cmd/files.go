package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nudibranch/nudi/cli/internal/api"
	"github.com/nudibranch/nudi/cli/internal/testable"
	"github.com/nudibranch/nudi/cli/internal/upload"
)

// FileCmd returns the `nudi file` command group.
func FileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Store files on the server by content digest",
	}
	cmd.AddCommand(filePutCmd())
	return cmd
}

func filePutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <path>",
		Short: "Make sure a file is stored and print its file id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, true)
			if err != nil {
				return err
			}

			var digest string
			var uploaded bool
			coordinator := upload.NewCoordinator(s.client,
				upload.WithLogger(s.log),
				upload.WithObserver(func(ev upload.Event) {
					switch ev.Kind {
					case upload.EventFound:
						digest = ev.Digest
					case upload.EventUploading:
						digest, uploaded = ev.Digest, true
					}
				}),
			)

			ctx := cmd.Context()
			task := upload.Task{Field: "file", File: upload.PathBlob(args[0])}
			id, err := coordinator.Resolve(ctx, task)
			if err != nil {
				return outcomeErr(s.dispatcher.Fail(ctx, err))
			}

			out := cmd.OutOrStdout()
			state := "already stored"
			if uploaded {
				state = "uploaded"
			}
			fmt.Fprintf(out, "file_id: %s (%s)\n", id, state)
			fmt.Fprintf(out, "sha1: %s\n", digest)
			fmt.Fprintf(out, "url: %s%s\n", s.client.BaseURL(), api.FileURL(digest, task.File.Name()))
			return nil
		},
	}
}

// BuildFileCmd returns the `nudi build-file` command group.
func BuildFileCmd() *cobra.Command {
	return projectFileCmd(testable.BuildFiles, "build-file")
}

// ExecutionFileCmd returns the `nudi execution-file` command group.
func ExecutionFileCmd() *cobra.Command {
	return projectFileCmd(testable.ExecutionFiles, "execution-file")
}

// VerifierCmd returns the `nudi verifier` command group.
func VerifierCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verifier",
		Short: "Manage a project's expected file verifiers",
	}
	cmd.AddCommand(projectFileDeleteCmd(testable.ExpectedFiles))
	return cmd
}

func projectFileCmd(cat testable.Category, use string) *cobra.Command {
	label := strings.ToLower(cat.Label())
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Manage a project's %ss", label),
	}
	cmd.AddCommand(projectFileAddCmd(cat))
	cmd.AddCommand(projectFileDeleteCmd(cat))
	return cmd
}

func projectFileAddCmd(cat testable.Category) *cobra.Command {
	var (
		project int
		name    string
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: fmt.Sprintf("Upload a file and register it as a %s", strings.ToLower(cat.Label())),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := name
			if filename == "" {
				filename = filepath.Base(args[0])
			}
			f, err := testable.FileForm(cat, project, args[0], filename)
			if err != nil {
				return err
			}
			s, err := newSession(cmd, !dryRun)
			if err != nil {
				return err
			}
			if dryRun {
				return preview(cmd, cat.Label(), f, s.cfg.SkipEmpty)
			}
			return s.submit(cmd, f, "", s.cfg.SkipEmpty)
		},
	}
	cmd.Flags().IntVarP(&project, "project", "p", 0, "project id")
	cmd.Flags().StringVar(&name, "name", "", "file name on the server (default: base name of path)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the form and its JSON without sending")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func projectFileDeleteCmd(cat testable.Category) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", strings.ToLower(cat.Label())),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := newSession(cmd, true)
			if err != nil {
				return err
			}
			name := fmt.Sprintf("%s %d", strings.ToLower(cat.Label()), id)
			return s.confirmDelete(cmd, name, cat.ItemURL(id), yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
