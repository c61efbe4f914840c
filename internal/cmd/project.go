package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nudibranch/nudi/cli/internal/api"
	"github.com/nudibranch/nudi/cli/internal/ui"
)

// ProjectCmd returns the `nudi project` command group.
func ProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Inspect projects and requeue their submissions",
	}
	cmd.AddCommand(projectInfoCmd())
	cmd.AddCommand(projectRequeueCmd())
	return cmd
}

func projectInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <project-id>",
		Short: "Show a project's testables and test cases",
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
			info, err := s.client.GetProjectInfo(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("project info: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderProject(info, ui.TerminalWidth(cmd.OutOrStdout(), 100)))
			return nil
		},
	}
}

func projectRequeueCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "requeue <project-id>",
		Short: "Requeue the latest submissions of a project",
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
			if !yes {
				ok, err := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).
					Confirm("Are you sure you want to requeue all the latest submissions?", false)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}
			ctx := cmd.Context()
			resp, err := s.client.Requeue(ctx, api.ProjectEditURL(id))
			return s.dispatch(ctx, resp, err)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// DeleteCmd returns the `nudi delete` command.
func DeleteCmd() *cobra.Command {
	var (
		yes  bool
		name string
	)
	cmd := &cobra.Command{
		Use:   "delete <url>",
		Short: "Delete any resource by URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, true)
			if err != nil {
				return err
			}
			label := name
			if label == "" {
				label = args[0]
			}
			return s.confirmDelete(cmd, label, args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().StringVar(&name, "name", "", "name shown in the confirmation")
	return cmd
}
