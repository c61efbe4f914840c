package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nudibranch/nudi/cli/internal/cmd"
	"github.com/nudibranch/nudi/cli/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	if os.Getenv("COLORTERM") == "" {
		os.Setenv("COLORTERM", "truecolor")
	}
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "nudi",
		Short: "nudi - testable submissions client",
		Long: "nudi talks to a nudibranch server: it submits forms, uploads files " +
			"by content digest, and manages a project's testables and files.",
		RunE: func(c *cobra.Command, _ []string) error {
			fmt.Fprint(c.OutOrStdout(), ui.RenderBanner())
			return c.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "log requests and uploads to stderr")
	root.PersistentFlags().String("server", "", "server URL, overriding config and NUDI_SERVER_URL")

	root.AddCommand(cmd.LoginCmd())
	root.AddCommand(cmd.LogoutCmd())
	root.AddCommand(cmd.SubmitCmd())
	root.AddCommand(cmd.TestableCmd())
	root.AddCommand(cmd.FileCmd())
	root.AddCommand(cmd.BuildFileCmd())
	root.AddCommand(cmd.ExecutionFileCmd())
	root.AddCommand(cmd.VerifierCmd())
	root.AddCommand(cmd.ProjectCmd())
	root.AddCommand(cmd.DeleteCmd())
	return root
}

// run executes the command line and returns the process exit code.
func run(args []string, in io.Reader, out, errOut io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRoot()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	if err := root.ExecuteContext(ctx); err != nil {
		// Reported failures were already shown by the notifier.
		if !errors.Is(err, cmd.ErrReported) {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return 1
	}
	return 0
}
