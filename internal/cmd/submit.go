package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/nudibranch/nudi/cli/internal/form"
)

// SubmitCmd returns the `nudi submit` command.
func SubmitCmd() *cobra.Command {
	var (
		method    string
		skipEmpty bool
		dryRun    bool
	)
	cmd := &cobra.Command{
		Use:   "submit <form-file>",
		Short: "Submit a form file, uploading its files first",
		Long: "Submit a YAML or JSON form file. File fields are resolved to server " +
			"file ids by content digest, uploading only files the server does not " +
			"have, then the form is sent as JSON to its action.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := form.Load(args[0])
			if err != nil {
				return err
			}
			s, err := newSession(cmd, !dryRun)
			if err != nil {
				return err
			}
			skip := s.cfg.SkipEmpty
			if cmd.Flags().Changed("skip-empty") {
				skip = skipEmpty
			}
			if dryRun {
				if method != "" {
					f.Method = strings.ToUpper(method)
				}
				return preview(cmd, args[0], *f, skip)
			}
			return s.submit(cmd, *f, method, skip)
		},
	}
	cmd.Flags().StringVarP(&method, "method", "X", "", "HTTP method, overriding the form's")
	cmd.Flags().BoolVar(&skipEmpty, "skip-empty", false, "leave out fields with empty values (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the form and its JSON without sending")
	return cmd
}
