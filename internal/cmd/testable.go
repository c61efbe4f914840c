package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nudibranch/nudi/cli/internal/testable"
)

type testableFlags struct {
	project    int
	name       string
	target     string
	executable string
	hidden     bool
	build      []int
	execution  []int
	expected   []int
	catalog    string
	dryRun     bool
}

func (tf *testableFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&tf.name, "name", "", "testable name")
	fs.StringVar(&tf.target, "make-target", "", "make target to build")
	fs.StringVar(&tf.executable, "executable", "", "executable to run")
	fs.BoolVar(&tf.hidden, "hidden", false, "hide results from students")
	fs.IntSliceVar(&tf.build, "build-file", nil, "build file ids")
	fs.IntSliceVar(&tf.execution, "execution-file", nil, "execution file ids")
	fs.IntSliceVar(&tf.expected, "expected-file", nil, "expected file (verifier) ids")
	fs.StringVar(&tf.catalog, "catalog", "", "JSON file listing the project's files")
	fs.BoolVar(&tf.dryRun, "dry-run", false, "show the form and its JSON without sending")
}

func (tf *testableFlags) info(id int) testable.Info {
	return testable.Info{
		ID:             id,
		Name:           tf.name,
		Hidden:         tf.hidden,
		Target:         tf.target,
		Executable:     tf.executable,
		BuildFiles:     tf.build,
		ExecutionFiles: tf.execution,
		ExpectedFiles:  tf.expected,
	}
}

func (tf *testableFlags) run(cmd *cobra.Command, id int) error {
	catalog := &testable.Catalog{}
	if tf.catalog != "" {
		var err error
		if catalog, err = testable.LoadCatalog(tf.catalog); err != nil {
			return err
		}
	}
	f, err := testable.Build(tf.info(id), tf.project, catalog)
	if err != nil {
		return err
	}

	s, err := newSession(cmd, !tf.dryRun)
	if err != nil {
		return err
	}
	if tf.dryRun {
		title := "New Testable"
		if id != 0 {
			title = fmt.Sprintf("Testable %d", id)
		}
		return preview(cmd, title, f, true)
	}
	// Testable forms always leave out empty fields.
	return s.submit(cmd, f, "", true)
}

// TestableCmd returns the `nudi testable` command group.
func TestableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testable",
		Short: "Create, edit and delete testables",
	}
	cmd.AddCommand(testableNewCmd())
	cmd.AddCommand(testableEditCmd())
	cmd.AddCommand(testableDeleteCmd())
	return cmd
}

func testableNewCmd() *cobra.Command {
	var tf testableFlags
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a testable in a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return tf.run(cmd, 0)
		},
	}
	tf.bind(cmd)
	cmd.Flags().IntVarP(&tf.project, "project", "p", 0, "project id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func testableEditCmd() *cobra.Command {
	var tf testableFlags
	cmd := &cobra.Command{
		Use:   "edit <testable-id>",
		Short: "Replace a testable's settings and files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return tf.run(cmd, id)
		},
	}
	tf.bind(cmd)
	return cmd
}

func testableDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <testable-id>",
		Short: "Delete a testable",
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
			return s.confirmDelete(cmd, fmt.Sprintf("testable %d", id), testable.URL(id), yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
