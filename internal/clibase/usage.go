// internal/clibase/usage.go
package clibase

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"phrasex/internal/runutil"
	"phrasex/internal/version"
)

// NewRoot returns a command configured the way every phrasex tool expects:
// errors are returned rather than printed, flag and argument errors are
// classified as usage errors and --version prints the build version.
func NewRoot(use, short string, args cobra.PositionalArgs, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, a []string) error {
			if args == nil {
				return nil
			}
			return runutil.Usage(args(cmd, a))
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return runutil.Usage(err)
	})
	cmd.SetVersionTemplate(fmt.Sprintf("%s {{.Version}}\n", cmd.Name()))
	cmd.CompletionOptions.DisableDefaultCmd = true
	return cmd
}

// Execute runs cmd with argv and maps the outcome to an exit code, printing
// the error (and a usage hint for usage errors) to stderr.
func Execute(ctx context.Context, cmd *cobra.Command, argv []string, stderr io.Writer) int {
	cmd.SetArgs(argv)
	err := cmd.ExecuteContext(ctx)
	if err != nil && !runutil.Silent(err) {
		fmt.Fprintf(stderr, "%s: %v\n", cmd.Name(), err)
		if runutil.ExitCode(err) == runutil.ExitUsage {
			fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", cmd.Name())
		}
	}
	return runutil.ExitCode(err)
}
