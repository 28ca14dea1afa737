package cli

import (
	"fmt"

	"github.com/interactions-toolbox/toolbox/internal/runtime"
	"github.com/interactions-toolbox/toolbox/internal/toolbox"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <extension> <service> [args...]",
	Short: "Run a command service of an extension",
	Long: `Resolve an extension and run one of the command services declared in its
manifest. Extra arguments are appended to the service's command line and the
service's exit status becomes the exit status of this command.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRun,
}

func init() {
	runCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ext, service := args[0], args[1]

	tools := toolbox.New(nil, namespace())
	svc, err := tools.Add(cmd.Context(), service, ext)
	if err != nil {
		return err
	}

	command, ok := svc.(*runtime.Command)
	if !ok {
		return fmt.Errorf("service %q of %s is %T, not a command service", service, ext, svc)
	}
	command.Stdout = cmd.OutOrStdout()
	command.Stderr = cmd.ErrOrStderr()

	out, err := command.Run(cmd.Context(), args[2:]...)
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		return &ExitError{Code: out.ExitCode}
	}
	return nil
}
