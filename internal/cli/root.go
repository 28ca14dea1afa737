package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/interactions-toolbox/toolbox/internal/branding"
	"github.com/interactions-toolbox/toolbox/internal/config"
	"github.com/interactions-toolbox/toolbox/internal/extension"
	"github.com/interactions-toolbox/toolbox/internal/logging"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagLogLevel  string
	flagNamespace string
)

// settings is loaded once per invocation by the root pre-run hook.
var settings config.Settings

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs, discovers and inspects bot extensions living under the
` + branding.NamespacePrefix() + ` namespace, and manages the toolbox file that declares
which extension services a bot registers at startup.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		s, err := config.Current()
		if err != nil {
			return err
		}
		if flagNamespace != "" {
			s.NamespaceDir = flagNamespace
		}
		if flagLogLevel != "" {
			s.LogLevel = flagLogLevel
		}
		settings = s

		logging.Init(logging.Config{
			Level:  s.LogLevel,
			Format: s.LogFormat,
			Output: os.Stderr,
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagNamespace, "namespace-dir", "", "Directory backing the extension namespace")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

// ExitError carries a process exit status out of a command.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func namespace() *extension.Namespace {
	return extension.NewNamespace(settings.NamespacePrefix, settings.NamespaceDir)
}
