package cli

import (
	"fmt"

	"github.com/interactions-toolbox/toolbox/internal/extension"
	"github.com/spf13/cobra"
)

var (
	installRescan   bool
	installAttempts int
)

var installCmd = &cobra.Command{
	Use:   "install <package>",
	Short: "Install an extension package",
	Long: `Install an extension package with the configured package manager
(installer.program, default pip) as "<program> install <package>".

A freshly installed package is not visible until the namespace is scanned
again; pass --rescan to list the namespace once the install finishes.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installRescan, "rescan", false, "Re-scan the namespace after installing")
	installCmd.Flags().IntVar(&installAttempts, "attempts", 0, "Install attempts, overriding installer.attempts")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	attempts := settings.InstallAttempts
	if installAttempts > 0 {
		attempts = installAttempts
	}

	inst := &extension.Installer{
		Program:   settings.InstallerProgram,
		ExtraArgs: settings.InstallerArgs,
		Stdout:    cmd.OutOrStdout(),
		Stderr:    cmd.ErrOrStderr(),
		Attempts:  attempts,
	}
	if err := inst.Install(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Installed %s.\n", args[0])

	if !installRescan {
		return nil
	}
	return runList(cmd, nil)
}
