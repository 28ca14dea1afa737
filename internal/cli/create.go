package cli

import (
	"fmt"
	"path/filepath"

	"github.com/interactions-toolbox/toolbox/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	createRuntime string
	createService string
	createDir     string
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Scaffold a new extension package",
	Long: `Create a new extension package with a manifest and one command service.
By default the package is written into the namespace directory so it is
discovered on the next scan.

Examples:
  toolbox create sample
  toolbox create music --runtime node --service play`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createRuntime, "runtime", "exec", "Service runtime (exec or node)")
	createCmd.Flags().StringVar(&createService, "service", scaffold.DefaultService, "Name of the generated service")
	createCmd.Flags().StringVar(&createDir, "dir", "", "Parent directory (default: the namespace directory)")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := args[0]
	parent := createDir
	if parent == "" {
		parent = settings.NamespaceDir
	}
	outDir := filepath.Join(parent, name)

	data := scaffold.NewData(name, settings.NamespacePrefix, createRuntime, createService)
	result, err := scaffold.Generate(data, outDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s in %s\n", data.Qualified, result.OutputDir)
	for _, f := range result.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	return nil
}
