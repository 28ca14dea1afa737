package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/interactions-toolbox/toolbox/internal/manifest"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate an extension manifest",
	Long: `Validate an extension manifest against the manifest schema. The path may be
the manifest itself or the package directory containing ` + manifest.FileName + `.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, manifest.FileName)
	}

	result, err := manifest.ValidateFile(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.Valid {
		fmt.Fprintf(out, "%s is valid.\n", path)
		return nil
	}

	fmt.Fprintf(out, "%s has %d problem(s):\n", path, len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "  - %s\n", issue)
	}
	return &manifest.InvalidError{Path: path, Issues: result.Issues}
}
