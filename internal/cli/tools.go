package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"text/tabwriter"

	"github.com/interactions-toolbox/toolbox/internal/toolbox"
	"github.com/spf13/cobra"
)

var toolsFile string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Manage the toolbox file",
	Long: `Read and edit the toolbox file (toolbox.file, default ./toolbox.yaml) that
declares which extension services a bot registers at startup.`,
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Resolve and list the tools declared in the toolbox file",
	Args:  cobra.NoArgs,
	RunE:  runToolsList,
}

var toolsAddCmd = &cobra.Command{
	Use:   "add <tool> <extension>",
	Short: "Declare a tool, checking that the extension provides it",
	Args:  cobra.ExactArgs(2),
	RunE:  runToolsAdd,
}

var toolsRemoveCmd = &cobra.Command{
	Use:   "remove <tool>",
	Short: "Remove a tool from the toolbox file",
	Args:  cobra.ExactArgs(1),
	RunE:  runToolsRemove,
}

func init() {
	toolsCmd.PersistentFlags().StringVarP(&toolsFile, "file", "f", "", "Toolbox file, overriding toolbox.file")
	toolsCmd.AddCommand(toolsListCmd, toolsAddCmd, toolsRemoveCmd)
	rootCmd.AddCommand(toolsCmd)
}

func toolboxPath() string {
	if toolsFile != "" {
		return toolsFile
	}
	return settings.ToolboxFile
}

// loadToolboxFile reads the toolbox file; a missing file is an empty one.
func loadToolboxFile(path string) (*toolbox.File, error) {
	f, err := toolbox.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &toolbox.File{}, nil
	}
	return f, err
}

func runToolsList(cmd *cobra.Command, args []string) error {
	path := toolboxPath()
	f, err := loadToolboxFile(path)
	if err != nil {
		return err
	}
	if len(f.Tools) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No tools declared in %s.\n", path)
		return nil
	}

	tools := toolbox.New(nil, namespace())
	if err := tools.AddAll(cmd.Context(), f); err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TOOL\tEXTENSION\tSERVICE")
	for _, entry := range f.Tools {
		svc := tools.MustTool(entry.Name)
		fmt.Fprintf(w, "%s\t%s\t%v\n", entry.Name, namespace().Qualify(entry.Extension), svc)
	}
	return w.Flush()
}

func runToolsAdd(cmd *cobra.Command, args []string) error {
	name, ext := args[0], args[1]
	path := toolboxPath()

	f, err := loadToolboxFile(path)
	if err != nil {
		return err
	}
	if err := f.AddEntry(toolbox.ToolEntry{Name: name, Extension: ext}); err != nil {
		return err
	}

	// Resolve the whole file so a missing service fails before anything is
	// written.
	if err := toolbox.New(nil, namespace()).AddAll(cmd.Context(), f); err != nil {
		return err
	}

	if err := toolbox.SaveFile(path, f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s from %s to %s.\n", name, ext, path)
	return nil
}

func runToolsRemove(cmd *cobra.Command, args []string) error {
	path := toolboxPath()
	f, err := toolbox.LoadFile(path)
	if err != nil {
		return err
	}
	if err := f.RemoveEntry(args[0]); err != nil {
		return err
	}
	if err := toolbox.SaveFile(path, f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s.\n", args[0], path)
	return nil
}
