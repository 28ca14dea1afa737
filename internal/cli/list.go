package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/interactions-toolbox/toolbox/internal/extension"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed extensions",
	Long:  `Scan the extension namespace and list every package that imports cleanly.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents an extension for display.
type listEntry struct {
	Name     string   `json:"name"`
	Version  string   `json:"version,omitempty"`
	Path     string   `json:"path"`
	Services []string `json:"services"`
	Setup    bool     `json:"setup"`
}

func newListEntry(r *extension.Record) listEntry {
	e := listEntry{
		Name:     r.Name,
		Version:  r.Version.String(),
		Services: r.Base.ServiceNames(),
		Setup:    r.HasSetup(),
	}
	if r.Module != nil {
		e.Path = r.Module.Dir
	}
	if e.Services == nil {
		e.Services = []string{}
	}
	return e
}

func runList(cmd *cobra.Command, args []string) error {
	records, err := namespace().List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing extensions: %w", err)
	}

	entries := make([]listEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, newListEntry(r))
	}

	if listJSON {
		return printJSON(cmd, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No extensions installed in %s.\n", settings.NamespaceDir)
		return nil
	}
	return printListTable(cmd, entries)
}

func printListTable(cmd *cobra.Command, entries []listEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tSERVICES")
	for _, e := range entries {
		version := e.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\n", e.Name, version, len(e.Services))
	}
	return w.Flush()
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
