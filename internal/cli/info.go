package cli

import (
	"fmt"
	"strings"

	"github.com/interactions-toolbox/toolbox/internal/runtime"
	"github.com/spf13/cobra"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info <extension>",
	Short: "Show details about an installed extension",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	r, err := namespace().Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if infoJSON {
		return printJSON(cmd, newListEntry(r))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:     %s\n", r.Name)
	if r.Version != nil {
		fmt.Fprintf(out, "Version:  %s\n", r.Version)
	}
	if m := r.Module; m != nil {
		if m.Description != "" {
			fmt.Fprintf(out, "About:    %s\n", m.Description)
		}
		if mf := m.Manifest; mf != nil && mf.Author != "" {
			fmt.Fprintf(out, "Author:   %s\n", mf.Author)
		}
		if mf := m.Manifest; mf != nil && len(mf.Tags) > 0 {
			fmt.Fprintf(out, "Tags:     %s\n", strings.Join(mf.Tags, ", "))
		}
		fmt.Fprintf(out, "Path:     %s\n", m.Dir)
	}
	fmt.Fprintf(out, "Setup:    %t\n", r.HasSetup())

	if r.Base == nil {
		fmt.Fprintln(out, "Base:     none")
		return nil
	}
	if r.Base.Name != "" {
		fmt.Fprintf(out, "Base:     %s\n", r.Base.Name)
	}
	if r.Base.Link != "" {
		fmt.Fprintf(out, "Link:     %s\n", r.Base.Link)
	}
	fmt.Fprintln(out, "Services:")
	for _, name := range r.Base.ServiceNames() {
		svc, _ := r.Base.Service(name)
		if c, ok := svc.(*runtime.Command); ok {
			fmt.Fprintf(out, "  %s\t%s %s\n", name, c.Runtime, strings.Join(c.Argv, " "))
			continue
		}
		fmt.Fprintf(out, "  %s\t%T\n", name, svc)
	}
	return nil
}
