package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/interactions-toolbox/toolbox/internal/extension"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-scan the namespace whenever packages change",
	Long: `Watch the namespace directory and print the extension list every time a
package is installed, modified or removed. Stops on interrupt.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ns := namespace()
	if err := os.MkdirAll(ns.Dir, 0o755); err != nil {
		return fmt.Errorf("creating namespace directory %s: %w", ns.Dir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	w := extension.NewWatcher(ns, func(records []*extension.Record, err error) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "re-scan failed: %v\n", err)
			return
		}
		fmt.Fprintf(out, "%d extension(s) in %s:\n", len(records), ns.Dir)
		for _, r := range records {
			fmt.Fprintf(out, "  %s\n", r)
		}
	})

	go func() {
		select {
		case <-w.Ready():
			fmt.Fprintf(out, "Watching %s (Ctrl-C to stop).\n", ns.Dir)
		case <-ctx.Done():
		}
	}()

	return w.Run(ctx)
}
