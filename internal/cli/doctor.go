package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"

	"github.com/interactions-toolbox/toolbox/internal/config"
	"github.com/interactions-toolbox/toolbox/internal/toolbox"
	"github.com/spf13/cobra"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the toolbox environment",
	Long: `Check the configuration file, the namespace directory, the package manager
and the runtimes services need, then import every extension and resolve the
toolbox file. With --fix, missing directories are created.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Create missing directories")
	rootCmd.AddCommand(doctorCmd)
}

// errDoctor is returned when at least one check failed.
var errDoctor = errors.New("doctor found problems")

func runDoctor(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	failed := false

	fmt.Fprintln(w, "Environment check:")

	checkFileExists(w, config.FilePath())
	if !checkDirExists(w, settings.NamespaceDir, doctorFix) {
		failed = true
	}
	if !checkProgram(w, settings.InstallerProgram, true) {
		failed = true
	}
	checkProgram(w, "node", false)

	records, err := namespace().List(cmd.Context())
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		failed = true
	} else {
		fmt.Fprintf(w, "  [ OK ] %d extension(s) import cleanly\n", len(records))
	}

	if !checkToolboxFile(cmd, w) {
		failed = true
	}

	if failed {
		return errDoctor
	}
	return nil
}

func checkFileExists(w io.Writer, path string) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(w, "  [MISS] %s does not exist (defaults apply)\n", path)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", path)
}

func checkDirExists(w io.Writer, path string, fix bool) bool {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", path)
		if fix {
			if mkErr := os.MkdirAll(path, 0755); mkErr != nil {
				fmt.Fprintf(w, "  [FAIL] Could not create %s: %v\n", path, mkErr)
				return false
			}
			fmt.Fprintf(w, "  [FIX ] Created %s\n", path)
		}
		return true
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return false
	}
	if !info.IsDir() {
		fmt.Fprintf(w, "  [FAIL] %s exists but is not a directory\n", path)
		return false
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", path)
	return true
}

func checkProgram(w io.Writer, name string, required bool) bool {
	path, err := exec.LookPath(name)
	if err == nil {
		fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
		return true
	}
	if required {
		fmt.Fprintf(w, "  [FAIL] %s not found on PATH\n", name)
		return false
	}
	fmt.Fprintf(w, "  [WARN] %s not found on PATH\n", name)
	return true
}

func checkToolboxFile(cmd *cobra.Command, w io.Writer) bool {
	path := settings.ToolboxFile
	f, err := toolbox.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", path)
		return true
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return false
	}
	if err := toolbox.New(nil, namespace()).AddAll(cmd.Context(), f); err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return false
	}
	fmt.Fprintf(w, "  [ OK ] %s declares %d resolvable tool(s)\n", path, len(f.Tools))
	return true
}
