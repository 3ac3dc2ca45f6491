package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/gowheel/pkg/record"
)

// NewUninstallPathsCmd creates the uninstall-paths command.
func NewUninstallPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall-paths DIST_INFO_DIR",
		Short: "List the files an uninstall would remove",
		Long: `Print every path listed in the RECORD of an installed distribution,
together with the compiled .pyc sibling of each .py file. Nothing is removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			distInfo := filepath.Clean(args[0])
			rec, err := record.ReadFile(filepath.Join(distInfo, record.FileName))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for path := range record.UninstallPaths(filepath.Dir(distInfo), rec) {
				if _, err := fmt.Fprintln(out, path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
