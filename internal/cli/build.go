package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/gowheel/pkg/errors"
	"github.com/glorpus-work/gowheel/pkg/orchestrator"
	"github.com/glorpus-work/gowheel/pkg/wheel"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	var (
		wheelDir    string
		interpreter string
	)

	cmd := &cobra.Command{
		Use:   "build SOURCE_DIR...",
		Short: "Build wheels from source trees",
		Long: `Build a wheel for every source tree with setup.py bdist_wheel.
Arguments that are already wheel archives are skipped. A failed build does
not stop the remaining ones.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, wheelDir, interpreter)
		},
	}

	cmd.Flags().StringVar(&wheelDir, "wheel-dir", "", "Directory receiving the built wheels (defaults to config)")
	cmd.Flags().StringVar(&interpreter, "python", "", "Interpreter running the builds (defaults to config)")

	return cmd
}

func runBuild(cmd *cobra.Command, sources []string, wheelDir, interpreter string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if wheelDir == "" {
		wheelDir = cfg.Settings.WheelDir
	}
	if interpreter == "" {
		interpreter = cfg.Interpreter.Path
	}
	if interpreter == "" {
		return errors.ErrMissingInterpreter
	}

	pkgs := make([]orchestrator.SourcePackage, 0, len(sources))
	for _, source := range sources {
		pkgs = append(pkgs, orchestrator.SourcePackage{
			Name:      filepath.Base(filepath.Clean(source)),
			SourceDir: source,
			IsWheel:   strings.HasSuffix(source, wheel.Ext),
		})
	}

	out := cmd.OutOrStdout()
	orch := &orchestrator.Orchestrator{
		Runner: orchestrator.NewSetupPyRunner(interpreter),
		Hooks: orchestrator.Hooks{OnEvent: func(e orchestrator.Event) {
			if e.ID != "" {
				_, _ = fmt.Fprintf(out, "%s: %s (%s)\n", e.Phase, e.Msg, e.ID)
			} else {
				_, _ = fmt.Fprintf(out, "%s: %s\n", e.Phase, e.Msg)
			}
		}},
	}

	result, err := orch.Build(cmd.Context(), pkgs, orchestrator.BuildOptions{
		WheelDir:      wheelDir,
		GlobalOptions: cfg.Build.GlobalOptions,
		BuildOptions:  cfg.Build.BuildOptions,
	})
	if err != nil {
		return err
	}
	if len(result.Failed) > 0 {
		return fmt.Errorf("%w for %d of %d packages", errors.ErrBuildFailed, len(result.Failed), len(pkgs))
	}
	return nil
}
