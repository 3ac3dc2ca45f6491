package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/gowheel/internal/logger"
	"github.com/glorpus-work/gowheel/pkg/archive"
	"github.com/glorpus-work/gowheel/pkg/config"
	"github.com/glorpus-work/gowheel/pkg/entrypoints"
	"github.com/glorpus-work/gowheel/pkg/errors"
	"github.com/glorpus-work/gowheel/pkg/hooks"
	"github.com/glorpus-work/gowheel/pkg/installer"
	"github.com/glorpus-work/gowheel/pkg/wheel"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var (
		name        string
		interpreter string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "install WHEEL|DIR",
		Short: "Install a wheel",
		Long: `Install a wheel archive, or a wheel that was already unpacked, into the
configured install scheme. The project name is taken from the wheel
filename or the .dist-info directory unless --name is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args[0], name, interpreter, dryRun)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name (defaults to the name in the wheel)")
	cmd.Flags().StringVar(&interpreter, "python", "", "Interpreter path written into scripts (defaults to config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print what would be installed without moving anything")

	return cmd
}

func runInstall(cmd *cobra.Command, source, name, interpreter string, dryRun bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if interpreter != "" {
		cfg.Interpreter.Path = interpreter
	}

	wheelDir := source
	identity, err := identify(source, name)
	if err != nil {
		return err
	}

	if strings.HasSuffix(source, wheel.Ext) {
		if err := checkSupported(cfg, identity); err != nil {
			return err
		}

		tempDir, err := os.MkdirTemp("", "gowheel-unpack-")
		if err != nil {
			return fmt.Errorf("failed to create unpack directory: %w", err)
		}
		defer func() { _ = os.RemoveAll(tempDir) }()

		if err := archive.NewManager().ExtractAll(cmd.Context(), source, tempDir); err != nil {
			return fmt.Errorf("failed to unpack %s: %w", source, err)
		}
		wheelDir = tempDir
	}

	if name == "" {
		name = identity.Name
	}

	if dryRun {
		return printInstallPlan(cmd.OutOrStdout(), cfg, name, wheelDir)
	}

	hookManager := hooks.NewHookManager()
	if cfg.Settings.HooksDir != "" {
		if err := hooks.LoadHooksFromDir(hookManager, cfg.Settings.HooksDir); err != nil {
			return err
		}
	}

	inst := installer.New(cfg.Scheme, cfg.Interpreter, hookManager)
	inst.Platform = cfg.Settings.Platform

	report, err := inst.Install(cmd.Context(), installer.Request{
		Name:     name,
		Version:  identity.Version,
		WheelDir: wheelDir,
	})
	if err != nil {
		return fmt.Errorf("failed to install %s: %w", name, err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Installed %s into %s\n", identity, report.Root)
	for _, path := range report.Generated {
		_, _ = fmt.Fprintf(out, "  launcher %s\n", path)
	}
	return nil
}

// identify reads the wheel identity from an archive filename or from the
// .dist-info directory of an unpacked wheel. With a project name the
// directory is looked up the way the installer does it.
func identify(source, name string) (*wheel.Name, error) {
	if strings.HasSuffix(source, wheel.Ext) {
		return wheel.ParseName(filepath.Base(source))
	}
	if name != "" {
		distInfo, err := installer.LocateDistInfo(name, source)
		if err != nil {
			return nil, err
		}
		return wheel.ParseName(distInfo)
	}

	matches, err := filepath.Glob(filepath.Join(source, "*"+wheel.DistInfoExt))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no %s directory in %s", errors.ErrMissingMetadata, wheel.DistInfoExt, source)
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("%w: %d %s directories in %s (use --name)",
			errors.ErrAmbiguousMetadata, len(matches), wheel.DistInfoExt, source)
	}
	return wheel.ParseName(filepath.Base(matches[0]))
}

func checkSupported(cfg *config.Config, identity *wheel.Name) error {
	supported, err := cfg.SupportedTags()
	if err != nil {
		return err
	}
	if !identity.Supported(supported) {
		return fmt.Errorf("%w: %s", errors.ErrUnsupportedWheel, identity.Filename)
	}
	return nil
}

// printInstallPlan reports where the wheel would land and which launchers
// would be written.
func printInstallPlan(out io.Writer, cfg *config.Config, name, wheelDir string) error {
	if err := cfg.Scheme.Validate(); err != nil {
		return err
	}
	purelib, err := installer.RootIsPurelib(name, wheelDir)
	if err != nil {
		return err
	}

	identity, err := identify(wheelDir, name)
	if err != nil {
		return err
	}
	eps, err := entrypoints.ParseFile(filepath.Join(wheelDir, filepath.Base(identity.Filename), entrypoints.FileName))
	if err != nil {
		return err
	}
	launchers, err := entrypoints.ApplyAliases(eps, cfg.Interpreter)
	if err != nil {
		return err
	}
	launchers = append(launchers, eps.Console...)
	launchers = append(launchers, eps.GUI...)

	tabWriter := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintf(tabWriter, "project\t%s\n", name)
	_, _ = fmt.Fprintf(tabWriter, "root\t%s\n", cfg.Scheme.Root(purelib))
	_, _ = fmt.Fprintf(tabWriter, "root-is-purelib\t%t\n", purelib)
	for _, ep := range launchers {
		_, _ = fmt.Fprintf(tabWriter, "%s launcher\t%s -> %s\n", ep.Kind, filepath.Join(cfg.Scheme.Scripts, ep.Name), ep.Target())
	}
	if err := tabWriter.Flush(); err != nil {
		return err
	}

	logger.Debug("Dry run, nothing installed", logger.Fields{"package": name})
	return nil
}
