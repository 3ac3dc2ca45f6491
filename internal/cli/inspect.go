package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/gowheel/internal/logger"
	"github.com/glorpus-work/gowheel/pkg/archive"
	"github.com/glorpus-work/gowheel/pkg/fsutil"
	"github.com/glorpus-work/gowheel/pkg/installer"
	"github.com/glorpus-work/gowheel/pkg/wheel"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect WHEEL...",
		Short: "Show wheel identities",
		Long: `Parse wheel filenames (or .dist-info directory names) and report their identity, tags and support
index against the configured tags. With several wheels the candidates are
ranked using the configured strategy. The WHEEL metadata is printed for
archives that exist on disk.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	supported, err := cfg.SupportedTags()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	names := make([]*wheel.Name, 0, len(args))
	for _, arg := range args {
		name, err := wheel.ParseName(filepath.Base(arg))
		if err != nil {
			return err
		}
		names = append(names, name)

		if err := printIdentity(out, name, supported); err != nil {
			return err
		}
		if fsutil.Exists(arg) && !name.IsDistInfo() {
			printWheelMetadata(cmd, out, arg, name)
		}
		_, _ = fmt.Fprintln(out)
	}

	if len(names) > 1 {
		strategy := wheel.StrategyFor(cfg.Settings.Strategy)
		_, _ = fmt.Fprintf(out, "ranking (%s):\n", strategy)
		for i, name := range wheel.Rank(names, supported, strategy) {
			_, _ = fmt.Fprintf(out, "  %d. %s\n", i+1, name.Filename)
		}
	}
	return nil
}

func printIdentity(out io.Writer, name *wheel.Name, supported []wheel.Tag) error {
	tags := make([]string, 0, len(name.Tags()))
	for _, tag := range name.Tags() {
		tags = append(tags, tag.String())
	}

	tabWriter := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintf(tabWriter, "file\t%s\n", name.Filename)
	_, _ = fmt.Fprintf(tabWriter, "name\t%s\n", name.Name)
	_, _ = fmt.Fprintf(tabWriter, "version\t%s\n", name.Version)
	if name.Build != "" {
		_, _ = fmt.Fprintf(tabWriter, "build\t%s\n", name.Build)
	}
	if name.IsDistInfo() {
		_, _ = fmt.Fprintf(tabWriter, "tags\tnone (metadata directory)\n")
		return tabWriter.Flush()
	}
	_, _ = fmt.Fprintf(tabWriter, "tags\t%s\n", strings.Join(tags, ", "))
	if index, ok := name.SupportIndexMin(supported); ok {
		_, _ = fmt.Fprintf(tabWriter, "support index\t%d\n", index)
	} else {
		_, _ = fmt.Fprintf(tabWriter, "support index\tunsupported\n")
	}
	return tabWriter.Flush()
}

// printWheelMetadata prints the WHEEL file of an archive. Failures are only
// logged; the identity has already been reported.
func printWheelMetadata(cmd *cobra.Command, out io.Writer, path string, name *wheel.Name) {
	member := name.DistInfoDir() + "/" + installer.WheelFileName
	data, err := archive.NewManager().ReadFile(cmd.Context(), path, member)
	if err != nil {
		logger.Warn("Failed to read wheel metadata", logger.Fields{"wheel": path, "error": err.Error()})
		return
	}
	_, _ = fmt.Fprintf(out, "--- %s\n%s", member, data)
}
