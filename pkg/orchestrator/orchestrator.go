package orchestrator

import (
	"context"

	"github.com/glorpus-work/gowheel/internal/logger"
	"github.com/glorpus-work/gowheel/pkg/errors"
	"github.com/glorpus-work/gowheel/pkg/fsutil"
	"github.com/glorpus-work/gowheel/pkg/util"
)

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Build runs the build of every package that is not already a wheel, one at
// a time. A failed build is recorded in the result and the batch carries on.
// The returned error is reserved for problems that prevent any build from
// running, such as a missing runner or an unusable wheel directory, and for
// cancellation of ctx, which stops the batch before the next package and
// returns the partial result.
func (o *Orchestrator) Build(ctx context.Context, pkgs []SourcePackage, opts BuildOptions) (Result, error) {
	var result Result
	if o.Runner == nil {
		return result, errors.ErrNoBuildRunner
	}

	var buildSet []SourcePackage
	for _, pkg := range pkgs {
		if pkg.IsWheel {
			logger.Info("Skipping building wheel", logger.Fields{"package": pkg.Name})
			emit(o.Hooks, Event{Phase: "skipped", ID: pkg.Name, Msg: "already a wheel"})
			result.Skipped = append(result.Skipped, pkg)
			continue
		}
		buildSet = append(buildSet, pkg)
	}
	if len(buildSet) == 0 {
		emit(o.Hooks, Event{Phase: "done", Msg: "nothing to build"})
		return result, nil
	}

	if err := fsutil.EnsureDir(opts.WheelDir); err != nil {
		return result, errors.Wrap(err, "failed to prepare wheel directory")
	}

	logger.Infof("Building wheels for collected packages: %s", util.OxfordJoin(names(buildSet), "and"))
	for _, pkg := range buildSet {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if o.buildOne(ctx, pkg, opts) {
			result.Succeeded = append(result.Succeeded, pkg)
		} else {
			result.Failed = append(result.Failed, pkg)
		}
	}

	if len(result.Succeeded) > 0 {
		logger.Success("Successfully built "+util.OxfordJoin(names(result.Succeeded), "and"), logger.Fields{
			"wheel_dir": opts.WheelDir,
		})
	}
	if len(result.Failed) > 0 {
		logger.Error("Failed to build " + util.OxfordJoin(names(result.Failed), "and"))
	}
	emit(o.Hooks, Event{Phase: "done", Msg: summary(result)})
	return result, nil
}

// buildOne runs one build and reports whether it succeeded.
func (o *Orchestrator) buildOne(ctx context.Context, pkg SourcePackage, opts BuildOptions) bool {
	emit(o.Hooks, Event{Phase: "building", ID: pkg.Name, Msg: pkg.SourceDir})
	logger.Info("Running setup.py bdist_wheel", logger.Fields{
		"package":     pkg.Name,
		"destination": opts.WheelDir,
	})

	err := o.Runner.RunBuild(ctx, BuildRequest{
		Name:          pkg.Name,
		SourceDir:     pkg.SourceDir,
		WheelDir:      opts.WheelDir,
		GlobalOptions: opts.GlobalOptions,
		BuildOptions:  opts.BuildOptions,
	})
	if err != nil {
		logger.Error("Failed building wheel", logger.Fields{"package": pkg.Name, "error": err.Error()})
		emit(o.Hooks, Event{Phase: "failed", ID: pkg.Name, Msg: err.Error()})
		return false
	}
	emit(o.Hooks, Event{Phase: "built", ID: pkg.Name})
	return true
}

func names(pkgs []SourcePackage) []string {
	out := make([]string, 0, len(pkgs))
	for _, pkg := range pkgs {
		out = append(out, pkg.Name)
	}
	return out
}

func summary(r Result) string {
	var parts []string
	if len(r.Succeeded) > 0 {
		parts = append(parts, "built "+util.OxfordJoin(names(r.Succeeded), "and"))
	}
	if len(r.Failed) > 0 {
		parts = append(parts, "failed "+util.OxfordJoin(names(r.Failed), "and"))
	}
	return util.OxfordJoin(parts, "and")
}
