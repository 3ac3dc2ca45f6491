package orchestrator_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/gowheel/pkg/errors"
	"github.com/glorpus-work/gowheel/pkg/orchestrator"
	ocmocks "github.com/glorpus-work/gowheel/pkg/orchestrator/mocks"
)

// writeWheel stands in for a successful build by dropping a wheel into the
// destination directory.
func writeWheel(req orchestrator.BuildRequest) error {
	name := fmt.Sprintf("%s-1.0-py3-none-any.whl", req.Name)
	return os.WriteFile(filepath.Join(req.WheelDir, name), []byte("PK"), 0o644)
}

func TestBuild_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	wheelDir := filepath.Join(t.TempDir(), "wheelhouse")

	pkg1 := orchestrator.SourcePackage{Name: "pkg1", SourceDir: "/src/pkg1"}
	pkg2 := orchestrator.SourcePackage{Name: "pkg2", SourceDir: "/src/pkg2"}

	runner := ocmocks.NewMockBuildRunner(ctrl)
	gomock.InOrder(
		runner.EXPECT().RunBuild(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req orchestrator.BuildRequest) error {
				assert.Equal(t, "pkg1", req.Name)
				assert.Equal(t, "/src/pkg1", req.SourceDir)
				assert.Equal(t, wheelDir, req.WheelDir)
				assert.Equal(t, []string{"--no-user-cfg"}, req.GlobalOptions)
				assert.Equal(t, []string{"--python-tag", "py3"}, req.BuildOptions)
				return writeWheel(req)
			}),
		runner.EXPECT().RunBuild(gomock.Any(), gomock.Any()).Return(fmt.Errorf("%w: exit status 1", errors.ErrBuildFailed)),
	)

	var events []orchestrator.Event
	orch := &orchestrator.Orchestrator{
		Runner: runner,
		Hooks:  orchestrator.Hooks{OnEvent: func(e orchestrator.Event) { events = append(events, e) }},
	}

	result, err := orch.Build(context.Background(), []orchestrator.SourcePackage{pkg1, pkg2}, orchestrator.BuildOptions{
		WheelDir:      wheelDir,
		GlobalOptions: []string{"--no-user-cfg"},
		BuildOptions:  []string{"--python-tag", "py3"},
	})
	require.NoError(t, err)
	assert.Equal(t, []orchestrator.SourcePackage{pkg1}, result.Succeeded)
	assert.Equal(t, []orchestrator.SourcePackage{pkg2}, result.Failed)
	assert.Empty(t, result.Skipped)

	entries, err := os.ReadDir(wheelDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pkg1-1.0-py3-none-any.whl", entries[0].Name())

	phases := make([]string, 0, len(events))
	for _, e := range events {
		phases = append(phases, e.Phase)
	}
	assert.Equal(t, []string{"building", "built", "building", "failed", "done"}, phases)
	assert.Equal(t, "built pkg1 and failed pkg2", events[len(events)-1].Msg)
}

func TestBuild_SkipsWheels(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := ocmocks.NewMockBuildRunner(ctrl)
	runner.EXPECT().RunBuild(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	wheel := orchestrator.SourcePackage{Name: "prebuilt", IsWheel: true}
	source := orchestrator.SourcePackage{Name: "source", SourceDir: "/src/source"}

	orch := &orchestrator.Orchestrator{Runner: runner}
	result, err := orch.Build(context.Background(), []orchestrator.SourcePackage{wheel, source}, orchestrator.BuildOptions{
		WheelDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, []orchestrator.SourcePackage{source}, result.Succeeded)
	assert.Empty(t, result.Failed)
	assert.Equal(t, []orchestrator.SourcePackage{wheel}, result.Skipped)
}

func TestBuild_OnlyWheels(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := ocmocks.NewMockBuildRunner(ctrl)

	wheelDir := filepath.Join(t.TempDir(), "never-created")
	orch := &orchestrator.Orchestrator{Runner: runner}
	result, err := orch.Build(context.Background(), []orchestrator.SourcePackage{{Name: "a", IsWheel: true}}, orchestrator.BuildOptions{
		WheelDir: wheelDir,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Succeeded)
	assert.Empty(t, result.Failed)
	assert.NoDirExists(t, wheelDir)
}

func TestBuild_NoRunner(t *testing.T) {
	orch := &orchestrator.Orchestrator{}
	_, err := orch.Build(context.Background(), nil, orchestrator.BuildOptions{})
	assert.ErrorIs(t, err, errors.ErrNoBuildRunner)
}

func TestBuild_CancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := ocmocks.NewMockBuildRunner(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := &orchestrator.Orchestrator{Runner: runner}
	_, err := orch.Build(ctx, []orchestrator.SourcePackage{{Name: "a", SourceDir: "/src/a"}}, orchestrator.BuildOptions{
		WheelDir: t.TempDir(),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild_CancelledMidBatchKeepsPartialResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := ocmocks.NewMockBuildRunner(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pkg1 := orchestrator.SourcePackage{Name: "pkg1", SourceDir: "/src/pkg1"}
	pkg2 := orchestrator.SourcePackage{Name: "pkg2", SourceDir: "/src/pkg2"}

	// Only the first build runs; the batch stops once the context is cancelled.
	runner.EXPECT().RunBuild(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req orchestrator.BuildRequest) error {
			cancel()
			return writeWheel(req)
		})

	orch := &orchestrator.Orchestrator{Runner: runner}
	result, err := orch.Build(ctx, []orchestrator.SourcePackage{pkg1, pkg2}, orchestrator.BuildOptions{
		WheelDir: t.TempDir(),
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []orchestrator.SourcePackage{pkg1}, result.Succeeded)
	assert.Empty(t, result.Failed)
}
