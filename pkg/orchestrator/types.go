//go:generate mockgen -destination=./mocks/orchestrator.go . BuildRunner

package orchestrator

import (
	"context"
)

// BuildRunner turns one source tree into a wheel in req.WheelDir.
type BuildRunner interface {
	RunBuild(ctx context.Context, req BuildRequest) error
}

// BuildRequest is the input of a single build.
type BuildRequest struct {
	Name          string
	SourceDir     string
	WheelDir      string
	GlobalOptions []string
	BuildOptions  []string
}

// SourcePackage is a package whose source has already been fetched and
// unpacked.
type SourcePackage struct {
	Name      string
	SourceDir string
	// IsWheel marks packages that are already wheels; they are not built.
	IsWheel bool
}

// Orchestrator builds wheels for a batch of source packages.
type Orchestrator struct {
	Runner BuildRunner
	Hooks  Hooks // Hooks for progress and event notifications
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // building|built|failed|skipped|done
	ID    string // package name
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// BuildOptions control orchestrator build execution.
type BuildOptions struct {
	WheelDir      string
	GlobalOptions []string
	BuildOptions  []string
}

// Result partitions the packages of a build run.
type Result struct {
	Succeeded []SourcePackage
	Failed    []SourcePackage
	// Skipped holds the packages that were already wheels.
	Skipped []SourcePackage
}
