// Package upstream declares the capability interfaces for the external
// systems the dashboard observes and drives. Consumers depend on these
// interfaces only; one concrete adapter exists per backend.
package upstream

import (
	"context"

	"github.com/sagi-l/ci-dashboard/internal/entity"
)

// CIServer is the build server the pipeline runs on.
type CIServer interface {
	Ping(ctx context.Context) error
	LastBuild(ctx context.Context) (*entity.Build, error)
	// LastCompletedBuild returns the most recent build with a meaningful
	// terminal result, skipping aborted runs (e.g. skip-marker commits the
	// pipeline refused to build).
	LastCompletedBuild(ctx context.Context) (*entity.Build, error)
	Stages(ctx context.Context, buildNumber int) ([]entity.Stage, error)
	LogChunk(ctx context.Context, buildNumber int, start int64) (*entity.LogChunk, error)
	History(ctx context.Context, limit int) ([]entity.Build, error)
}

// GitOps is the sync controller reconciling cluster state with manifests.
type GitOps interface {
	Ping(ctx context.Context) error
	AppStatus(ctx context.Context, app string) (*entity.SyncStatus, error)
}

// SourceControl is the hosted repository the pipeline watches.
type SourceControl interface {
	FileContent(ctx context.Context, path, branch string) (content, sha string, err error)
	CommitFile(ctx context.Context, path, newContent, sha, branch string, author entity.Identity, message string) (commitSHA string, err error)
	WebhookHealth(ctx context.Context) (*entity.WebhookHealth, error)
	ListOpenProposals(ctx context.Context) ([]entity.DeploymentProposal, error)
	// MergeProposal and CloseProposal are conditional on the proposal still
	// being open; a resolved proposal yields ErrAlreadyResolved, an unknown
	// one ErrNotFound.
	MergeProposal(ctx context.Context, number int) error
	CloseProposal(ctx context.Context, number int) error
}

// Orchestrator is the workload scheduler running the deployed application.
type Orchestrator interface {
	DeploymentVersion(ctx context.Context) (*entity.DeploymentVersion, error)
}
