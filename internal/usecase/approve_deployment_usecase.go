package usecase

import (
	"context"

	"github.com/sagi-l/ci-dashboard/internal/upstream"
	"github.com/samber/do"
)

type ApproveDeploymentUsecase interface {
	Execute(ctx context.Context, number int) error
}

type approveDeploymentUsecaseImpl struct {
	sourceControl upstream.SourceControl
}

// Execute implements ApproveDeploymentUsecase. Merging the proposal into
// the tracked branch is the signal the GitOps controller rolls out from;
// there is no synchronous confirmation of the rollout itself. The merge is
// conditional on the proposal still being open, so a concurrent reject
// cannot both win.
func (a *approveDeploymentUsecaseImpl) Execute(ctx context.Context, number int) error {
	return a.sourceControl.MergeProposal(ctx, number)
}

func NewApproveDeploymentUsecase(injector *do.Injector) (ApproveDeploymentUsecase, error) {
	return &approveDeploymentUsecaseImpl{
		sourceControl: do.MustInvoke[upstream.SourceControl](injector),
	}, nil
}
