package usecase

import (
	"context"

	"github.com/sagi-l/ci-dashboard/internal/upstream"
	"github.com/samber/do"
)

type RejectDeploymentUsecase interface {
	Execute(ctx context.Context, number int) error
}

type rejectDeploymentUsecaseImpl struct {
	sourceControl upstream.SourceControl
}

// Execute implements RejectDeploymentUsecase. Closing without merging is
// terminal; the proposal disappears from the pending listing.
func (r *rejectDeploymentUsecaseImpl) Execute(ctx context.Context, number int) error {
	return r.sourceControl.CloseProposal(ctx, number)
}

func NewRejectDeploymentUsecase(injector *do.Injector) (RejectDeploymentUsecase, error) {
	return &rejectDeploymentUsecaseImpl{
		sourceControl: do.MustInvoke[upstream.SourceControl](injector),
	}, nil
}
