package usecase

import (
	"context"
	"sort"

	"github.com/sagi-l/ci-dashboard/internal/entity"
	"github.com/sagi-l/ci-dashboard/internal/upstream"
	"github.com/samber/do"
)

type ListPendingDeploymentsUsecase interface {
	Execute(ctx context.Context) ([]entity.DeploymentProposal, error)
}

type listPendingDeploymentsUsecaseImpl struct {
	sourceControl upstream.SourceControl
}

// Execute implements ListPendingDeploymentsUsecase. The listing is
// recomputed fresh on every call, oldest proposal first.
func (l *listPendingDeploymentsUsecaseImpl) Execute(ctx context.Context) ([]entity.DeploymentProposal, error) {
	proposals, err := l.sourceControl.ListOpenProposals(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(proposals, func(i, j int) bool {
		return proposals[i].CreatedAt.Before(proposals[j].CreatedAt)
	})
	return proposals, nil
}

func NewListPendingDeploymentsUsecase(injector *do.Injector) (ListPendingDeploymentsUsecase, error) {
	return &listPendingDeploymentsUsecaseImpl{
		sourceControl: do.MustInvoke[upstream.SourceControl](injector),
	}, nil
}
