package usecase

import (
	"context"

	"github.com/sagi-l/ci-dashboard/internal/entity"
	"github.com/sagi-l/ci-dashboard/internal/upstream"
	"github.com/samber/do"
)

type GetDeploymentVersionUsecase interface {
	Execute(ctx context.Context) (*entity.DeploymentVersion, error)
}

type getDeploymentVersionUsecaseImpl struct {
	orchestrator upstream.Orchestrator
}

// Execute implements GetDeploymentVersionUsecase.
func (g *getDeploymentVersionUsecaseImpl) Execute(ctx context.Context) (*entity.DeploymentVersion, error) {
	return g.orchestrator.DeploymentVersion(ctx)
}

func NewGetDeploymentVersionUsecase(injector *do.Injector) (GetDeploymentVersionUsecase, error) {
	return &getDeploymentVersionUsecaseImpl{
		orchestrator: do.MustInvoke[upstream.Orchestrator](injector),
	}, nil
}
