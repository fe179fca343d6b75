package usecase

import (
	"context"

	"github.com/sagi-l/ci-dashboard/internal/entity"
	"github.com/sagi-l/ci-dashboard/internal/upstream"
	"github.com/samber/do"
)

const (
	defaultHistoryLimit = 5
	maxHistoryLimit     = 50
)

type GetBuildHistoryUsecase interface {
	Execute(ctx context.Context, limit int) ([]entity.Build, error)
}

type getBuildHistoryUsecaseImpl struct {
	ci upstream.CIServer
}

// Execute implements GetBuildHistoryUsecase.
func (g *getBuildHistoryUsecaseImpl) Execute(ctx context.Context, limit int) ([]entity.Build, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return g.ci.History(ctx, limit)
}

func NewGetBuildHistoryUsecase(injector *do.Injector) (GetBuildHistoryUsecase, error) {
	return &getBuildHistoryUsecaseImpl{
		ci: do.MustInvoke[upstream.CIServer](injector),
	}, nil
}
