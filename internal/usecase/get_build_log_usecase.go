package usecase

import (
	"context"
	"fmt"

	"github.com/sagi-l/ci-dashboard/internal/entity"
	"github.com/sagi-l/ci-dashboard/internal/upstream"
	"github.com/samber/do"
)

type GetBuildLogUsecase interface {
	// Execute fetches one log chunk starting at the given byte offset.
	// buildNumber 0 means the latest build. All resume state is the
	// (buildNumber, start) pair; there is no per-client session.
	Execute(ctx context.Context, buildNumber int, start int64) (*entity.LogChunk, error)
}

type getBuildLogUsecaseImpl struct {
	ci upstream.CIServer
}

// Execute implements GetBuildLogUsecase.
func (g *getBuildLogUsecaseImpl) Execute(ctx context.Context, buildNumber int, start int64) (*entity.LogChunk, error) {
	if start < 0 {
		return nil, fmt.Errorf("%w: negative log offset %d", entity.ErrValidation, start)
	}
	if buildNumber < 0 {
		return nil, fmt.Errorf("%w: negative build number %d", entity.ErrValidation, buildNumber)
	}
	if buildNumber == 0 {
		last, err := g.ci.LastBuild(ctx)
		if err != nil {
			return nil, err
		}
		buildNumber = last.Number
	}
	return g.ci.LogChunk(ctx, buildNumber, start)
}

func NewGetBuildLogUsecase(injector *do.Injector) (GetBuildLogUsecase, error) {
	return &getBuildLogUsecaseImpl{
		ci: do.MustInvoke[upstream.CIServer](injector),
	}, nil
}
