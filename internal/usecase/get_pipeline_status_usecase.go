package usecase

import (
	"context"
	"errors"

	"github.com/sagi-l/ci-dashboard/internal/entity"
	"github.com/sagi-l/ci-dashboard/internal/health"
	"github.com/sagi-l/ci-dashboard/internal/upstream"
	"github.com/samber/do"
)

// PipelineStatus is the aggregate the dashboard polls on its fast cadence.
type PipelineStatus struct {
	Health      entity.PipelineHealth `json:"health"`
	LastBuild   *entity.Build         `json:"last_build"`
	Stages      []entity.Stage        `json:"stages"`
	BuildNumber int                   `json:"build_number,omitempty"`
	Branch      string                `json:"branch"`
}

type GetPipelineStatusUsecase interface {
	Execute(ctx context.Context) (*PipelineStatus, error)
}

type getPipelineStatusUsecaseImpl struct {
	ci upstream.CIServer
}

// Execute implements GetPipelineStatusUsecase. An unreachable CI server
// degrades the payload to unknown instead of failing the call. When the
// latest build was aborted (the pipeline refusing a skip-marker commit),
// health and stages come from the last completed build instead, so a
// loop-prevention abort never masks the real pipeline state.
func (g *getPipelineStatusUsecaseImpl) Execute(ctx context.Context) (*PipelineStatus, error) {
	last, err := g.ci.LastBuild(ctx)
	if err != nil {
		if errors.Is(err, entity.ErrUnreachable) || errors.Is(err, entity.ErrNotFound) {
			return &PipelineStatus{Health: entity.HealthUnknown, Stages: []entity.Stage{}, Branch: "main"}, nil
		}
		return nil, err
	}

	display := last
	h := health.Reduce(last, nil)
	if !last.Building && last.Result == entity.ResultAborted {
		completed, err := g.ci.LastCompletedBuild(ctx)
		if err != nil {
			h = entity.HealthUnknown
		} else {
			display = completed
			h = health.Reduce(completed, nil)
		}
	}

	stages, err := g.ci.Stages(ctx, display.Number)
	if err != nil {
		stages = []entity.Stage{}
	}

	branch := last.Branch
	if branch == "" {
		branch = "main"
	}

	return &PipelineStatus{
		Health:      h,
		LastBuild:   last,
		Stages:      stages,
		BuildNumber: display.Number,
		Branch:      branch,
	}, nil
}

func NewGetPipelineStatusUsecase(injector *do.Injector) (GetPipelineStatusUsecase, error) {
	return &getPipelineStatusUsecaseImpl{
		ci: do.MustInvoke[upstream.CIServer](injector),
	}, nil
}
