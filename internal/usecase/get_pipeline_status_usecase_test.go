package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/sagi-l/ci-dashboard/internal/entity"
	"github.com/sagi-l/ci-dashboard/internal/upstream"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipelineStatusUsecase(t *testing.T, ci upstream.CIServer) GetPipelineStatusUsecase {
	t.Helper()
	injector := do.New()
	do.ProvideValue(injector, ci)
	uc, err := NewGetPipelineStatusUsecase(injector)
	require.NoError(t, err)
	return uc
}

func TestGetPipelineStatus_RunningBuildIsBuilding(t *testing.T) {
	ci := &fakeCIServer{
		lastBuild: &entity.Build{Number: 42, Building: true, Branch: "main"},
		stages: map[int][]entity.Stage{
			42: {
				{Name: "Lint", Status: entity.StageSuccess},
				{Name: "Test", Status: entity.StageSuccess},
				{Name: "Build", Status: entity.StageRunning},
			},
		},
	}
	uc := newPipelineStatusUsecase(t, ci)

	status, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.HealthBuilding, status.Health)
	assert.Equal(t, 42, status.BuildNumber)
	assert.Equal(t, "main", status.Branch)
	require.Len(t, status.Stages, 3)
	assert.Equal(t, entity.StageRunning, status.Stages[2].Status)
}

func TestGetPipelineStatus_UnreachableCIIsUnknown(t *testing.T) {
	ci := &fakeCIServer{lastBuildErr: fmt.Errorf("%w: jenkins down", entity.ErrUnreachable)}
	uc := newPipelineStatusUsecase(t, ci)

	status, err := uc.Execute(context.Background())
	require.NoError(t, err, "an unreachable CI server degrades the payload, it does not fail the read")
	assert.Equal(t, entity.HealthUnknown, status.Health)
	assert.Empty(t, status.Stages)
}

func TestGetPipelineStatus_AbortedFallsBackToLastCompleted(t *testing.T) {
	ci := &fakeCIServer{
		lastBuild: &entity.Build{Number: 43, Result: entity.ResultAborted, Branch: "main"},
		completed: &entity.Build{Number: 41, Result: entity.ResultSuccess, Branch: "main"},
		stages: map[int][]entity.Stage{
			41: {{Name: "Build & Push", Status: entity.StageSuccess}},
			43: {{Name: "Check Trigger", Status: entity.StageAborted}},
		},
	}
	uc := newPipelineStatusUsecase(t, ci)

	status, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.HealthHealthy, status.Health, "a loop-prevention abort must not mask the real health")
	assert.Equal(t, 41, status.BuildNumber)
	require.Len(t, status.Stages, 1)
	assert.Equal(t, "Build & Push", status.Stages[0].Name)
}

func TestGetPipelineStatus_AbortedWithNoCompletedBuildIsUnknown(t *testing.T) {
	ci := &fakeCIServer{
		lastBuild:    &entity.Build{Number: 1, Result: entity.ResultAborted},
		completedErr: fmt.Errorf("%w: no completed build", entity.ErrNotFound),
	}
	uc := newPipelineStatusUsecase(t, ci)

	status, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.HealthUnknown, status.Health)
}

func TestGetPipelineStatus_FailedBuild(t *testing.T) {
	ci := &fakeCIServer{
		lastBuild: &entity.Build{Number: 40, Result: entity.ResultFailure, Branch: "main"},
	}
	uc := newPipelineStatusUsecase(t, ci)

	status, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.HealthFailed, status.Health)
	assert.NotNil(t, status.Stages, "stage fetch failures degrade to an empty list")
}
