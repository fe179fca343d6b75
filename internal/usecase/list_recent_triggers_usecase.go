package usecase

import (
	"context"

	"github.com/sagi-l/ci-dashboard/internal/entity"
	"github.com/sagi-l/ci-dashboard/internal/repository"
	"github.com/samber/do"
)

const defaultTriggerLimit = 20

type ListRecentTriggersUsecase interface {
	Execute(ctx context.Context, limit int) ([]*entity.TriggerRecord, error)
}

type listRecentTriggersUsecaseImpl struct {
	triggers repository.TriggerRepository
}

// Execute implements ListRecentTriggersUsecase.
func (l *listRecentTriggersUsecaseImpl) Execute(ctx context.Context, limit int) ([]*entity.TriggerRecord, error) {
	if limit <= 0 {
		limit = defaultTriggerLimit
	}
	return l.triggers.ListRecent(ctx, limit)
}

func NewListRecentTriggersUsecase(injector *do.Injector) (ListRecentTriggersUsecase, error) {
	return &listRecentTriggersUsecaseImpl{
		triggers: do.MustInvoke[repository.TriggerRepository](injector),
	}, nil
}
