package repository

import (
	"context"

	"github.com/sagi-l/ci-dashboard/internal/entity"
	"gorm.io/gorm"
)

// TriggerRepository is the audit trail of accepted version bumps. It is the
// only thing this service persists; pipeline state itself always lives in
// the external systems.
type TriggerRepository interface {
	Create(ctx context.Context, rec *entity.TriggerRecord) (*entity.TriggerRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.TriggerRecord, error)
}

type triggerRepositoryImpl struct {
	db *gorm.DB
}

func NewTriggerRepository(db *gorm.DB) TriggerRepository {
	return &triggerRepositoryImpl{db: db}
}

// Create appends one audit row.
func (r *triggerRepositoryImpl) Create(ctx context.Context, rec *entity.TriggerRecord) (*entity.TriggerRecord, error) {
	var model TriggerRecord
	model.FromEntity(rec)
	if err := gorm.G[TriggerRecord](r.db).Create(ctx, &model); err != nil {
		return nil, err
	}
	return model.ToEntity(), nil
}

// ListRecent returns the newest records first.
func (r *triggerRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*entity.TriggerRecord, error) {
	founds, err := gorm.G[TriggerRecord](r.db).Order("created_at DESC").Limit(limit).Find(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*entity.TriggerRecord, len(founds))
	for i, f := range founds {
		res[i] = f.ToEntity()
	}
	return res, nil
}
