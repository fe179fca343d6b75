package repository

import (
	"github.com/sagi-l/ci-dashboard/internal/entity"
	"gorm.io/gorm"
)

type TriggerRecord struct {
	gorm.Model
	Job             string
	PreviousVersion string
	NewVersion      string
	CommitSHA       string
	Actor           string
}

func (t *TriggerRecord) ToEntity() *entity.TriggerRecord {
	return &entity.TriggerRecord{
		ID:              t.ID,
		Job:             t.Job,
		PreviousVersion: t.PreviousVersion,
		NewVersion:      t.NewVersion,
		CommitSHA:       t.CommitSHA,
		Actor:           t.Actor,
		CreatedAt:       t.CreatedAt,
	}
}

func (t *TriggerRecord) FromEntity(e *entity.TriggerRecord) {
	t.ID = e.ID
	t.Job = e.Job
	t.PreviousVersion = e.PreviousVersion
	t.NewVersion = e.NewVersion
	t.CommitSHA = e.CommitSHA
	t.Actor = e.Actor
}
