// Package health reduces raw CI state into the canonical pipeline health.
package health

import "github.com/sagi-l/ci-dashboard/internal/entity"

// Reduce maps the latest build and its stages to a PipelineHealth. It is a
// pure function; the build-level result always dominates stage detail, so a
// successful build with a failed stage still reduces to healthy. Stages are
// accepted only so callers can hand over the full poll snapshot; they are
// advisory, display-only data.
func Reduce(build *entity.Build, stages []entity.Stage) entity.PipelineHealth {
	if build == nil {
		return entity.HealthUnknown
	}
	if build.Building || build.Result == "" {
		return entity.HealthBuilding
	}
	switch build.Result {
	case entity.ResultSuccess:
		return entity.HealthHealthy
	case entity.ResultUnstable:
		return entity.HealthUnstable
	default:
		// FAILURE, ABORTED and anything unrecognized count as failed.
		return entity.HealthFailed
	}
}
