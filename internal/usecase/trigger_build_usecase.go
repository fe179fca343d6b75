package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/sagi-l/ci-dashboard/internal/config"
	"github.com/sagi-l/ci-dashboard/internal/entity"
	"github.com/sagi-l/ci-dashboard/internal/repository"
	"github.com/sagi-l/ci-dashboard/internal/upstream"
	"github.com/samber/do"
)

type TriggerBuildUsecase interface {
	Execute(ctx context.Context) (*entity.TriggerResult, error)
}

type triggerBuildUsecaseImpl struct {
	sourceControl upstream.SourceControl
	triggers      repository.TriggerRepository
	cfg           *config.Config

	// inflight is the single-flight guard: a version bump is not
	// idempotent, so a second concurrent trigger must be refused, not
	// queued or deduplicated.
	inflight atomic.Bool
}

// Execute implements TriggerBuildUsecase. A trigger bumps the patch
// component of the VERSION file and commits it as the dashboard identity;
// the push webhook then starts the build. The commit must never look like
// one of the automation's own deployment commits, or the CI pipeline's
// loop-prevention check would refuse it — and conversely, committing as the
// automation identity would make the pipeline skip the user's build.
func (t *triggerBuildUsecaseImpl) Execute(ctx context.Context) (*entity.TriggerResult, error) {
	if !t.inflight.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("%w: a trigger is already in flight", entity.ErrConflict)
	}
	defer t.inflight.Store(false)

	author := entity.Identity{Name: t.cfg.Trigger.AuthorName, Email: t.cfg.Trigger.AuthorEmail}
	if author.Name == t.cfg.Trigger.AutomationAuthor {
		return nil, fmt.Errorf("%w: trigger author %q is the automation identity", entity.ErrValidation, author.Name)
	}

	// A failing webhook means the bump would be committed but no build
	// would ever start; refuse before writing anything.
	hooks, err := t.sourceControl.WebhookHealth(ctx)
	if err != nil {
		return nil, err
	}
	if hooks.Failing() {
		return nil, fmt.Errorf("%w: push webhook is failing, a build would not start", entity.ErrUnreachable)
	}

	gh := t.cfg.GitHub
	content, sha, err := t.sourceControl.FileContent(ctx, gh.VersionPath, gh.Branch)
	if err != nil {
		return nil, err
	}

	current, err := entity.ParseVersion(content)
	if err != nil {
		return nil, err
	}
	next := current.BumpPatch()

	message := fmt.Sprintf("Bump version to %s", next)
	if strings.Contains(message, t.cfg.Trigger.SkipMarker) {
		return nil, fmt.Errorf("%w: commit message would carry the skip marker", entity.ErrValidation)
	}

	commitSHA, err := t.sourceControl.CommitFile(ctx, gh.VersionPath, next.String()+"\n", sha, gh.Branch, author, message)
	if err != nil {
		return nil, err
	}

	record := &entity.TriggerRecord{
		Job:             t.cfg.Jenkins.Job,
		PreviousVersion: current.String(),
		NewVersion:      next.String(),
		CommitSHA:       commitSHA,
		Actor:           author.Name,
	}
	if _, err := t.triggers.Create(ctx, record); err != nil {
		// The bump is already committed upstream; a failed audit write
		// must not fail the trigger.
		zerolog.Ctx(ctx).Warn().Err(err).Str("version", next.String()).Msg("failed to record trigger audit entry")
	}

	return &entity.TriggerResult{
		PreviousVersion: current.String(),
		NewVersion:      next.String(),
		CommitSHA:       commitSHA,
	}, nil
}

func NewTriggerBuildUsecase(injector *do.Injector) (TriggerBuildUsecase, error) {
	return &triggerBuildUsecaseImpl{
		sourceControl: do.MustInvoke[upstream.SourceControl](injector),
		triggers:      do.MustInvoke[repository.TriggerRepository](injector),
		cfg:           do.MustInvoke[*config.Config](injector),
	}, nil
}
