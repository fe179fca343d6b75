package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/sagi-l/ci-dashboard/internal/entity"
)

// fakeCIServer is a scriptable CIServer for usecase tests.
type fakeCIServer struct {
	pingErr      error
	lastBuild    *entity.Build
	lastBuildErr error
	completed    *entity.Build
	completedErr error
	stages       map[int][]entity.Stage
	stagesErr    error
	chunks       map[string]*entity.LogChunk
	history      []entity.Build
	historyErr   error
}

func (f *fakeCIServer) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeCIServer) LastBuild(ctx context.Context) (*entity.Build, error) {
	if f.lastBuildErr != nil {
		return nil, f.lastBuildErr
	}
	return f.lastBuild, nil
}

func (f *fakeCIServer) LastCompletedBuild(ctx context.Context) (*entity.Build, error) {
	if f.completedErr != nil {
		return nil, f.completedErr
	}
	return f.completed, nil
}

func (f *fakeCIServer) Stages(ctx context.Context, buildNumber int) ([]entity.Stage, error) {
	if f.stagesErr != nil {
		return nil, f.stagesErr
	}
	return f.stages[buildNumber], nil
}

func (f *fakeCIServer) LogChunk(ctx context.Context, buildNumber int, start int64) (*entity.LogChunk, error) {
	chunk, ok := f.chunks[fmt.Sprintf("%d:%d", buildNumber, start)]
	if !ok {
		return nil, fmt.Errorf("%w: build #%d", entity.ErrNotFound, buildNumber)
	}
	return chunk, nil
}

func (f *fakeCIServer) History(ctx context.Context, limit int) ([]entity.Build, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	if len(f.history) > limit {
		return f.history[:limit], nil
	}
	return f.history, nil
}

// fakeGitOps is a scriptable GitOps controller.
type fakeGitOps struct {
	pingErr   error
	status    *entity.SyncStatus
	statusErr error
}

func (f *fakeGitOps) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeGitOps) AppStatus(ctx context.Context, app string) (*entity.SyncStatus, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.status, nil
}

// committedFile records one CommitFile call.
type committedFile struct {
	Path    string
	Content string
	SHA     string
	Branch  string
	Author  entity.Identity
	Message string
}

// fakeSourceControl is an in-memory source-control host. Proposal state
// transitions are guarded by a mutex so concurrent approve/reject races
// resolve the way the real conditional merge/close API does.
type fakeSourceControl struct {
	mu sync.Mutex

	fileContent string
	fileSHA     string
	fileErr     error
	commitErr   error
	commits     []committedFile

	webhook    *entity.WebhookHealth
	webhookErr error

	open     map[int]entity.DeploymentProposal
	resolved map[int]string
	listErr  error
}

func (f *fakeSourceControl) FileContent(ctx context.Context, path, branch string) (string, string, error) {
	if f.fileErr != nil {
		return "", "", f.fileErr
	}
	return f.fileContent, f.fileSHA, nil
}

func (f *fakeSourceControl) CommitFile(ctx context.Context, path, newContent, sha, branch string, author entity.Identity, message string) (string, error) {
	if f.commitErr != nil {
		return "", f.commitErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commits = append(f.commits, committedFile{
		Path:    path,
		Content: newContent,
		SHA:     sha,
		Branch:  branch,
		Author:  author,
		Message: message,
	})
	return fmt.Sprintf("commit-%d", len(f.commits)), nil
}

func (f *fakeSourceControl) WebhookHealth(ctx context.Context) (*entity.WebhookHealth, error) {
	if f.webhookErr != nil {
		return nil, f.webhookErr
	}
	if f.webhook == nil {
		return &entity.WebhookHealth{Status: "healthy"}, nil
	}
	return f.webhook, nil
}

func (f *fakeSourceControl) ListOpenProposals(ctx context.Context) ([]entity.DeploymentProposal, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	proposals := make([]entity.DeploymentProposal, 0, len(f.open))
	for _, p := range f.open {
		proposals = append(proposals, p)
	}
	return proposals, nil
}

func (f *fakeSourceControl) MergeProposal(ctx context.Context, number int) error {
	return f.resolve(number, "merged")
}

func (f *fakeSourceControl) CloseProposal(ctx context.Context, number int) error {
	return f.resolve(number, "closed")
}

func (f *fakeSourceControl) resolve(number int, outcome string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.resolved[number]; ok {
		return fmt.Errorf("%w: pull request #%d", entity.ErrAlreadyResolved, number)
	}
	if _, ok := f.open[number]; !ok {
		return fmt.Errorf("%w: pull request #%d", entity.ErrNotFound, number)
	}
	delete(f.open, number)
	if f.resolved == nil {
		f.resolved = map[int]string{}
	}
	f.resolved[number] = outcome
	return nil
}

// fakeTriggerRepository records audit rows in memory.
type fakeTriggerRepository struct {
	mu      sync.Mutex
	records []*entity.TriggerRecord
	err     error
}

func (f *fakeTriggerRepository) Create(ctx context.Context, rec *entity.TriggerRecord) (*entity.TriggerRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.ID = uint(len(f.records) + 1)
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeTriggerRepository) ListRecent(ctx context.Context, limit int) ([]*entity.TriggerRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make([]*entity.TriggerRecord, 0, limit)
	for i := len(f.records) - 1; i >= 0 && len(res) < limit; i-- {
		res = append(res, f.records[i])
	}
	return res, nil
}
