package usecase

import (
	"context"

	"github.com/sagi-l/ci-dashboard/internal/config"
	"github.com/sagi-l/ci-dashboard/internal/entity"
	"github.com/sagi-l/ci-dashboard/internal/upstream"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

// SystemsStatus reports per-backend reachability plus the GitOps sync view.
type SystemsStatus struct {
	Jenkins       entity.SystemHealth  `json:"jenkins"`
	ArgoCD        entity.SystemHealth  `json:"argocd"`
	ArgoCDSync    entity.SyncStatus    `json:"argocd_sync"`
	GitHubWebhook entity.WebhookHealth `json:"github_webhook"`
}

type GetSystemsStatusUsecase interface {
	Execute(ctx context.Context) (*SystemsStatus, error)
}

type getSystemsStatusUsecaseImpl struct {
	ci            upstream.CIServer
	gitops        upstream.GitOps
	sourceControl upstream.SourceControl
	appName       string
}

// Execute implements GetSystemsStatusUsecase. The probes fan out
// concurrently and every field degrades on its own: one controller being
// down turns only its section unknown, never the whole response. Each
// probe closure swallows its error after recording it, so Wait always
// returns nil.
func (g *getSystemsStatusUsecaseImpl) Execute(ctx context.Context) (*SystemsStatus, error) {
	status := &SystemsStatus{}

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		if err := g.ci.Ping(ctx); err != nil {
			status.Jenkins = entity.UnhealthySystem(err)
		} else {
			status.Jenkins = entity.HealthySystem()
		}
		return nil
	})
	grp.Go(func() error {
		if err := g.gitops.Ping(ctx); err != nil {
			status.ArgoCD = entity.UnhealthySystem(err)
		} else {
			status.ArgoCD = entity.HealthySystem()
		}
		return nil
	})
	grp.Go(func() error {
		sync, err := g.gitops.AppStatus(ctx, g.appName)
		if err != nil {
			status.ArgoCDSync = entity.UnknownSyncStatus(g.appName)
		} else {
			status.ArgoCDSync = *sync
		}
		return nil
	})
	grp.Go(func() error {
		hooks, err := g.sourceControl.WebhookHealth(ctx)
		if err != nil {
			status.GitHubWebhook = entity.WebhookHealth{Status: "unknown"}
		} else {
			status.GitHubWebhook = *hooks
		}
		return nil
	})
	_ = grp.Wait()

	return status, nil
}

func NewGetSystemsStatusUsecase(injector *do.Injector) (GetSystemsStatusUsecase, error) {
	cfg := do.MustInvoke[*config.Config](injector)
	return &getSystemsStatusUsecaseImpl{
		ci:            do.MustInvoke[upstream.CIServer](injector),
		gitops:        do.MustInvoke[upstream.GitOps](injector),
		sourceControl: do.MustInvoke[upstream.SourceControl](injector),
		appName:       cfg.ArgoCD.AppName,
	}, nil
}
