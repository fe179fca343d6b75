// Package argocd implements the GitOps capability against the Argo CD API.
package argocd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sagi-l/ci-dashboard/internal/config"
	"github.com/sagi-l/ci-dashboard/internal/entity"
	"github.com/sagi-l/ci-dashboard/internal/upstream"
	"github.com/sagi-l/ci-dashboard/internal/utils"
)

const requestTimeout = 10 * time.Second

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

var _ upstream.GitOps = (*Client)(nil)

func New(cfg config.ArgoCD) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// Ping implements upstream.GitOps. Listing applications doubles as the
// reachability probe, same as the controller's own CLI does.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.get(ctx, "/applications")
	if err != nil {
		return err
	}
	res.Body.Close()
	return nil
}

// AppStatus implements upstream.GitOps.
func (c *Client) AppStatus(ctx context.Context, app string) (*entity.SyncStatus, error) {
	res, err := c.get(ctx, "/applications/"+app)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var raw rawApplication
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode application: %v", entity.ErrInvalidResponse, err)
	}
	return raw.toSyncStatus(app), nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1"+path, nil)
	if err != nil {
		return nil, fmt.Errorf("argocd: new request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: argocd: %v", entity.ErrUnreachable, err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil, fmt.Errorf("%w: argocd: %s", entity.ErrNotFound, path)
	}
	if res.StatusCode >= 400 {
		res.Body.Close()
		return nil, fmt.Errorf("%w: argocd: %s returned %s", entity.ErrInvalidResponse, path, res.Status)
	}
	return res, nil
}

// rawApplication is the Argo CD API response shape for one application.
type rawApplication struct {
	Status struct {
		Health struct {
			Status string `json:"status"`
		} `json:"health"`
		Sync struct {
			Status   string `json:"status"`
			Revision string `json:"revision"`
		} `json:"sync"`
		OperationState struct {
			Phase string `json:"phase"`
		} `json:"operationState"`
	} `json:"status"`
}

func (r rawApplication) toSyncStatus(app string) *entity.SyncStatus {
	s := &entity.SyncStatus{
		Name:           app,
		HealthStatus:   r.Status.Health.Status,
		SyncStatus:     r.Status.Sync.Status,
		Revision:       utils.ShortSHA(r.Status.Sync.Revision),
		OperationPhase: r.Status.OperationState.Phase,
	}
	if s.HealthStatus == "" {
		s.HealthStatus = "Unknown"
	}
	if s.SyncStatus == "" {
		s.SyncStatus = "Unknown"
	}
	return s
}
