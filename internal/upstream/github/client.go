// Package github implements the SourceControl capability against the
// GitHub REST API.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sagi-l/ci-dashboard/internal/config"
	"github.com/sagi-l/ci-dashboard/internal/entity"
	"github.com/sagi-l/ci-dashboard/internal/upstream"
)

const (
	defaultBaseURL = "https://api.github.com"
	requestTimeout = 30 * time.Second
)

type Client struct {
	baseURL string
	token   string
	owner   string
	repo    string
	client  *http.Client
}

var _ upstream.SourceControl = (*Client)(nil)

// New creates a GitHub adapter. baseURL overrides the API host for tests;
// pass empty string to use the real API.
func New(cfg config.GitHub, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   cfg.Token,
		owner:   cfg.Owner,
		repo:    cfg.Repo,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// FileContent implements upstream.SourceControl via the contents API. The
// returned sha is the blob revision required for a conditional update.
func (c *Client) FileContent(ctx context.Context, path, branch string) (string, string, error) {
	res, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/contents/%s?ref=%s", c.owner, c.repo, path, branch), nil)
	if err != nil {
		return "", "", err
	}
	defer res.Body.Close()

	var raw struct {
		Content string `json:"content"`
		SHA     string `json:"sha"`
	}
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return "", "", fmt.Errorf("%w: decode contents: %v", entity.ErrInvalidResponse, err)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(raw.Content, "\n", ""))
	if err != nil {
		return "", "", fmt.Errorf("%w: decode base64 content: %v", entity.ErrInvalidResponse, err)
	}
	return strings.TrimSpace(string(decoded)), raw.SHA, nil
}

// CommitFile implements upstream.SourceControl. The update is conditioned on
// the blob sha read earlier, so a concurrent change upstream fails the write
// instead of clobbering it.
func (c *Client) CommitFile(ctx context.Context, path, newContent, sha, branch string, author entity.Identity, message string) (string, error) {
	body := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(newContent)),
		"sha":     sha,
		"branch":  branch,
		"author":  map[string]string{"name": author.Name, "email": author.Email},
	}
	res, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/repos/%s/%s/contents/%s", c.owner, c.repo, path), body)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	var raw struct {
		Commit struct {
			SHA string `json:"sha"`
		} `json:"commit"`
	}
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("%w: decode commit response: %v", entity.ErrInvalidResponse, err)
	}
	return raw.Commit.SHA, nil
}

// WebhookHealth implements upstream.SourceControl. A hook whose last
// delivery failed means pushes are not reaching the CI server.
func (c *Client) WebhookHealth(ctx context.Context) (*entity.WebhookHealth, error) {
	res, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/hooks", c.owner, c.repo), nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var raw []struct {
		ID           int64  `json:"id"`
		Active       bool   `json:"active"`
		Config       struct{ URL string } `json:"config"`
		LastResponse struct {
			Code    int    `json:"code"`
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"last_response"`
	}
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode hooks: %v", entity.ErrInvalidResponse, err)
	}

	health := &entity.WebhookHealth{Status: "healthy"}
	for _, h := range raw {
		hook := entity.Webhook{
			ID:         h.ID,
			URL:        h.Config.URL,
			Active:     h.Active,
			Status:     "ok",
			LastCode:   h.LastResponse.Code,
			LastStatus: h.LastResponse.Status,
		}
		if h.Active && (h.LastResponse.Code >= 400 || h.LastResponse.Status == "misconfigured") {
			hook.Status = "failing"
			health.Status = "failing"
		}
		health.Webhooks = append(health.Webhooks, hook)
	}
	return health, nil
}

// ListOpenProposals implements upstream.SourceControl, oldest first.
func (c *Client) ListOpenProposals(ctx context.Context) ([]entity.DeploymentProposal, error) {
	res, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/pulls?state=open&sort=created&direction=asc", c.owner, c.repo), nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var raw []rawPull
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode pulls: %v", entity.ErrInvalidResponse, err)
	}

	proposals := make([]entity.DeploymentProposal, len(raw))
	for i, p := range raw {
		proposals[i] = p.toProposal()
	}
	return proposals, nil
}

// MergeProposal implements upstream.SourceControl. The merge is conditional
// on open state: a closed or already-merged pull yields ErrAlreadyResolved
// so that of two racing approve/reject calls exactly one wins.
func (c *Client) MergeProposal(ctx context.Context, number int) error {
	if err := c.ensureOpen(ctx, number); err != nil {
		return err
	}
	res, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/repos/%s/%s/pulls/%d/merge", c.owner, c.repo, number), map[string]any{})
	if err != nil {
		return err
	}
	res.Body.Close()
	return nil
}

// CloseProposal implements upstream.SourceControl, same conditional
// semantics as MergeProposal.
func (c *Client) CloseProposal(ctx context.Context, number int) error {
	if err := c.ensureOpen(ctx, number); err != nil {
		return err
	}
	res, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/repos/%s/%s/pulls/%d", c.owner, c.repo, number), map[string]any{"state": "closed"})
	if err != nil {
		return err
	}
	res.Body.Close()
	return nil
}

func (c *Client) ensureOpen(ctx context.Context, number int) error {
	res, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/pulls/%d", c.owner, c.repo, number), nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var raw rawPull
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return fmt.Errorf("%w: decode pull: %v", entity.ErrInvalidResponse, err)
	}
	if raw.State != "open" {
		return fmt.Errorf("%w: pull request #%d is %s", entity.ErrAlreadyResolved, number, raw.State)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var payload *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("github: marshal body: %w", err)
		}
		payload = bytes.NewReader(buf)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("github: new request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: github: %v", entity.ErrUnreachable, err)
	}
	switch {
	case res.StatusCode == http.StatusNotFound:
		res.Body.Close()
		return nil, fmt.Errorf("%w: github: %s", entity.ErrNotFound, path)
	case res.StatusCode == http.StatusMethodNotAllowed || res.StatusCode == http.StatusConflict:
		// The pulls merge endpoint answers 405/409 when the pull is no
		// longer mergeable; by then someone else resolved it.
		res.Body.Close()
		return nil, fmt.Errorf("%w: github: %s returned %s", entity.ErrAlreadyResolved, path, res.Status)
	case res.StatusCode >= 400:
		res.Body.Close()
		return nil, fmt.Errorf("%w: github: %s returned %s", entity.ErrInvalidResponse, path, res.Status)
	}
	return res, nil
}

// versionPattern matches a semantic version mentioned in a pull request
// title or head branch, e.g. "Deploy v1.2.4" or "deploy/1.2.4".
var versionPattern = regexp.MustCompile(`v?(\d+\.\d+\.\d+)`)

// rawPull is the GitHub API response shape for a pull request.
type rawPull struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	State     string `json:"state"`
	CreatedAt string `json:"created_at"`
	Head      struct {
		Ref string `json:"ref"`
	} `json:"head"`
}

func (p rawPull) toProposal() entity.DeploymentProposal {
	created, _ := time.Parse(time.RFC3339, p.CreatedAt)
	version := ""
	if m := versionPattern.FindStringSubmatch(p.Title); m != nil {
		version = m[1]
	} else if m := versionPattern.FindStringSubmatch(p.Head.Ref); m != nil {
		version = m[1]
	}
	return entity.DeploymentProposal{
		Number:    p.Number,
		Title:     p.Title,
		Version:   version,
		Branch:    p.Head.Ref,
		CreatedAt: created,
	}
}
