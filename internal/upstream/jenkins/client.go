// Package jenkins implements the CIServer capability against the Jenkins
// REST and Blue Ocean APIs.
package jenkins

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sagi-l/ci-dashboard/internal/config"
	"github.com/sagi-l/ci-dashboard/internal/entity"
	"github.com/sagi-l/ci-dashboard/internal/upstream"
)

const requestTimeout = 10 * time.Second

type Client struct {
	baseURL string
	job     string
	user    string
	token   string
	client  *http.Client
}

var _ upstream.CIServer = (*Client)(nil)

func New(cfg config.Jenkins) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		job:     cfg.Job,
		user:    cfg.User,
		token:   cfg.Token,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// Ping implements upstream.CIServer.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.get(ctx, "/api/json", nil)
	if err != nil {
		return err
	}
	res.Body.Close()
	return nil
}

// LastBuild implements upstream.CIServer.
func (c *Client) LastBuild(ctx context.Context) (*entity.Build, error) {
	return c.buildAt(ctx, "lastBuild")
}

// LastCompletedBuild implements upstream.CIServer. Jenkins keeps permalinks
// per terminal result; the newest of lastSuccessfulBuild, lastFailedBuild
// and lastUnstableBuild is the last build that was not aborted.
func (c *Client) LastCompletedBuild(ctx context.Context) (*entity.Build, error) {
	var newest *entity.Build
	for _, permalink := range []string{"lastSuccessfulBuild", "lastFailedBuild", "lastUnstableBuild"} {
		b, err := c.buildAt(ctx, permalink)
		if err != nil {
			continue
		}
		if newest == nil || b.Number > newest.Number {
			newest = b
		}
	}
	if newest == nil {
		return nil, fmt.Errorf("%w: no completed build", entity.ErrNotFound)
	}
	return newest, nil
}

func (c *Client) buildAt(ctx context.Context, ref string) (*entity.Build, error) {
	res, err := c.get(ctx, fmt.Sprintf("/job/%s/%s/api/json", c.job, ref), nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var raw rawBuild
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode build: %v", entity.ErrInvalidResponse, err)
	}
	return raw.toBuild(), nil
}

// Stages implements upstream.CIServer via the Blue Ocean nodes API.
func (c *Client) Stages(ctx context.Context, buildNumber int) ([]entity.Stage, error) {
	path := fmt.Sprintf("/blue/rest/organizations/jenkins/pipelines/%s/runs/%d/nodes/", c.job, buildNumber)
	res, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var nodes []rawNode
	if err := json.NewDecoder(res.Body).Decode(&nodes); err != nil {
		return nil, fmt.Errorf("%w: decode stage nodes: %v", entity.ErrInvalidResponse, err)
	}

	stages := make([]entity.Stage, 0, len(nodes))
	for _, n := range nodes {
		if n.Type != "STAGE" {
			continue
		}
		stages = append(stages, entity.Stage{
			Name:       n.DisplayName,
			Status:     mapNodeStatus(n.State, n.Result),
			DurationMS: n.DurationInMillis,
			StartTime:  n.StartTime,
		})
	}

	// Blue Ocean returns nodes in graph order; sort by start time so the
	// sequence reflects execution order, with not-yet-started stages last.
	sort.SliceStable(stages, func(i, j int) bool {
		a, b := stages[i].StartTime, stages[j].StartTime
		if (a == "") != (b == "") {
			return a != ""
		}
		return a < b
	})
	return stages, nil
}

// LogChunk implements upstream.CIServer using Jenkins' progressive console
// output. All resume state lives in the (buildNumber, start) pair; the
// X-Text-Size header carries the next offset and X-More-Data whether the
// build is still producing output.
func (c *Client) LogChunk(ctx context.Context, buildNumber int, start int64) (*entity.LogChunk, error) {
	path := fmt.Sprintf("/job/%s/%d/logText/progressiveText", c.job, buildNumber)
	res, err := c.get(ctx, path, url.Values{"start": {strconv.FormatInt(start, 10)}})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	text, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read log body: %v", entity.ErrInvalidResponse, err)
	}

	nextStart := start
	if v, err := strconv.ParseInt(res.Header.Get("X-Text-Size"), 10, 64); err == nil {
		nextStart = v
	}
	hasMore := strings.EqualFold(res.Header.Get("X-More-Data"), "true")

	return &entity.LogChunk{
		Text:        string(text),
		NextStart:   nextStart,
		HasMore:     hasMore,
		BuildNumber: buildNumber,
	}, nil
}

// History implements upstream.CIServer. In-progress and aborted builds are
// filtered out; only meaningful terminal results show up in the history.
func (c *Client) History(ctx context.Context, limit int) ([]entity.Build, error) {
	tree := fmt.Sprintf("builds[number,result,duration,timestamp,building]{0,%d}", limit*2)
	res, err := c.get(ctx, fmt.Sprintf("/job/%s/api/json", c.job), url.Values{"tree": {tree}})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var raw struct {
		Builds []rawBuild `json:"builds"`
	}
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode history: %v", entity.ErrInvalidResponse, err)
	}

	builds := make([]entity.Build, 0, limit)
	for _, b := range raw.Builds {
		if b.Building || b.Result == string(entity.ResultAborted) {
			continue
		}
		builds = append(builds, *b.toBuild())
		if len(builds) == limit {
			break
		}
	}
	return builds, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("jenkins: new request: %w", err)
	}
	if c.user != "" && c.token != "" {
		req.SetBasicAuth(c.user, c.token)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: jenkins: %v", entity.ErrUnreachable, err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil, fmt.Errorf("%w: jenkins: %s", entity.ErrNotFound, path)
	}
	if res.StatusCode >= 400 {
		res.Body.Close()
		return nil, fmt.Errorf("%w: jenkins: %s returned %s", entity.ErrInvalidResponse, path, res.Status)
	}
	return res, nil
}

// rawBuild is the Jenkins API response shape for a build.
type rawBuild struct {
	Number    int    `json:"number"`
	Result    string `json:"result"`
	Building  bool   `json:"building"`
	Duration  int64  `json:"duration"`
	Timestamp int64  `json:"timestamp"`
	URL       string `json:"url"`
	Actions   []struct {
		Class             string `json:"_class"`
		LastBuiltRevision struct {
			SHA1   string `json:"SHA1"`
			Branch []struct {
				Name string `json:"name"`
			} `json:"branch"`
		} `json:"lastBuiltRevision"`
	} `json:"actions"`
}

func (r rawBuild) toBuild() *entity.Build {
	b := &entity.Build{
		Number:    r.Number,
		Result:    entity.BuildResult(r.Result),
		Building:  r.Building,
		Duration:  r.Duration,
		Timestamp: r.Timestamp,
		URL:       r.URL,
	}
	for _, a := range r.Actions {
		if !strings.HasSuffix(a.Class, "BuildData") {
			continue
		}
		b.CommitSHA = a.LastBuiltRevision.SHA1
		if len(a.LastBuiltRevision.Branch) > 0 {
			b.Branch = strings.TrimPrefix(a.LastBuiltRevision.Branch[0].Name, "origin/")
		}
		break
	}
	return b
}

// rawNode is the Blue Ocean response shape for a pipeline graph node.
type rawNode struct {
	Type             string `json:"type"`
	DisplayName      string `json:"displayName"`
	State            string `json:"state"`
	Result           string `json:"result"`
	DurationInMillis int64  `json:"durationInMillis"`
	StartTime        string `json:"startTime"`
}

// mapNodeStatus maps Blue Ocean state/result pairs onto stage statuses.
// States: RUNNING, QUEUED, PAUSED, SKIPPED, NOT_BUILT, FINISHED.
func mapNodeStatus(state, result string) entity.StageStatus {
	switch state {
	case "RUNNING":
		return entity.StageRunning
	case "QUEUED", "SKIPPED", "NOT_BUILT":
		return entity.StagePending
	case "FINISHED":
		switch result {
		case "SUCCESS":
			return entity.StageSuccess
		case "FAILURE", "UNSTABLE":
			return entity.StageFailed
		case "ABORTED":
			return entity.StageAborted
		case "NOT_BUILT":
			return entity.StagePending
		}
	}
	return entity.StageUnknown
}
