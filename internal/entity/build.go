package entity

// BuildResult is the terminal verdict the CI server assigns to a build.
// It is empty while the build is still executing.
type BuildResult string

const (
	ResultSuccess  BuildResult = "SUCCESS"
	ResultFailure  BuildResult = "FAILURE"
	ResultAborted  BuildResult = "ABORTED"
	ResultUnstable BuildResult = "UNSTABLE"
)

// Build is a snapshot of one CI build. The CI server owns the record; we
// never persist it, every poll produces a fresh copy.
type Build struct {
	Number    int         `json:"number"`
	Result    BuildResult `json:"result"`
	Building  bool        `json:"building"`
	Duration  int64       `json:"duration"`
	Timestamp int64       `json:"timestamp"`
	URL       string      `json:"url,omitempty"`
	Branch    string      `json:"branch,omitempty"`
	CommitSHA string      `json:"commit_sha,omitempty"`
}

type StageStatus string

const (
	StagePending StageStatus = "pending"
	StageRunning StageStatus = "running"
	StageSuccess StageStatus = "success"
	StageFailed  StageStatus = "failed"
	StageAborted StageStatus = "aborted"
	StageUnknown StageStatus = "unknown"
)

// Stage is one named phase of a build's pipeline, in execution order.
type Stage struct {
	Name       string      `json:"name"`
	Status     StageStatus `json:"status"`
	DurationMS int64       `json:"duration_ms"`
	StartTime  string      `json:"start_time,omitempty"`
}

// PipelineHealth is the canonical five-valued pipeline status derived from
// the latest build. It is computed per request, never stored.
type PipelineHealth string

const (
	HealthHealthy  PipelineHealth = "healthy"
	HealthBuilding PipelineHealth = "building"
	HealthFailed   PipelineHealth = "failed"
	HealthUnstable PipelineHealth = "unstable"
	HealthUnknown  PipelineHealth = "unknown"
)

// LogChunk is one slice of a build's console output. NextStart is the byte
// offset to resume from; HasMore is false once the build stopped producing
// output, which is the client's signal to stop polling.
type LogChunk struct {
	Text        string `json:"text"`
	NextStart   int64  `json:"next_start"`
	HasMore     bool   `json:"has_more"`
	BuildNumber int    `json:"build_number"`
}
