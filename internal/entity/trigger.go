package entity

import "time"

// Identity is the author attached to a commit made through the
// source-control API.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TriggerResult reports one accepted build trigger. The version bump is a
// committed external side effect; it cannot be rolled back.
type TriggerResult struct {
	PreviousVersion string `json:"previous_version"`
	NewVersion      string `json:"new_version"`
	CommitSHA       string `json:"commit_sha,omitempty"`
}

// TriggerRecord is one audit-log row for an accepted version bump.
type TriggerRecord struct {
	ID              uint      `json:"id"`
	Job             string    `json:"job"`
	PreviousVersion string    `json:"previous_version"`
	NewVersion      string    `json:"new_version"`
	CommitSHA       string    `json:"commit_sha"`
	Actor           string    `json:"actor"`
	CreatedAt       time.Time `json:"created_at"`
}
