package entity

import "time"

// DeploymentProposal is a pending change request awaiting human approval.
// The source-control host owns it; a proposal absent from the open listing
// is considered resolved.
type DeploymentProposal struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Version   string    `json:"version,omitempty"`
	Branch    string    `json:"branch"`
	CreatedAt time.Time `json:"created_at"`
}
