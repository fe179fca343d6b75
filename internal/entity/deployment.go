package entity

// DeploymentVersion is what is currently rolled out on the orchestrator.
type DeploymentVersion struct {
	Version         string `json:"version"`
	Image           string `json:"image"`
	Deployment      string `json:"deployment"`
	Replicas        int32  `json:"replicas"`
	DesiredReplicas int32  `json:"desired_replicas"`
}
