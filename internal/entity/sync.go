package entity

// SystemHealth is one backend's reachability as seen from this process.
type SystemHealth struct {
	Status    string `json:"status"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

func HealthySystem() SystemHealth {
	return SystemHealth{Status: "healthy", Reachable: true}
}

func UnhealthySystem(err error) SystemHealth {
	return SystemHealth{Status: "unhealthy", Reachable: false, Error: err.Error()}
}

// SyncStatus is the GitOps controller's view of one managed application.
// Its lifecycle is independent from any CI build.
type SyncStatus struct {
	Name           string `json:"name"`
	HealthStatus   string `json:"health_status"`
	SyncStatus     string `json:"sync_status"`
	Revision       string `json:"revision,omitempty"`
	OperationPhase string `json:"operation_state,omitempty"`
}

// UnknownSyncStatus is the degraded value reported when the controller
// cannot be reached.
func UnknownSyncStatus(app string) SyncStatus {
	return SyncStatus{Name: app, HealthStatus: "Unknown", SyncStatus: "Unknown"}
}

// Webhook is one delivery hook registered on the source-control repository.
type Webhook struct {
	ID         int64  `json:"id"`
	URL        string `json:"url"`
	Active     bool   `json:"active"`
	Status     string `json:"status"`
	LastCode   int    `json:"last_code,omitempty"`
	LastStatus string `json:"last_status,omitempty"`
}

// WebhookHealth summarizes whether push events are reaching the CI server.
// A failing webhook means a version bump would never start a build.
type WebhookHealth struct {
	Status   string    `json:"status"`
	Webhooks []Webhook `json:"webhooks"`
}

func (w WebhookHealth) Failing() bool { return w.Status == "failing" }
