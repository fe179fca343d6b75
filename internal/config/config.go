package config

import (
	"os"

	"github.com/samber/lo"
)

type Jenkins struct {
	URL   string
	User  string
	Token string
	Job   string
}

type ArgoCD struct {
	URL     string
	Token   string
	AppName string
}

type GitHub struct {
	Token       string
	Owner       string
	Repo        string
	Branch      string
	VersionPath string
}

type Kubernetes struct {
	Namespace  string
	Deployment string
}

type Trigger struct {
	// AuthorName/AuthorEmail identify dashboard-initiated commits. They must
	// differ from AutomationAuthor, whose commits the CI pipeline refuses to
	// build (loop prevention).
	AuthorName       string
	AuthorEmail      string
	AutomationAuthor string
	SkipMarker       string
}

type Config struct {
	Jenkins    Jenkins
	ArgoCD     ArgoCD
	GitHub     GitHub
	Kubernetes Kubernetes
	Trigger    Trigger
	DataDir    string
}

// FromEnv loads configuration from environment variables with the same
// defaults the in-cluster deployment relies on.
func FromEnv() *Config {
	return &Config{
		Jenkins: Jenkins{
			URL:   getenv("JENKINS_URL", "http://jenkins.jenkins.svc.cluster.local:8080"),
			User:  getenv("JENKINS_USER", ""),
			Token: getenv("JENKINS_TOKEN", ""),
			Job:   getenv("JENKINS_JOB_NAME", "ci-pipeline"),
		},
		ArgoCD: ArgoCD{
			URL:     getenv("ARGOCD_URL", "https://argocd.argocd.svc.cluster.local"),
			Token:   getenv("ARGOCD_TOKEN", ""),
			AppName: getenv("ARGOCD_APP_NAME", "ci-dashboard"),
		},
		GitHub: GitHub{
			Token:       getenv("GITHUB_TOKEN", ""),
			Owner:       getenv("GITHUB_REPO_OWNER", "sagi-l"),
			Repo:        getenv("GITHUB_REPO_NAME", "ci-dashboard"),
			Branch:      getenv("GITHUB_BRANCH", "main"),
			VersionPath: getenv("VERSION_FILE_PATH", "VERSION"),
		},
		Kubernetes: Kubernetes{
			Namespace:  getenv("K8S_NAMESPACE", "web-app"),
			Deployment: getenv("K8S_DEPLOYMENT", "ci-dashboard"),
		},
		Trigger: Trigger{
			AuthorName:       getenv("TRIGGER_AUTHOR_NAME", "ci-dashboard"),
			AuthorEmail:      getenv("TRIGGER_AUTHOR_EMAIL", "ci-dashboard@localhost"),
			AutomationAuthor: getenv("AUTOMATION_AUTHOR", "jenkins-bot"),
			SkipMarker:       getenv("CI_SKIP_MARKER", "[skip ci]"),
		},
		DataDir: getenv("DATA_DIR", "./data"),
	}
}

func getenv(key, fallback string) string {
	return lo.CoalesceOrEmpty(os.Getenv(key), fallback)
}
