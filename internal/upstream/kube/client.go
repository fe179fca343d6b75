// Package kube implements the Orchestrator capability against the
// Kubernetes API.
package kube

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/sagi-l/ci-dashboard/internal/config"
	"github.com/sagi-l/ci-dashboard/internal/entity"
	"github.com/sagi-l/ci-dashboard/internal/upstream"
	"github.com/sagi-l/ci-dashboard/internal/utils"
)

type Client struct {
	clientset  kubernetes.Interface
	namespace  string
	deployment string
}

var _ upstream.Orchestrator = (*Client)(nil)

func New(clientset kubernetes.Interface, cfg config.Kubernetes) *Client {
	return &Client{
		clientset:  clientset,
		namespace:  cfg.Namespace,
		deployment: cfg.Deployment,
	}
}

// NewClientset builds a clientset from the in-cluster service account,
// falling back to the local kubeconfig for development.
func NewClientset() (kubernetes.Interface, error) {
	cfg, err := rest.InClusterConfig()
	if err != nil {
		rules := clientcmd.NewDefaultClientConfigLoadingRules()
		cfg, err = clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, nil).ClientConfig()
		if err != nil {
			return nil, fmt.Errorf("%w: kubernetes config: %v", entity.ErrUnreachable, err)
		}
	}
	return kubernetes.NewForConfig(cfg)
}

// DeploymentVersion implements upstream.Orchestrator. The rolled-out
// version is whatever tag the first container image carries.
func (c *Client) DeploymentVersion(ctx context.Context) (*entity.DeploymentVersion, error) {
	dep, err := c.clientset.AppsV1().Deployments(c.namespace).Get(ctx, c.deployment, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: deployment %s/%s", entity.ErrNotFound, c.namespace, c.deployment)
		}
		return nil, fmt.Errorf("%w: kubernetes: %v", entity.ErrUnreachable, err)
	}

	containers := dep.Spec.Template.Spec.Containers
	if len(containers) == 0 {
		return nil, fmt.Errorf("%w: deployment %s has no containers", entity.ErrInvalidResponse, c.deployment)
	}
	image := containers[0].Image

	desired := int32(1)
	if dep.Spec.Replicas != nil {
		desired = *dep.Spec.Replicas
	}

	return &entity.DeploymentVersion{
		Version:         utils.ImageTag(image),
		Image:           image,
		Deployment:      c.deployment,
		Replicas:        dep.Status.ReadyReplicas,
		DesiredReplicas: desired,
	}, nil
}
