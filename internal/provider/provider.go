// Package provider defines the cloud backend abstraction for cloudship.
// A backend pairs a container registry with a serverless container service;
// implementations classify their raw SDK errors into the typed taxonomy in
// internal/errors before returning them.
package provider

import (
	"context"
	"strings"

	"github.com/cloudship/cloudship/internal/config"
	"github.com/cloudship/cloudship/internal/constants"
)

// ImageReference identifies one pushed tag of a container image.
type ImageReference struct {
	RegistryHost string
	Repository   string
	ImageName    string
	Tag          string
	Digest       string
}

// URI returns the full pushable image reference, e.g.
// us-central1-docker.pkg.dev/acme/fastapi-repo/fastapi-app:v1.
func (r ImageReference) URI() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.RegistryHost, r.Repository, r.ImageName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "/") + ":" + r.Tag
}

// ResourceLimits are passed through to the compute service verbatim; the
// orchestrator performs no unit conversion.
type ResourceLimits struct {
	CPU    string
	Memory string
}

// ScalingPolicy bounds instance counts and per-instance request concurrency.
type ScalingPolicy struct {
	MinInstances int
	MaxInstances int
	Concurrency  int
}

// ServiceSpec is the requested state of the compute service.
type ServiceSpec struct {
	Image          ImageReference
	Limits         ResourceLimits
	Scaling        ScalingPolicy
	TimeoutSeconds int
	Port           int
	EnvVars        map[string]string
}

// DeploymentRecord reflects the provider-held state of a deployed service.
// It is never persisted locally; the provider owns it.
type DeploymentRecord struct {
	ServiceName    string
	ActiveImage    ImageReference
	Limits         ResourceLimits
	Scaling        ScalingPolicy
	TimeoutSeconds int
	EnvVars        map[string]string
	PublicURL      string
	Revision       string
}

// RegistryAuth carries docker credentials for pushing to the backend registry.
type RegistryAuth struct {
	Username      string
	Password      string
	ServerAddress string
}

// Client is implemented once per cloud backend.
type Client interface {
	// Name identifies the backend.
	Name() constants.Provider

	// ResolveAccount verifies the provider session and returns the account
	// identifier to provision under. An empty accountID asks the provider to
	// resolve the session's default account.
	ResolveAccount(ctx context.Context, accountID string) (string, error)

	// EnableServices activates the provider capabilities the deployment
	// needs. Already-enabled capabilities are not an error.
	EnableServices(ctx context.Context, accountID string) error

	// EnsureRepository creates the registry repository if absent and
	// returns its host. created is false when the repository already existed.
	EnsureRepository(ctx context.Context, cfg *config.DeploymentConfig) (host string, created bool, err error)

	// RegistryAuth returns docker credentials for the backend registry.
	RegistryAuth(ctx context.Context, cfg *config.DeploymentConfig) (RegistryAuth, error)

	// ImageRef builds the image reference for a tag in the backend registry.
	ImageRef(cfg *config.DeploymentConfig, imageName, tag string) ImageReference

	// DeployService creates or updates the compute service. The provider's
	// own rollout safety keeps the previous revision serving on failure.
	DeployService(ctx context.Context, cfg *config.DeploymentConfig, spec ServiceSpec) (*DeploymentRecord, error)

	// DeleteService removes the compute service.
	DeleteService(ctx context.Context, cfg *config.DeploymentConfig) error

	// DeleteRepository removes the registry repository and its images.
	DeleteRepository(ctx context.Context, cfg *config.DeploymentConfig) error
}
