// Package gcp implements the cloudship provider backend on Google Cloud:
// Artifact Registry for images and Cloud Run for the compute service.
package gcp

import (
	"context"
	"fmt"
	"log/slog"

	resourcemanager "cloud.google.com/go/resourcemanager/apiv3"
	"cloud.google.com/go/resourcemanager/apiv3/resourcemanagerpb"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/artifactregistry/v1"
	"google.golang.org/api/run/v2"
	"google.golang.org/api/serviceusage/v1"

	"github.com/cloudship/cloudship/internal/config"
	"github.com/cloudship/cloudship/internal/constants"
	apperrors "github.com/cloudship/cloudship/internal/errors"
	"github.com/cloudship/cloudship/internal/provider"
)

// requiredServices are the capabilities a deployment depends on. Enabling an
// already-enabled service is a no-op on the provider side.
var requiredServices = []string{
	"artifactregistry.googleapis.com",
	"run.googleapis.com",
}

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// projectsAPI abstracts the Resource Manager projects client.
type projectsAPI interface {
	GetProject(ctx context.Context, projectID string) (*resourcemanagerpb.Project, error)
}

type realProjects struct {
	client *resourcemanager.ProjectsClient
}

func (p *realProjects) GetProject(ctx context.Context, projectID string) (*resourcemanagerpb.Project, error) {
	return p.client.GetProject(ctx, &resourcemanagerpb.GetProjectRequest{Name: "projects/" + projectID})
}

// Client implements provider.Client for Google Cloud.
type Client struct {
	projects     projectsAPI
	serviceUsage serviceUsageAPI
	registry     registryAPI
	run          runAPI
	tokenSource  func(ctx context.Context) (string, error)
}

// NewClient builds a GCP client from application default credentials.
func NewClient(ctx context.Context) (*Client, error) {
	projectsClient, err := resourcemanager.NewProjectsClient(ctx)
	if err != nil {
		return nil, classify("create resource manager client", err)
	}

	usageSvc, err := serviceusage.NewService(ctx)
	if err != nil {
		return nil, classify("create service usage client", err)
	}

	registrySvc, err := artifactregistry.NewService(ctx)
	if err != nil {
		return nil, classify("create artifact registry client", err)
	}

	runSvc, err := run.NewService(ctx)
	if err != nil {
		return nil, classify("create cloud run client", err)
	}

	return &Client{
		projects:     &realProjects{client: projectsClient},
		serviceUsage: &defaultServiceUsage{service: usageSvc},
		registry:     &defaultRegistry{service: registrySvc},
		run:          &defaultRun{service: runSvc},
		tokenSource:  defaultAccessToken,
	}, nil
}

func defaultAccessToken(ctx context.Context) (string, error) {
	ts, err := google.DefaultTokenSource(ctx, cloudPlatformScope)
	if err != nil {
		return "", err
	}
	token, err := ts.Token()
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// Name identifies the backend.
func (c *Client) Name() constants.Provider {
	return constants.ProviderGCP
}

// ResolveAccount verifies the project exists and the session can see it.
func (c *Client) ResolveAccount(ctx context.Context, accountID string) (string, error) {
	if accountID == "" {
		return "", apperrors.ErrInvalidInput("a GCP project ID is required, pass --account", nil)
	}

	project, err := c.projects.GetProject(ctx, accountID)
	if err != nil {
		return "", classify("resolve project "+accountID, err)
	}

	slog.Debug("resolved gcp project", "project", project.ProjectId, "state", project.State.String())
	return project.ProjectId, nil
}

// EnableServices activates Artifact Registry and Cloud Run for the project.
func (c *Client) EnableServices(ctx context.Context, accountID string) error {
	if err := c.serviceUsage.BatchEnable(ctx, accountID, requiredServices); err != nil {
		return classify("enable services", err)
	}
	return nil
}

// EnsureRepository creates the docker repository, tolerating "already exists".
func (c *Client) EnsureRepository(
	ctx context.Context,
	cfg *config.DeploymentConfig,
) (string, bool, error) {
	host := cfg.Region + "-docker.pkg.dev"

	err := classify("create repository "+cfg.RegistryName,
		c.registry.CreateRepository(ctx, cfg.AccountID, cfg.Region, cfg.RegistryName))
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeResourceConflict) {
			return host, false, nil
		}
		return "", false, err
	}
	return host, true, nil
}

// RegistryAuth returns short-lived oauth credentials for docker pushes.
func (c *Client) RegistryAuth(
	ctx context.Context,
	cfg *config.DeploymentConfig,
) (provider.RegistryAuth, error) {
	token, err := c.tokenSource(ctx)
	if err != nil {
		return provider.RegistryAuth{}, classify("obtain registry access token", err)
	}
	return provider.RegistryAuth{
		Username:      "oauth2accesstoken",
		Password:      token,
		ServerAddress: cfg.Region + "-docker.pkg.dev",
	}, nil
}

// ImageRef builds the Artifact Registry reference for a tag.
func (c *Client) ImageRef(cfg *config.DeploymentConfig, imageName, tag string) provider.ImageReference {
	return provider.ImageReference{
		RegistryHost: cfg.Region + "-docker.pkg.dev",
		Repository:   cfg.AccountID + "/" + cfg.RegistryName,
		ImageName:    imageName,
		Tag:          tag,
	}
}

// DeployService creates or updates the Cloud Run service and waits for the
// rollout to reach a terminal state.
func (c *Client) DeployService(
	ctx context.Context,
	cfg *config.DeploymentConfig,
	spec provider.ServiceSpec,
) (*provider.DeploymentRecord, error) {
	name := c.serviceName(cfg)
	desired := toRunService(name, spec)

	existing, err := c.run.GetService(ctx, name)
	switch {
	case err == nil && existing != nil:
		if updateErr := c.run.UpdateService(ctx, desired); updateErr != nil {
			return nil, classify("update cloud run service", updateErr)
		}
	default:
		classified := classify("get cloud run service", err)
		if !apperrors.IsCode(classified, apperrors.CodeResourceNotFound) {
			return nil, classified
		}
		parent := fmt.Sprintf("projects/%s/locations/%s", cfg.AccountID, cfg.Region)
		if createErr := c.run.CreateService(ctx, parent, cfg.ServiceName, desired); createErr != nil {
			return nil, classify("create cloud run service", createErr)
		}
	}

	deployed, err := c.run.GetService(ctx, name)
	if err != nil {
		return nil, classify("read back cloud run service", err)
	}

	record := &provider.DeploymentRecord{
		ServiceName:    cfg.ServiceName,
		ActiveImage:    spec.Image,
		Limits:         spec.Limits,
		Scaling:        spec.Scaling,
		TimeoutSeconds: spec.TimeoutSeconds,
		EnvVars:        spec.EnvVars,
		PublicURL:      deployed.Uri,
		Revision:       deployed.LatestReadyRevision,
	}
	return record, nil
}

// DeleteService removes the Cloud Run service.
func (c *Client) DeleteService(ctx context.Context, cfg *config.DeploymentConfig) error {
	return classify("delete cloud run service", c.run.DeleteService(ctx, c.serviceName(cfg)))
}

// DeleteRepository removes the Artifact Registry repository and its images.
func (c *Client) DeleteRepository(ctx context.Context, cfg *config.DeploymentConfig) error {
	return classify("delete repository "+cfg.RegistryName,
		c.registry.DeleteRepository(ctx, cfg.AccountID, cfg.Region, cfg.RegistryName))
}

func (c *Client) serviceName(cfg *config.DeploymentConfig) string {
	return fmt.Sprintf("projects/%s/locations/%s/services/%s", cfg.AccountID, cfg.Region, cfg.ServiceName)
}

// toRunService maps a ServiceSpec onto the Cloud Run v2 service shape.
// Resource limits and concurrency are passed through verbatim.
func toRunService(name string, spec provider.ServiceSpec) *run.GoogleCloudRunV2Service {
	return &run.GoogleCloudRunV2Service{
		Name: name,
		Template: &run.GoogleCloudRunV2RevisionTemplate{
			Containers: []*run.GoogleCloudRunV2Container{
				{
					Image: spec.Image.URI(),
					Env:   toRunEnvVars(spec.EnvVars),
					Ports: []*run.GoogleCloudRunV2ContainerPort{
						{ContainerPort: int64(spec.Port)},
					},
					Resources: &run.GoogleCloudRunV2ResourceRequirements{
						Limits: map[string]string{
							"cpu":    spec.Limits.CPU,
							"memory": spec.Limits.Memory,
						},
					},
				},
			},
			Scaling: &run.GoogleCloudRunV2RevisionScaling{
				MinInstanceCount: int64(spec.Scaling.MinInstances),
				MaxInstanceCount: int64(spec.Scaling.MaxInstances),
			},
			MaxInstanceRequestConcurrency: int64(spec.Scaling.Concurrency),
			Timeout:                       fmt.Sprintf("%ds", spec.TimeoutSeconds),
		},
	}
}

func toRunEnvVars(envVars map[string]string) []*run.GoogleCloudRunV2EnvVar {
	result := make([]*run.GoogleCloudRunV2EnvVar, 0, len(envVars))
	for key, value := range envVars {
		result = append(result, &run.GoogleCloudRunV2EnvVar{Name: key, Value: value})
	}
	return result
}
