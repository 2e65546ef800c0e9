package gcp

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/artifactregistry/v1"
	"google.golang.org/api/run/v2"
	"google.golang.org/api/serviceusage/v1"
)

const resourcePollInterval = 3 * time.Second

// serviceUsageAPI abstracts the Service Usage API.
type serviceUsageAPI interface {
	BatchEnable(ctx context.Context, projectID string, services []string) error
}

// registryAPI abstracts Artifact Registry repository operations.
type registryAPI interface {
	CreateRepository(ctx context.Context, projectID, location, repoID string) error
	DeleteRepository(ctx context.Context, projectID, location, repoID string) error
}

// runAPI abstracts Cloud Run Admin API service operations.
type runAPI interface {
	GetService(ctx context.Context, name string) (*run.GoogleCloudRunV2Service, error)
	CreateService(ctx context.Context, parent, serviceID string, svc *run.GoogleCloudRunV2Service) error
	UpdateService(ctx context.Context, svc *run.GoogleCloudRunV2Service) error
	DeleteService(ctx context.Context, name string) error
}

type defaultServiceUsage struct {
	service *serviceusage.Service
}

func (c *defaultServiceUsage) BatchEnable(ctx context.Context, projectID string, services []string) error {
	parent := "projects/" + projectID
	req := &serviceusage.BatchEnableServicesRequest{ServiceIds: services}

	op, err := c.service.Services.BatchEnable(parent, req).Context(ctx).Do()
	if err != nil {
		return err
	}
	if op.Done {
		if op.Error != nil {
			return fmt.Errorf("batch enable services: %s", op.Error.Message)
		}
		return nil
	}

	for {
		op, err = c.service.Operations.Get(op.Name).Context(ctx).Do()
		if err != nil {
			return err
		}
		if op.Done {
			if op.Error != nil {
				return fmt.Errorf("operation error: %s", op.Error.Message)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(resourcePollInterval):
		}
	}
}

type defaultRegistry struct {
	service *artifactregistry.Service
}

func (c *defaultRegistry) CreateRepository(ctx context.Context, projectID, location, repoID string) error {
	parent := fmt.Sprintf("projects/%s/locations/%s", projectID, location)
	repo := &artifactregistry.Repository{Format: "DOCKER"}

	op, err := c.service.Projects.Locations.Repositories.Create(parent, repo).
		RepositoryId(repoID).
		Context(ctx).
		Do()
	if err != nil {
		return err
	}
	return c.waitForOperation(ctx, op.Name)
}

func (c *defaultRegistry) DeleteRepository(ctx context.Context, projectID, location, repoID string) error {
	name := fmt.Sprintf("projects/%s/locations/%s/repositories/%s", projectID, location, repoID)
	op, err := c.service.Projects.Locations.Repositories.Delete(name).Context(ctx).Do()
	if err != nil {
		return err
	}
	return c.waitForOperation(ctx, op.Name)
}

func (c *defaultRegistry) waitForOperation(ctx context.Context, name string) error {
	for {
		op, err := c.service.Projects.Locations.Operations.Get(name).Context(ctx).Do()
		if err != nil {
			return err
		}
		if op.Done {
			if op.Error != nil {
				return fmt.Errorf("operation error: %s", op.Error.Message)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(resourcePollInterval):
		}
	}
}

type defaultRun struct {
	service *run.Service
}

func (c *defaultRun) GetService(ctx context.Context, name string) (*run.GoogleCloudRunV2Service, error) {
	return c.service.Projects.Locations.Services.Get(name).Context(ctx).Do()
}

func (c *defaultRun) CreateService(
	ctx context.Context,
	parent, serviceID string,
	svc *run.GoogleCloudRunV2Service,
) error {
	op, err := c.service.Projects.Locations.Services.Create(parent, svc).
		ServiceId(serviceID).
		Context(ctx).
		Do()
	if err != nil {
		return err
	}
	return c.waitForOperation(ctx, op.Name)
}

func (c *defaultRun) UpdateService(ctx context.Context, svc *run.GoogleCloudRunV2Service) error {
	op, err := c.service.Projects.Locations.Services.Patch(svc.Name, svc).Context(ctx).Do()
	if err != nil {
		return err
	}
	return c.waitForOperation(ctx, op.Name)
}

func (c *defaultRun) DeleteService(ctx context.Context, name string) error {
	op, err := c.service.Projects.Locations.Services.Delete(name).Context(ctx).Do()
	if err != nil {
		return err
	}
	return c.waitForOperation(ctx, op.Name)
}

func (c *defaultRun) waitForOperation(ctx context.Context, name string) error {
	for {
		op, err := c.service.Projects.Locations.Operations.Get(name).Context(ctx).Do()
		if err != nil {
			return err
		}
		if op.Done {
			if op.Error != nil {
				return fmt.Errorf("operation error: %s", op.Error.Message)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(resourcePollInterval):
		}
	}
}
