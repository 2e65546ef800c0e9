package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudship/cloudship/internal/config"
	apperrors "github.com/cloudship/cloudship/internal/errors"
	"github.com/cloudship/cloudship/internal/output"
	"github.com/cloudship/cloudship/internal/provider"
)

// Deployer submits create-or-update requests to the compute service.
// Rollout safety (previous revision keeps serving on failure) belongs to the
// provider; this component only submits and reports the terminal status.
type Deployer struct {
	client provider.Client
}

// NewDeployer creates a deployer for the given backend.
func NewDeployer(client provider.Client) *Deployer {
	return &Deployer{client: client}
}

// Deploy validates the spec locally, then hands it to the provider. Limits
// and concurrency are passed through verbatim, without unit conversion.
func (d *Deployer) Deploy(
	ctx context.Context,
	cfg *config.DeploymentConfig,
	spec provider.ServiceSpec,
) (*provider.DeploymentRecord, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	output.Info("Deploying %s to %s (%s)", spec.Image.URI(), cfg.ServiceName, cfg.Provider)
	record, err := d.client.DeployService(ctx, cfg, spec)
	if err != nil {
		return nil, err
	}

	output.Success("Service %s is serving revision %s", record.ServiceName, record.Revision)
	output.KeyValue("URL", record.PublicURL)
	return record, nil
}

// validateSpec fails fast, before any network call, on input the provider
// would reject anyway.
func validateSpec(spec provider.ServiceSpec) error {
	if spec.TimeoutSeconds <= 0 {
		return apperrors.ErrInvalidInput(
			fmt.Sprintf("timeout must be positive, got %d", spec.TimeoutSeconds), nil)
	}
	if spec.Limits.CPU == "" || spec.Limits.Memory == "" {
		return apperrors.ErrInvalidInput("cpu and memory limits must be set", nil)
	}
	if spec.Scaling.MaxInstances < spec.Scaling.MinInstances {
		return apperrors.ErrInvalidInput(
			fmt.Sprintf("max instances (%d) must be >= min instances (%d)",
				spec.Scaling.MaxInstances, spec.Scaling.MinInstances), nil)
	}
	if spec.Image.Tag == "" {
		return apperrors.ErrInvalidInput("image tag must be set", nil)
	}
	return nil
}
