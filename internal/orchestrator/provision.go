// Package orchestrator sequences the provisioning, publish, deploy, verify
// and teardown stages. Each stage is a separate CLI invocation; state between
// invocations lives only in the config store and the provider itself.
package orchestrator

import (
	"context"
	"log/slog"

	"github.com/cloudship/cloudship/internal/config"
	"github.com/cloudship/cloudship/internal/constants"
	"github.com/cloudship/cloudship/internal/output"
	"github.com/cloudship/cloudship/internal/provider"
)

const provisionSteps = 5

// Provisioner ensures the cloud resources a deployment depends on exist.
// Every step is independently idempotent: running Provision twice against
// the same target converges to the same state and never fails on the rerun.
type Provisioner struct {
	client provider.Client
	store  *config.Store
}

// NewProvisioner creates a provisioner for the given backend and store.
func NewProvisioner(client provider.Client, store *config.Store) *Provisioner {
	return &Provisioner{client: client, store: store}
}

// Provision runs the setup pipeline and persists the resulting config.
func (p *Provisioner) Provision(ctx context.Context, accountID, region string) (*config.DeploymentConfig, error) {
	output.Step(1, provisionSteps, "Resolving account")
	account, err := p.client.ResolveAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	output.StepSuccess(1, provisionSteps, "Account "+account)

	cfg := p.targetConfig(account, region)

	output.Step(2, provisionSteps, "Enabling provider capabilities")
	if err := p.client.EnableServices(ctx, account); err != nil {
		return nil, err
	}
	output.StepSuccess(2, provisionSteps, "Capabilities enabled")

	output.Step(3, provisionSteps, "Creating registry repository "+cfg.RegistryName)
	host, created, err := p.client.EnsureRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if created {
		output.StepSuccess(3, provisionSteps, "Repository created at "+host)
	} else {
		output.Warning("Repository %s already exists, continuing", cfg.RegistryName)
	}

	output.Step(4, provisionSteps, "Checking registry credentials")
	if _, err := p.client.RegistryAuth(ctx, cfg); err != nil {
		return nil, err
	}
	output.StepSuccess(4, provisionSteps, "Registry credentials available")

	output.Step(5, provisionSteps, "Saving deployment config")
	if err := p.store.Save(cfg); err != nil {
		return nil, err
	}
	output.StepSuccess(5, provisionSteps, "Config written to "+p.store.Path())

	slog.Info("provisioning complete", "provider", cfg.Provider, "account", account, "region", cfg.Region)
	return cfg, nil
}

// targetConfig reuses a previously provisioned target when it matches, so a
// second setup run yields an identical config.
func (p *Provisioner) targetConfig(account, region string) *config.DeploymentConfig {
	if existing, found, err := p.store.Load(); err == nil && found &&
		existing.Provider == p.client.Name() &&
		existing.AccountID == account &&
		existing.Region == region {
		return existing
	}

	return &config.DeploymentConfig{
		Provider:         p.client.Name(),
		AccountID:        account,
		Region:           region,
		RegistryName:     constants.DefaultRegistryName,
		ServiceName:      constants.DefaultServiceName,
		EnvironmentLabel: constants.DefaultEnvironment,
	}
}
