package orchestrator

import (
	"context"
	"log/slog"

	"github.com/cloudship/cloudship/internal/config"
	apperrors "github.com/cloudship/cloudship/internal/errors"
	"github.com/cloudship/cloudship/internal/output"
	"github.com/cloudship/cloudship/internal/provider"
)

// Teardown deletes the compute service and registry repository, then clears
// the local config. Deletion steps tolerate resources that are already gone,
// and local state is cleared even when a delete fails, so the config never
// claims ownership of resources that no longer exist.
func Teardown(
	ctx context.Context,
	client provider.Client,
	store *config.Store,
	cfg *config.DeploymentConfig,
	confirmed bool,
) error {
	if !confirmed {
		return apperrors.ErrUserAborted("cleanup declined")
	}

	failures := 0

	output.Info("Deleting service %s", cfg.ServiceName)
	if err := client.DeleteService(ctx, cfg); err != nil {
		if apperrors.IsCode(err, apperrors.CodeResourceNotFound) {
			output.Warning("Service %s already gone", cfg.ServiceName)
		} else {
			failures++
			output.Error("Failed to delete service: %v", err)
		}
	} else {
		output.Success("Service deleted")
	}

	output.Info("Deleting repository %s", cfg.RegistryName)
	if err := client.DeleteRepository(ctx, cfg); err != nil {
		if apperrors.IsCode(err, apperrors.CodeResourceNotFound) {
			output.Warning("Repository %s already gone", cfg.RegistryName)
		} else {
			failures++
			output.Error("Failed to delete repository: %v", err)
		}
	} else {
		output.Success("Repository deleted")
	}

	if err := store.Clear(); err != nil {
		return err
	}
	output.Success("Local deployment config cleared")

	if failures > 0 {
		slog.Warn("teardown finished with failures", "failures", failures)
		output.Warning("Teardown finished with %d failure(s); re-run cleanup after resolving them", failures)
	}
	return nil
}
