package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudship/cloudship/internal/config"
	"github.com/cloudship/cloudship/internal/constants"
	apperrors "github.com/cloudship/cloudship/internal/errors"
)

func TestProvision_FirstRunCreatesEverything(t *testing.T) {
	client := newFakeClient()
	store := config.NewStore(t.TempDir())

	cfg, err := NewProvisioner(client, store).Provision(context.Background(), "acme", "us-central1")

	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.AccountID)
	assert.Equal(t, "us-central1", cfg.Region)
	assert.Equal(t, constants.DefaultRegistryName, cfg.RegistryName)
	assert.Equal(t, constants.DefaultServiceName, cfg.ServiceName)

	saved, found, err := store.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, cfg, saved)
}

func TestProvision_IsIdempotent(t *testing.T) {
	client := newFakeClient()
	store := config.NewStore(t.TempDir())
	provisioner := NewProvisioner(client, store)

	first, err := provisioner.Provision(context.Background(), "acme", "us-central1")
	require.NoError(t, err)

	second, err := provisioner.Provision(context.Background(), "acme", "us-central1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, client.ensureCalls, "repository step runs each time and tolerates the existing repo")
}

func TestProvision_ExistingRepositoryIsNotAnError(t *testing.T) {
	client := newFakeClient()
	client.repoExists = true
	store := config.NewStore(t.TempDir())

	_, err := NewProvisioner(client, store).Provision(context.Background(), "acme", "us-central1")

	require.NoError(t, err)
}

func TestProvision_AuthenticationFailureAborts(t *testing.T) {
	client := newFakeClient()
	client.resolveAccountFn = func(string) (string, error) {
		return "", apperrors.ErrAuthenticationRequired("not logged in", nil)
	}
	store := config.NewStore(t.TempDir())

	_, err := NewProvisioner(client, store).Provision(context.Background(), "acme", "us-central1")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAuthenticationRequired, apperrors.GetErrorCode(err))
	assert.Zero(t, client.enableCalls, "no later step may run after auth failure")

	_, found, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.False(t, found, "config must not be saved on failure")
}

func TestProvision_AmbiguousRepositoryResponseSurfaces(t *testing.T) {
	client := newFakeClient()
	client.repoErr = apperrors.ErrProvisioningAmbiguous("unrecognized provider response", nil)
	store := config.NewStore(t.TempDir())

	_, err := NewProvisioner(client, store).Provision(context.Background(), "acme", "us-central1")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeProvisioningAmbiguous, apperrors.GetErrorCode(err))
}

func TestProvision_ReusesMatchingStoredConfig(t *testing.T) {
	store := config.NewStore(t.TempDir())
	existing := gcpConfig()
	existing.RegistryName = "custom-repo"
	require.NoError(t, store.Save(existing))

	client := newFakeClient()
	cfg, err := NewProvisioner(client, store).Provision(context.Background(), "acme", "us-central1")

	require.NoError(t, err)
	assert.Equal(t, "custom-repo", cfg.RegistryName, "a matching target keeps its provisioned names")
}
