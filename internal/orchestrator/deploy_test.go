package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cloudship/cloudship/internal/errors"
	"github.com/cloudship/cloudship/internal/provider"
)

func deployableSpec(client *fakeClient) provider.ServiceSpec {
	spec := DefaultSpec()
	spec.Image = client.ImageRef(gcpConfig(), "fastapi-app", "v1")
	spec.EnvVars = map[string]string{"ENVIRONMENT": "production", "LOG_LEVEL": "info"}
	return spec
}

func TestDeploy_SubmitsSpecVerbatim(t *testing.T) {
	client := newFakeClient()
	spec := deployableSpec(client)
	spec.Limits = provider.ResourceLimits{CPU: "2", Memory: "1Gi"}
	spec.Scaling = provider.ScalingPolicy{MinInstances: 0, MaxInstances: 4, Concurrency: 250}

	record, err := NewDeployer(client).Deploy(context.Background(), gcpConfig(), spec)

	require.NoError(t, err)
	require.Len(t, client.deployCalls, 1)
	assert.Equal(t, spec, client.deployCalls[0], "limits and concurrency pass through untouched")
	assert.Equal(t, "https://fastapi-service-abc.run.app", record.PublicURL)
}

func TestDeploy_ScaleToZeroIsAllowed(t *testing.T) {
	client := newFakeClient()
	spec := deployableSpec(client)
	spec.Scaling.MinInstances = 0

	_, err := NewDeployer(client).Deploy(context.Background(), gcpConfig(), spec)

	require.NoError(t, err)
}

func TestDeploy_FailsFastOnInvalidSpec(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*provider.ServiceSpec)
	}{
		{name: "zero timeout", mutate: func(s *provider.ServiceSpec) { s.TimeoutSeconds = 0 }},
		{name: "negative timeout", mutate: func(s *provider.ServiceSpec) { s.TimeoutSeconds = -5 }},
		{name: "empty cpu", mutate: func(s *provider.ServiceSpec) { s.Limits.CPU = "" }},
		{name: "empty memory", mutate: func(s *provider.ServiceSpec) { s.Limits.Memory = "" }},
		{name: "max below min", mutate: func(s *provider.ServiceSpec) { s.Scaling.MinInstances = 5; s.Scaling.MaxInstances = 2 }},
		{name: "missing tag", mutate: func(s *provider.ServiceSpec) { s.Image.Tag = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeClient()
			spec := deployableSpec(client)
			tt.mutate(&spec)

			_, err := NewDeployer(client).Deploy(context.Background(), gcpConfig(), spec)

			require.Error(t, err)
			assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err))
			assert.Empty(t, client.deployCalls, "validation failures must not reach the provider")
		})
	}
}

func TestDeploy_ProviderFailurePropagates(t *testing.T) {
	client := newFakeClient()
	client.deployFn = func(provider.ServiceSpec) (*provider.DeploymentRecord, error) {
		return nil, apperrors.ErrDeployFailure("rollout failed", nil)
	}

	_, err := NewDeployer(client).Deploy(context.Background(), gcpConfig(), deployableSpec(client))

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDeployFailure, apperrors.GetErrorCode(err))
}
