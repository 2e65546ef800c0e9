package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudship/cloudship/internal/config"
	"github.com/cloudship/cloudship/internal/constants"
	apperrors "github.com/cloudship/cloudship/internal/errors"
)

func testDeployConfig() *config.DeploymentConfig {
	return &config.DeploymentConfig{
		Provider:         constants.ProviderGCP,
		AccountID:        "acme-prod",
		Region:           "us-central1",
		RegistryName:     constants.DefaultRegistryName,
		ServiceName:      constants.DefaultServiceName,
		EnvironmentLabel: "production",
	}
}

func TestSplitEnvVar(t *testing.T) {
	key, value, err := splitEnvVar("LOG_LEVEL=debug")
	require.NoError(t, err)
	assert.Equal(t, "LOG_LEVEL", key)
	assert.Equal(t, "debug", value)

	// values may themselves contain '='
	key, value, err = splitEnvVar("DATABASE_URL=postgres://u:p@h/db?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "DATABASE_URL", key)
	assert.Equal(t, "postgres://u:p@h/db?sslmode=disable", value)

	for _, bad := range []string{"NOVALUE", "=orphan", ""} {
		_, _, err := splitEnvVar(bad)
		require.Error(t, err, "input %q", bad)
		assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err))
	}
}

func TestBuildSpec_DefaultsAndEnvironmentLabel(t *testing.T) {
	deployManifest = ""
	deployEnvVars = nil
	t.Cleanup(func() { deployEnvVars = nil })

	spec, err := buildSpec(testDeployConfig())
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultCPU, spec.Limits.CPU)
	assert.Equal(t, constants.DefaultMemory, spec.Limits.Memory)
	assert.Equal(t, "production", spec.EnvVars["ENVIRONMENT"])
}

func TestBuildSpec_EnvFlagsOverrideLabel(t *testing.T) {
	deployManifest = ""
	deployEnvVars = []string{"ENVIRONMENT=staging", "FEATURE_X=on"}
	t.Cleanup(func() { deployEnvVars = nil })

	spec, err := buildSpec(testDeployConfig())
	require.NoError(t, err)

	assert.Equal(t, "staging", spec.EnvVars["ENVIRONMENT"])
	assert.Equal(t, "on", spec.EnvVars["FEATURE_X"])
}

func TestBuildSpec_ManifestApplied(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/deploy.yaml"
	manifest := "resources:\n  memory: 1Gi\nscaling:\n  max: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	deployManifest = path
	deployEnvVars = nil
	t.Cleanup(func() { deployManifest = "" })

	spec, err := buildSpec(testDeployConfig())
	require.NoError(t, err)

	assert.Equal(t, "1Gi", spec.Limits.Memory)
	assert.Equal(t, 3, spec.Scaling.MaxInstances)
	assert.Equal(t, constants.DefaultCPU, spec.Limits.CPU)
}

func TestBuildSpec_BadEnvFlagFails(t *testing.T) {
	deployManifest = ""
	deployEnvVars = []string{"MALFORMED"}
	t.Cleanup(func() { deployEnvVars = nil })

	_, err := buildSpec(testDeployConfig())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err))
}
