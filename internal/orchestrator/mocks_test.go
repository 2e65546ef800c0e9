package orchestrator

import (
	"context"

	"github.com/cloudship/cloudship/internal/config"
	"github.com/cloudship/cloudship/internal/constants"
	"github.com/cloudship/cloudship/internal/provider"
)

// fakeClient is an in-memory provider.Client recording every call.
type fakeClient struct {
	name constants.Provider

	resolveAccountFn func(accountID string) (string, error)
	enableErr        error
	repoExists       bool
	repoErr          error
	authErr          error
	deployFn         func(spec provider.ServiceSpec) (*provider.DeploymentRecord, error)
	deleteServiceErr error
	deleteRepoErr    error

	enableCalls        int
	ensureCalls        int
	deployCalls        []provider.ServiceSpec
	deleteServiceCalls int
	deleteRepoCalls    int
}

func newFakeClient() *fakeClient {
	return &fakeClient{name: constants.ProviderGCP}
}

func (f *fakeClient) Name() constants.Provider { return f.name }

func (f *fakeClient) ResolveAccount(_ context.Context, accountID string) (string, error) {
	if f.resolveAccountFn != nil {
		return f.resolveAccountFn(accountID)
	}
	if accountID == "" {
		accountID = "acme"
	}
	return accountID, nil
}

func (f *fakeClient) EnableServices(_ context.Context, _ string) error {
	f.enableCalls++
	return f.enableErr
}

func (f *fakeClient) EnsureRepository(_ context.Context, cfg *config.DeploymentConfig) (string, bool, error) {
	f.ensureCalls++
	if f.repoErr != nil {
		return "", false, f.repoErr
	}
	host := cfg.Region + "-docker.pkg.dev"
	if f.repoExists {
		return host, false, nil
	}
	f.repoExists = true
	return host, true, nil
}

func (f *fakeClient) RegistryAuth(_ context.Context, cfg *config.DeploymentConfig) (provider.RegistryAuth, error) {
	if f.authErr != nil {
		return provider.RegistryAuth{}, f.authErr
	}
	return provider.RegistryAuth{
		Username:      "oauth2accesstoken",
		Password:      "token",
		ServerAddress: cfg.Region + "-docker.pkg.dev",
	}, nil
}

func (f *fakeClient) ImageRef(cfg *config.DeploymentConfig, imageName, tag string) provider.ImageReference {
	return provider.ImageReference{
		RegistryHost: cfg.Region + "-docker.pkg.dev",
		Repository:   cfg.AccountID + "/" + cfg.RegistryName,
		ImageName:    imageName,
		Tag:          tag,
	}
}

func (f *fakeClient) DeployService(
	_ context.Context,
	cfg *config.DeploymentConfig,
	spec provider.ServiceSpec,
) (*provider.DeploymentRecord, error) {
	f.deployCalls = append(f.deployCalls, spec)
	if f.deployFn != nil {
		return f.deployFn(spec)
	}
	return &provider.DeploymentRecord{
		ServiceName:    cfg.ServiceName,
		ActiveImage:    spec.Image,
		Limits:         spec.Limits,
		Scaling:        spec.Scaling,
		TimeoutSeconds: spec.TimeoutSeconds,
		EnvVars:        spec.EnvVars,
		PublicURL:      "https://fastapi-service-abc.run.app",
		Revision:       "rev-1",
	}, nil
}

func (f *fakeClient) DeleteService(_ context.Context, _ *config.DeploymentConfig) error {
	f.deleteServiceCalls++
	return f.deleteServiceErr
}

func (f *fakeClient) DeleteRepository(_ context.Context, _ *config.DeploymentConfig) error {
	f.deleteRepoCalls++
	return f.deleteRepoErr
}

// fakeEngine is an in-memory builder.Engine.
type fakeEngine struct {
	pingErr  error
	buildErr error
	tagErr   error
	// pushErrs maps an image ref URI to the error its push should return.
	pushErrs map[string]error

	built  [][]string
	tagged [][2]string
	pushed []string
}

func (f *fakeEngine) Ping(_ context.Context) error { return f.pingErr }

func (f *fakeEngine) Build(_ context.Context, _ string, tags []string) error {
	if f.buildErr != nil {
		return f.buildErr
	}
	f.built = append(f.built, tags)
	return nil
}

func (f *fakeEngine) Tag(_ context.Context, source, target string) error {
	if f.tagErr != nil {
		return f.tagErr
	}
	f.tagged = append(f.tagged, [2]string{source, target})
	return nil
}

func (f *fakeEngine) Push(_ context.Context, ref string, _ provider.RegistryAuth) error {
	if err := f.pushErrs[ref]; err != nil {
		return err
	}
	f.pushed = append(f.pushed, ref)
	return nil
}

func gcpConfig() *config.DeploymentConfig {
	return &config.DeploymentConfig{
		Provider:         constants.ProviderGCP,
		AccountID:        "acme",
		Region:           "us-central1",
		RegistryName:     "fastapi-repo",
		ServiceName:      "fastapi-service",
		EnvironmentLabel: "production",
	}
}
