package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudship/cloudship/internal/builder"
	"github.com/cloudship/cloudship/internal/config"
	"github.com/cloudship/cloudship/internal/constants"
	apperrors "github.com/cloudship/cloudship/internal/errors"
	"github.com/cloudship/cloudship/internal/orchestrator"
	"github.com/cloudship/cloudship/internal/provider"
)

var (
	deployVersion  string
	deployContext  string
	deployEnvVars  []string
	deployManifest string
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Build, publish and roll out the application image",
	Long: `Builds the container image from the build context, pushes the version and
latest tags to the registry created by setup, and deploys the version tag to
the serverless service. Finishes with a single advisory health probe that
never changes the command's outcome.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		store := config.NewStore(".")
		cfg, found, err := store.Load()
		if err != nil {
			return err
		}
		if !found {
			return apperrors.ErrInvalidInput(
				fmt.Sprintf("no deployment configuration found; run '%s setup' first", constants.ProjectName), nil)
		}

		spec, err := buildSpec(cfg)
		if err != nil {
			return err
		}

		client, err := newProviderClient(ctx, cfg.Provider, cfg.Region)
		if err != nil {
			return err
		}
		engine, err := builder.NewDockerEngine()
		if err != nil {
			return err
		}

		publisher := orchestrator.NewPublisher(client, engine)
		refs, err := publisher.Publish(ctx, cfg, deployContext, deployVersion)
		if err != nil {
			return err
		}

		spec.Image = refs[0]
		deployer := orchestrator.NewDeployer(client)
		record, err := deployer.Deploy(ctx, cfg, spec)
		if err != nil {
			return err
		}

		orchestrator.NewVerifier().Verify(ctx, record.PublicURL)
		return nil
	},
}

// buildSpec layers the manifest (if any) and --env flags over the defaults.
func buildSpec(cfg *config.DeploymentConfig) (provider.ServiceSpec, error) {
	spec := orchestrator.DefaultSpec()
	if deployManifest != "" {
		loaded, err := orchestrator.LoadManifest(deployManifest)
		if err != nil {
			return spec, err
		}
		spec = loaded
	}

	if _, ok := spec.EnvVars["ENVIRONMENT"]; !ok && cfg.EnvironmentLabel != "" {
		spec.EnvVars["ENVIRONMENT"] = cfg.EnvironmentLabel
	}

	for _, pair := range deployEnvVars {
		key, value, err := splitEnvVar(pair)
		if err != nil {
			return spec, err
		}
		spec.EnvVars[key] = value
	}
	return spec, nil
}

func splitEnvVar(pair string) (string, string, error) {
	key, value, found := strings.Cut(pair, "=")
	if !found || key == "" {
		return "", "", apperrors.ErrInvalidInput(
			fmt.Sprintf("invalid --env value %q (expected KEY=VALUE)", pair), nil)
	}
	return key, value, nil
}

func init() {
	deployCmd.Flags().StringVar(&deployVersion, "version", constants.LatestTag, "Image version tag to build and deploy")
	deployCmd.Flags().StringVar(&deployContext, "context", ".", "Docker build context directory")
	deployCmd.Flags().StringArrayVar(&deployEnvVars, "env", nil, "Environment variable for the service (KEY=VALUE, repeatable)")
	deployCmd.Flags().StringVar(&deployManifest, "manifest", "", "Optional YAML manifest with resource and scaling overrides")
	rootCmd.AddCommand(deployCmd)
}
