package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cloudship/cloudship/internal/config"
	"github.com/cloudship/cloudship/internal/constants"
	"github.com/cloudship/cloudship/internal/orchestrator"
)

var (
	setupProvider string
	setupAccount  string
	setupRegion   string
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision the registry and service prerequisites",
	Long: `Resolves the target cloud account, enables the services the deploy needs,
creates the container registry, verifies registry credentials and records
the result locally. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		providerName := constants.Provider(setupProvider)
		region := setupRegion
		if region == "" {
			region = defaultRegionFor(providerName)
		}

		client, err := newProviderClient(ctx, providerName, region)
		if err != nil {
			return err
		}

		store := config.NewStore(".")
		provisioner := orchestrator.NewProvisioner(client, store)
		_, err = provisioner.Provision(ctx, setupAccount, region)
		return err
	},
}

func defaultRegionFor(name constants.Provider) string {
	if name == constants.ProviderAWS {
		return constants.DefaultAWSRegion
	}
	return constants.DefaultRegion
}

func init() {
	setupCmd.Flags().StringVar(&setupProvider, "provider", string(constants.ProviderGCP), "Cloud provider (gcp or aws)")
	setupCmd.Flags().StringVar(&setupAccount, "account", "", "GCP project ID or AWS account ID")
	setupCmd.Flags().StringVar(&setupRegion, "region", "", "Region for the registry and service")
	rootCmd.AddCommand(setupCmd)
}
