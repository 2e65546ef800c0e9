package cmd

import (
	"bufio"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudship/cloudship/internal/config"
	"github.com/cloudship/cloudship/internal/orchestrator"
	"github.com/cloudship/cloudship/internal/output"
)

var cleanupYes bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete the service, the registry and the local state",
	Long: `Deletes the deployed service and the container registry recorded in the
local configuration, then removes the configuration file. Resources that are
already gone are skipped. Asks for confirmation unless --yes is given.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		store := config.NewStore(".")
		cfg, found, err := store.Load()
		if err != nil {
			return err
		}
		if !found {
			output.Info("Nothing to clean up, no deployment configuration found")
			return nil
		}

		confirmed := cleanupYes
		if !confirmed {
			output.Warning("This permanently deletes service '%s' and registry '%s' on %s",
				cfg.ServiceName, cfg.RegistryName, cfg.Provider)
			confirmed = promptConfirmation(cmd.InOrStdin())
		}

		client, err := newProviderClient(ctx, cfg.Provider, cfg.Region)
		if err != nil {
			return err
		}
		return orchestrator.Teardown(ctx, client, store, cfg, confirmed)
	},
}

// promptConfirmation reads one line and accepts only an exact "yes".
func promptConfirmation(in io.Reader) bool {
	output.Printf("Type 'yes' to confirm: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.TrimSpace(line) == "yes"
}

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupYes, "yes", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(cleanupCmd)
}
