package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cloudship/cloudship/internal/constants"
	"github.com/cloudship/cloudship/internal/output"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the CLI version",
	Run: func(_ *cobra.Command, _ []string) {
		output.Println(constants.ProjectName, *constants.GetVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
