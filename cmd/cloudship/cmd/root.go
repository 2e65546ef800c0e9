// Package cmd implements the cloudship CLI commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudship/cloudship/internal/constants"
	apperrors "github.com/cloudship/cloudship/internal/errors"
	"github.com/cloudship/cloudship/internal/logger"
	"github.com/cloudship/cloudship/internal/output"
	"github.com/cloudship/cloudship/internal/provider"
	"github.com/cloudship/cloudship/internal/provider/aws"
	"github.com/cloudship/cloudship/internal/provider/gcp"
)

var (
	debug         bool
	verbose       bool
	timeout       string
	timeoutCancel context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:   constants.ProjectName,
	Short: "Build, deploy and tear down containerized apps on Cloud Run or App Runner",
	Long: fmt.Sprintf(`%s provisions a container registry and a serverless container service,
builds and publishes your image, deploys it, and tears everything down again.
State between invocations lives in %s and in the cloud provider itself.`,
		constants.ProjectName, constants.ConfigFileName),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if verbose {
			output.Header(output.Bold(constants.ProjectName) + " " + *constants.GetVersion())
		}

		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}
		logger.Initialize(constants.CLI, logLevel)

		if timeout == "0" {
			return nil
		}

		timeoutDuration, err := parseTimeout(timeout)
		if err != nil {
			return apperrors.ErrInvalidInput("invalid --timeout value", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeoutDuration)
		timeoutCancel = cancel
		cmd.SetContext(ctx)
		return nil
	},
}

// Execute runs the CLI and exits with the classified error's code.
func Execute() {
	err := rootCmd.Execute()
	if timeoutCancel != nil {
		timeoutCancel()
	}

	if err != nil {
		output.Error("%s", apperrors.GetErrorMessage(err))
		os.Exit(apperrors.GetExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&timeout, "timeout", "30m", "Timeout for the whole invocation (e.g. 10m, 30s, or seconds)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debugging logs")
}

// parseTimeout accepts a duration string ("10m", "30s") or plain seconds.
func parseTimeout(timeoutStr string) (time.Duration, error) {
	if timeoutStr == "" {
		timeoutStr = "30m"
	}

	duration, err := time.ParseDuration(timeoutStr)
	if err == nil {
		return duration, nil
	}

	seconds, err := strconv.Atoi(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout format: %s (use a duration like '10m' or seconds like '600')", timeoutStr)
	}
	return time.Duration(seconds) * time.Second, nil
}

// newProviderClient builds the backend named in the config or flags.
func newProviderClient(ctx context.Context, name constants.Provider, region string) (provider.Client, error) {
	switch name {
	case constants.ProviderGCP:
		return gcp.NewClient(ctx)
	case constants.ProviderAWS:
		return aws.NewClient(ctx, region)
	default:
		return nil, apperrors.ErrInvalidInput(
			fmt.Sprintf("unknown provider %q (use %s or %s)", name, constants.ProviderGCP, constants.ProviderAWS), nil)
	}
}
