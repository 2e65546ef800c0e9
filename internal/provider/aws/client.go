// Package aws implements the cloudship provider backend on AWS: ECR for
// images and App Runner for the compute service.
package aws

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apprunner"
	apprunnertypes "github.com/aws/aws-sdk-go-v2/service/apprunner/types"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/cloudship/cloudship/internal/config"
	"github.com/cloudship/cloudship/internal/constants"
	apperrors "github.com/cloudship/cloudship/internal/errors"
	"github.com/cloudship/cloudship/internal/provider"
)

const (
	servicePollInterval = 5 * time.Second

	// ecrAccessRoleName is the role App Runner assumes to pull from ECR,
	// matching the name the AWS console creates by default.
	ecrAccessRoleName = "AppRunnerECRAccessRole"
)

// Client implements provider.Client for AWS.
type Client struct {
	region    string
	sts       STSClient
	ecr       ECRClient
	apprunner AppRunnerClient
}

// NewClient builds an AWS client from the default credential chain.
func NewClient(ctx context.Context, region string) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, classify("load aws configuration", err)
	}
	if cfg.Region == "" {
		cfg.Region = constants.DefaultAWSRegion
	}

	return &Client{
		region:    cfg.Region,
		sts:       sts.NewFromConfig(cfg),
		ecr:       ecr.NewFromConfig(cfg),
		apprunner: apprunner.NewFromConfig(cfg),
	}, nil
}

// Name identifies the backend.
func (c *Client) Name() constants.Provider {
	return constants.ProviderAWS
}

// ResolveAccount returns the session's account ID via STS. A requested
// account that disagrees with the session is rejected rather than assumed.
func (c *Client) ResolveAccount(ctx context.Context, accountID string) (string, error) {
	identity, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", classify("resolve aws account", err)
	}

	sessionAccount := awssdk.ToString(identity.Account)
	if accountID != "" && accountID != sessionAccount {
		return "", apperrors.ErrInvalidInput(
			fmt.Sprintf("requested account %s but the AWS session belongs to %s", accountID, sessionAccount), nil)
	}

	slog.Debug("resolved aws account", "account", sessionAccount, "arn", awssdk.ToString(identity.Arn))
	return sessionAccount, nil
}

// EnableServices is a no-op on AWS; ECR and App Runner need no activation.
func (c *Client) EnableServices(_ context.Context, _ string) error {
	return nil
}

// EnsureRepository creates the ECR repository, tolerating "already exists".
func (c *Client) EnsureRepository(
	ctx context.Context,
	cfg *config.DeploymentConfig,
) (string, bool, error) {
	host := fmt.Sprintf("%s.dkr.ecr.%s.amazonaws.com", cfg.AccountID, cfg.Region)

	_, err := c.ecr.CreateRepository(ctx, &ecr.CreateRepositoryInput{
		RepositoryName: awssdk.String(cfg.RegistryName),
	})
	if err != nil {
		classified := classify("create repository "+cfg.RegistryName, err)
		if apperrors.IsCode(classified, apperrors.CodeResourceConflict) {
			return host, false, nil
		}
		return "", false, classified
	}
	return host, true, nil
}

// RegistryAuth decodes the ECR authorization token into docker credentials.
func (c *Client) RegistryAuth(
	ctx context.Context,
	cfg *config.DeploymentConfig,
) (provider.RegistryAuth, error) {
	out, err := c.ecr.GetAuthorizationToken(ctx, &ecr.GetAuthorizationTokenInput{})
	if err != nil {
		return provider.RegistryAuth{}, classify("get registry authorization token", err)
	}
	if len(out.AuthorizationData) == 0 {
		return provider.RegistryAuth{}, apperrors.ErrProvisioningAmbiguous("registry returned no authorization data", nil)
	}

	data := out.AuthorizationData[0]
	decoded, err := base64.StdEncoding.DecodeString(awssdk.ToString(data.AuthorizationToken))
	if err != nil {
		return provider.RegistryAuth{}, apperrors.ErrProvisioningAmbiguous("registry token is not valid base64", err)
	}
	username, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return provider.RegistryAuth{}, apperrors.ErrProvisioningAmbiguous("registry token is not user:password shaped", nil)
	}

	return provider.RegistryAuth{
		Username:      username,
		Password:      password,
		ServerAddress: fmt.Sprintf("%s.dkr.ecr.%s.amazonaws.com", cfg.AccountID, cfg.Region),
	}, nil
}

// ImageRef builds the ECR reference for a tag. ECR repositories are flat, so
// the repository name is the full image path under the account registry.
func (c *Client) ImageRef(cfg *config.DeploymentConfig, _, tag string) provider.ImageReference {
	return provider.ImageReference{
		RegistryHost: fmt.Sprintf("%s.dkr.ecr.%s.amazonaws.com", cfg.AccountID, cfg.Region),
		Repository:   cfg.RegistryName,
		Tag:          tag,
	}
}

// DeployService creates or updates the App Runner service and waits for the
// rollout to reach a terminal state.
func (c *Client) DeployService(
	ctx context.Context,
	cfg *config.DeploymentConfig,
	spec provider.ServiceSpec,
) (*provider.DeploymentRecord, error) {
	source := c.sourceConfiguration(cfg, spec)
	instance := &apprunnertypes.InstanceConfiguration{
		Cpu:    awssdk.String(spec.Limits.CPU),
		Memory: awssdk.String(spec.Limits.Memory),
	}

	arn, err := c.findServiceArn(ctx, cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	if arn == "" {
		out, createErr := c.apprunner.CreateService(ctx, &apprunner.CreateServiceInput{
			ServiceName:           awssdk.String(cfg.ServiceName),
			SourceConfiguration:   source,
			InstanceConfiguration: instance,
		})
		if createErr != nil {
			return nil, classify("create app runner service", createErr)
		}
		arn = awssdk.ToString(out.Service.ServiceArn)
	} else {
		_, updateErr := c.apprunner.UpdateService(ctx, &apprunner.UpdateServiceInput{
			ServiceArn:            awssdk.String(arn),
			SourceConfiguration:   source,
			InstanceConfiguration: instance,
		})
		if updateErr != nil {
			return nil, classify("update app runner service", updateErr)
		}
	}

	service, err := c.waitForService(ctx, arn)
	if err != nil {
		return nil, err
	}

	return &provider.DeploymentRecord{
		ServiceName:    cfg.ServiceName,
		ActiveImage:    spec.Image,
		Limits:         spec.Limits,
		Scaling:        spec.Scaling,
		TimeoutSeconds: spec.TimeoutSeconds,
		EnvVars:        spec.EnvVars,
		PublicURL:      "https://" + awssdk.ToString(service.ServiceUrl),
		Revision:       awssdk.ToString(service.ServiceId),
	}, nil
}

// DeleteService removes the App Runner service.
func (c *Client) DeleteService(ctx context.Context, cfg *config.DeploymentConfig) error {
	arn, err := c.findServiceArn(ctx, cfg.ServiceName)
	if err != nil {
		return err
	}
	if arn == "" {
		return apperrors.ErrResourceNotFound("service "+cfg.ServiceName+" not found", nil)
	}

	_, err = c.apprunner.DeleteService(ctx, &apprunner.DeleteServiceInput{
		ServiceArn: awssdk.String(arn),
	})
	return classify("delete app runner service", err)
}

// DeleteRepository force-deletes the ECR repository including its images.
func (c *Client) DeleteRepository(ctx context.Context, cfg *config.DeploymentConfig) error {
	_, err := c.ecr.DeleteRepository(ctx, &ecr.DeleteRepositoryInput{
		RepositoryName: awssdk.String(cfg.RegistryName),
		Force:          true,
	})
	return classify("delete repository "+cfg.RegistryName, err)
}

func (c *Client) sourceConfiguration(
	cfg *config.DeploymentConfig,
	spec provider.ServiceSpec,
) *apprunnertypes.SourceConfiguration {
	return &apprunnertypes.SourceConfiguration{
		AutoDeploymentsEnabled: awssdk.Bool(false),
		AuthenticationConfiguration: &apprunnertypes.AuthenticationConfiguration{
			AccessRoleArn: awssdk.String(fmt.Sprintf("arn:aws:iam::%s:role/%s", cfg.AccountID, ecrAccessRoleName)),
		},
		ImageRepository: &apprunnertypes.ImageRepository{
			ImageIdentifier:     awssdk.String(spec.Image.URI()),
			ImageRepositoryType: apprunnertypes.ImageRepositoryTypeEcr,
			ImageConfiguration: &apprunnertypes.ImageConfiguration{
				Port:                        awssdk.String(strconv.Itoa(spec.Port)),
				RuntimeEnvironmentVariables: spec.EnvVars,
			},
		},
	}
}

// findServiceArn resolves a service name to its ARN, empty when absent.
func (c *Client) findServiceArn(ctx context.Context, serviceName string) (string, error) {
	var nextToken *string
	for {
		out, err := c.apprunner.ListServices(ctx, &apprunner.ListServicesInput{NextToken: nextToken})
		if err != nil {
			return "", classify("list app runner services", err)
		}
		for _, summary := range out.ServiceSummaryList {
			if awssdk.ToString(summary.ServiceName) == serviceName {
				return awssdk.ToString(summary.ServiceArn), nil
			}
		}
		if out.NextToken == nil {
			return "", nil
		}
		nextToken = out.NextToken
	}
}

// waitForService polls until the rollout reaches a terminal status.
func (c *Client) waitForService(ctx context.Context, arn string) (*apprunnertypes.Service, error) {
	for {
		out, err := c.apprunner.DescribeService(ctx, &apprunner.DescribeServiceInput{
			ServiceArn: awssdk.String(arn),
		})
		if err != nil {
			return nil, classify("describe app runner service", err)
		}

		switch out.Service.Status {
		case apprunnertypes.ServiceStatusRunning:
			return out.Service, nil
		case apprunnertypes.ServiceStatusCreateFailed:
			return nil, apperrors.ErrDeployFailure("service rollout failed; the previous revision, if any, keeps serving", nil)
		case apprunnertypes.ServiceStatusDeleted, apprunnertypes.ServiceStatusDeleteFailed:
			return nil, apperrors.ErrDeployFailure("service entered status "+string(out.Service.Status), nil)
		}

		select {
		case <-ctx.Done():
			return nil, apperrors.ErrDeployFailure("interrupted while waiting for rollout", ctx.Err())
		case <-time.After(servicePollInterval):
		}
	}
}
