package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/apprunner"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// STSClient defines the STS operations used by the AWS backend.
// Interfaces mirror the SDK signatures so mocks can stand in during tests.
type STSClient interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

// ECRClient defines the ECR operations used by the AWS backend.
type ECRClient interface {
	CreateRepository(
		ctx context.Context,
		params *ecr.CreateRepositoryInput,
		optFns ...func(*ecr.Options),
	) (*ecr.CreateRepositoryOutput, error)
	DeleteRepository(
		ctx context.Context,
		params *ecr.DeleteRepositoryInput,
		optFns ...func(*ecr.Options),
	) (*ecr.DeleteRepositoryOutput, error)
	GetAuthorizationToken(
		ctx context.Context,
		params *ecr.GetAuthorizationTokenInput,
		optFns ...func(*ecr.Options),
	) (*ecr.GetAuthorizationTokenOutput, error)
}

// AppRunnerClient defines the App Runner operations used by the AWS backend.
type AppRunnerClient interface {
	ListServices(
		ctx context.Context,
		params *apprunner.ListServicesInput,
		optFns ...func(*apprunner.Options),
	) (*apprunner.ListServicesOutput, error)
	CreateService(
		ctx context.Context,
		params *apprunner.CreateServiceInput,
		optFns ...func(*apprunner.Options),
	) (*apprunner.CreateServiceOutput, error)
	UpdateService(
		ctx context.Context,
		params *apprunner.UpdateServiceInput,
		optFns ...func(*apprunner.Options),
	) (*apprunner.UpdateServiceOutput, error)
	DeleteService(
		ctx context.Context,
		params *apprunner.DeleteServiceInput,
		optFns ...func(*apprunner.Options),
	) (*apprunner.DeleteServiceOutput, error)
	DescribeService(
		ctx context.Context,
		params *apprunner.DescribeServiceInput,
		optFns ...func(*apprunner.Options),
	) (*apprunner.DescribeServiceOutput, error)
}
