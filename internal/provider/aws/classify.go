package aws

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"

	apperrors "github.com/cloudship/cloudship/internal/errors"
)

// classify maps an AWS SDK error onto the cloudship taxonomy. Classification
// happens here, at the boundary; raw smithy errors never leave this package.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "UnrecognizedClientException", "InvalidClientTokenId", "ExpiredToken", "ExpiredTokenException":
			return apperrors.ErrAuthenticationRequired(op+": not authenticated with AWS, run `aws configure` or `aws sso login`", err)
		case "AccessDenied", "AccessDeniedException", "UnauthorizedOperation":
			return apperrors.ErrPermissionDenied(op+": "+apiErr.ErrorMessage(), err)
		case "RepositoryAlreadyExistsException":
			return apperrors.ErrResourceConflict(op+": repository already exists", err)
		case "RepositoryNotFoundException", "ResourceNotFoundException":
			return apperrors.ErrResourceNotFound(op+": resource not found", err)
		default:
			return apperrors.ErrDeployFailure(op+" failed", err)
		}
	}

	msg := err.Error()
	if strings.Contains(msg, "failed to retrieve credentials") ||
		strings.Contains(msg, "no EC2 IMDS role found") ||
		strings.Contains(msg, "static credentials are empty") {
		return apperrors.ErrAuthenticationRequired(op+": no AWS credentials found, run `aws configure` or `aws sso login`", err)
	}

	return apperrors.ErrProvisioningAmbiguous(op+": unrecognized provider response", err)
}
