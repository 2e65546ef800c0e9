package gcp

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "github.com/cloudship/cloudship/internal/errors"
)

// classify maps a Google API error onto the cloudship taxonomy. Both REST
// (googleapi.Error) and gRPC (status) shapes are handled; anything else is
// reported ambiguous so callers never mistake an unknown failure for success.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			return apperrors.ErrAuthenticationRequired(op+": not authenticated with Google Cloud, run `gcloud auth application-default login`", err)
		case http.StatusForbidden:
			return apperrors.ErrPermissionDenied(op+": "+apiErr.Message, err)
		case http.StatusNotFound:
			return apperrors.ErrResourceNotFound(op+": resource not found", err)
		case http.StatusConflict:
			return apperrors.ErrResourceConflict(op+": resource already exists", err)
		default:
			return apperrors.ErrDeployFailure(op+" failed", err)
		}
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		switch st.Code() {
		case codes.Unauthenticated:
			return apperrors.ErrAuthenticationRequired(op+": not authenticated with Google Cloud, run `gcloud auth application-default login`", err)
		case codes.PermissionDenied:
			return apperrors.ErrPermissionDenied(op+": "+st.Message(), err)
		case codes.NotFound:
			return apperrors.ErrResourceNotFound(op+": resource not found", err)
		case codes.AlreadyExists:
			return apperrors.ErrResourceConflict(op+": resource already exists", err)
		default:
			return apperrors.ErrDeployFailure(op+" failed", err)
		}
	}

	if strings.Contains(err.Error(), "could not find default credentials") {
		return apperrors.ErrAuthenticationRequired(op+": no application default credentials, run `gcloud auth application-default login`", err)
	}

	return apperrors.ErrProvisioningAmbiguous(op+": unrecognized provider response", err)
}
