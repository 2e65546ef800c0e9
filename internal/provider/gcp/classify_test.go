package gcp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "github.com/cloudship/cloudship/internal/errors"
)

func TestClassify_RESTCodes(t *testing.T) {
	tests := []struct {
		name     string
		httpCode int
		expected string
	}{
		{name: "unauthorized", httpCode: 401, expected: apperrors.CodeAuthenticationRequired},
		{name: "forbidden", httpCode: 403, expected: apperrors.CodePermissionDenied},
		{name: "not found", httpCode: 404, expected: apperrors.CodeResourceNotFound},
		{name: "conflict", httpCode: 409, expected: apperrors.CodeResourceConflict},
		{name: "server error", httpCode: 500, expected: apperrors.CodeDeployFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("test op", &googleapi.Error{Code: tt.httpCode})
			require.Error(t, err)
			assert.Equal(t, tt.expected, apperrors.GetErrorCode(err))
		})
	}
}

func TestClassify_GRPCCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     codes.Code
		expected string
	}{
		{name: "unauthenticated", code: codes.Unauthenticated, expected: apperrors.CodeAuthenticationRequired},
		{name: "permission denied", code: codes.PermissionDenied, expected: apperrors.CodePermissionDenied},
		{name: "not found", code: codes.NotFound, expected: apperrors.CodeResourceNotFound},
		{name: "already exists", code: codes.AlreadyExists, expected: apperrors.CodeResourceConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("test op", status.Error(tt.code, "boom"))
			require.Error(t, err)
			assert.Equal(t, tt.expected, apperrors.GetErrorCode(err))
		})
	}
}

func TestClassify_MissingCredentials(t *testing.T) {
	err := classify("test op", errors.New("google: could not find default credentials"))

	assert.Equal(t, apperrors.CodeAuthenticationRequired, apperrors.GetErrorCode(err))
}

func TestClassify_UnknownErrorIsAmbiguous(t *testing.T) {
	err := classify("test op", errors.New("connection reset by peer"))

	assert.Equal(t, apperrors.CodeProvisioningAmbiguous, apperrors.GetErrorCode(err))
}

func TestClassify_NilPassesThrough(t *testing.T) {
	assert.NoError(t, classify("test op", nil))
}

func TestClassify_AlreadyClassifiedPassesThrough(t *testing.T) {
	original := apperrors.ErrResourceConflict("already exists", nil)

	assert.Equal(t, error(original), classify("test op", original))
}
