package aws

import (
	"errors"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cloudship/cloudship/internal/errors"
)

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "boom"}
}

func TestClassify_APICodes(t *testing.T) {
	tests := []struct {
		name     string
		sdkCode  string
		expected string
	}{
		{name: "unrecognized client", sdkCode: "UnrecognizedClientException", expected: apperrors.CodeAuthenticationRequired},
		{name: "expired token", sdkCode: "ExpiredTokenException", expected: apperrors.CodeAuthenticationRequired},
		{name: "access denied", sdkCode: "AccessDeniedException", expected: apperrors.CodePermissionDenied},
		{name: "repository exists", sdkCode: "RepositoryAlreadyExistsException", expected: apperrors.CodeResourceConflict},
		{name: "repository missing", sdkCode: "RepositoryNotFoundException", expected: apperrors.CodeResourceNotFound},
		{name: "service missing", sdkCode: "ResourceNotFoundException", expected: apperrors.CodeResourceNotFound},
		{name: "anything else", sdkCode: "InternalFailure", expected: apperrors.CodeDeployFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("test op", apiError(tt.sdkCode))
			require.Error(t, err)
			assert.Equal(t, tt.expected, apperrors.GetErrorCode(err))
		})
	}
}

func TestClassify_CredentialChainFailure(t *testing.T) {
	err := classify("test op", errors.New("failed to retrieve credentials: no EC2 IMDS role found"))

	assert.Equal(t, apperrors.CodeAuthenticationRequired, apperrors.GetErrorCode(err))
}

func TestClassify_UnknownErrorIsAmbiguous(t *testing.T) {
	err := classify("test op", errors.New("tls handshake timeout"))

	assert.Equal(t, apperrors.CodeProvisioningAmbiguous, apperrors.GetErrorCode(err))
}

func TestClassify_NilPassesThrough(t *testing.T) {
	assert.NoError(t, classify("test op", nil))
}
