package orchestrator

import (
	"context"
	"net/http"
	"time"

	"github.com/cloudship/cloudship/internal/constants"
	"github.com/cloudship/cloudship/internal/output"
)

// VerificationResult reports the outcome of the single post-deploy probe.
type VerificationResult struct {
	OK         bool
	HTTPStatus int
	Elapsed    time.Duration
}

// Verifier issues one bounded health probe against the deployed endpoint.
// Verification is advisory: the deploy already succeeded when the provider
// accepted the revision, so a failed probe surfaces as a warning only.
type Verifier struct {
	// Delay gives the provider time to propagate routing before the probe.
	Delay  time.Duration
	Client *http.Client
}

// NewVerifier creates a verifier with the standard delay and probe timeout.
func NewVerifier() *Verifier {
	return &Verifier{
		Delay:  constants.VerifyPropagationDelay,
		Client: &http.Client{Timeout: constants.VerifyProbeTimeout},
	}
}

// Verify waits the propagation delay, then probes the service root once.
func (v *Verifier) Verify(ctx context.Context, url string) VerificationResult {
	select {
	case <-ctx.Done():
		return VerificationResult{}
	case <-time.After(v.Delay):
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return VerificationResult{Elapsed: time.Since(start)}
	}

	resp, err := v.Client.Do(req)
	if err != nil {
		output.Warning("Verification probe failed: %v", err)
		return VerificationResult{Elapsed: time.Since(start)}
	}
	defer resp.Body.Close()

	result := VerificationResult{
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		HTTPStatus: resp.StatusCode,
		Elapsed:    time.Since(start),
	}
	if result.OK {
		output.Success("Service responded %d in %s", result.HTTPStatus, result.Elapsed.Round(time.Millisecond))
	} else {
		output.Warning("Service responded %d; the deploy itself succeeded, check application logs", result.HTTPStatus)
	}
	return result
}
