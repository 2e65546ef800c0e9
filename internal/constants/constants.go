// Package constants defines shared names and defaults for the cloudship CLI.
package constants

import "time"

// ProjectName is used for the CLI binary name and resource labels.
const ProjectName = "cloudship"

// Environment identifies where a process is running.
type Environment string

const (
	// CLI marks an interactive terminal invocation.
	CLI Environment = "cli"
	// Production marks a non-interactive environment (CI or a deployed service).
	Production Environment = "production"
)

// Provider identifies a cloud backend.
type Provider string

const (
	ProviderGCP Provider = "gcp"
	ProviderAWS Provider = "aws"
)

// Default resource names. The registry repository and service names follow
// the application being deployed rather than the CLI.
const (
	DefaultRegistryName = "fastapi-repo"
	DefaultServiceName  = "fastapi-service"
	DefaultImageName    = "fastapi-app"
	DefaultRegion       = "us-central1"
	DefaultAWSRegion    = "us-east-1"
	DefaultEnvironment  = "production"
)

// ConfigFileName is the flat KEY=value file in the working directory that
// records the active deployment target. Keep it out of version control.
const ConfigFileName = ".cloudship.env"

// LatestTag is the mutable tag overwritten on every publish.
const LatestTag = "latest"

// Deployment defaults passed through to the compute service.
const (
	DefaultCPU            = "1"
	DefaultMemory         = "512Mi"
	DefaultMinInstances   = 0
	DefaultMaxInstances   = 10
	DefaultConcurrency    = 80
	DefaultTimeoutSeconds = 300
	DefaultContainerPort  = 8080
)

// Verification timing. The propagation delay gives the provider time to route
// traffic to the new revision before the single probe fires.
const (
	VerifyPropagationDelay = 5 * time.Second
	VerifyProbeTimeout     = 10 * time.Second
)

// version is set at build time via -ldflags.
var version = "dev"

// GetVersion returns the CLI build version.
func GetVersion() *string {
	return &version
}
