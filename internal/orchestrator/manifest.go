package orchestrator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cloudship/cloudship/internal/constants"
	apperrors "github.com/cloudship/cloudship/internal/errors"
	"github.com/cloudship/cloudship/internal/provider"
)

// Manifest is the optional deploy-time YAML describing service parameters.
// Flags override manifest values; manifest values override defaults.
type Manifest struct {
	Resources struct {
		CPU    string `yaml:"cpu"`
		Memory string `yaml:"memory"`
	} `yaml:"resources"`
	Scaling struct {
		Min         *int `yaml:"min"`
		Max         *int `yaml:"max"`
		Concurrency *int `yaml:"concurrency"`
	} `yaml:"scaling"`
	TimeoutSeconds *int              `yaml:"timeout_seconds"`
	Port           *int              `yaml:"port"`
	Environment    map[string]string `yaml:"environment"`
}

// DefaultSpec returns a ServiceSpec carrying the standard limits and scaling.
func DefaultSpec() provider.ServiceSpec {
	return provider.ServiceSpec{
		Limits: provider.ResourceLimits{
			CPU:    constants.DefaultCPU,
			Memory: constants.DefaultMemory,
		},
		Scaling: provider.ScalingPolicy{
			MinInstances: constants.DefaultMinInstances,
			MaxInstances: constants.DefaultMaxInstances,
			Concurrency:  constants.DefaultConcurrency,
		},
		TimeoutSeconds: constants.DefaultTimeoutSeconds,
		Port:           constants.DefaultContainerPort,
		EnvVars:        map[string]string{},
	}
}

// LoadManifest reads a manifest file and applies it over the default spec.
func LoadManifest(path string) (provider.ServiceSpec, error) {
	spec := DefaultSpec()

	raw, err := os.ReadFile(path)
	if err != nil {
		return spec, apperrors.ErrInvalidInput("cannot read manifest "+path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return spec, apperrors.ErrInvalidInput(fmt.Sprintf("manifest %s is not valid YAML", path), err)
	}

	m.apply(&spec)
	return spec, nil
}

func (m *Manifest) apply(spec *provider.ServiceSpec) {
	if m.Resources.CPU != "" {
		spec.Limits.CPU = m.Resources.CPU
	}
	if m.Resources.Memory != "" {
		spec.Limits.Memory = m.Resources.Memory
	}
	if m.Scaling.Min != nil {
		spec.Scaling.MinInstances = *m.Scaling.Min
	}
	if m.Scaling.Max != nil {
		spec.Scaling.MaxInstances = *m.Scaling.Max
	}
	if m.Scaling.Concurrency != nil {
		spec.Scaling.Concurrency = *m.Scaling.Concurrency
	}
	if m.TimeoutSeconds != nil {
		spec.TimeoutSeconds = *m.TimeoutSeconds
	}
	if m.Port != nil {
		spec.Port = *m.Port
	}
	for key, value := range m.Environment {
		spec.EnvVars[key] = value
	}
}
