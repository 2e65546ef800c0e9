// Package config persists the active deployment target for cloudship.
// The store is a flat KEY=value file in the working directory; it is the
// single source of truth consulted by every stage after setup and is never
// re-derived from provider state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/cloudship/cloudship/internal/constants"
)

// DeploymentConfig describes the provisioned deployment target.
type DeploymentConfig struct {
	Provider         constants.Provider `mapstructure:"provider" validate:"required,oneof=gcp aws"`
	AccountID        string             `mapstructure:"account_id" validate:"required"`
	Region           string             `mapstructure:"region" validate:"required"`
	RegistryName     string             `mapstructure:"registry_name" validate:"required"`
	ServiceName      string             `mapstructure:"service_name" validate:"required"`
	EnvironmentLabel string             `mapstructure:"environment"`
}

var validate = validator.New()

// Store reads and writes the deployment config file. No locking is provided;
// concurrent invocations are out of scope for a single-operator CLI.
type Store struct {
	path string
}

// NewStore creates a store rooted at dir, typically the working directory.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, constants.ConfigFileName)}
}

// Path returns the location of the config file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted config. A missing file is not an error: it means
// no deployment target has been provisioned yet, and found is false.
func (s *Store) Load() (*DeploymentConfig, bool, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, false, nil
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return nil, false, fmt.Errorf("error reading config file %s: %w", s.path, err)
	}

	var cfg DeploymentConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, false, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, false, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, true, nil
}

// Save persists the config atomically: the rendered file is written to a
// temp file beside the target and renamed into place, so a partial write is
// never observable.
func (s *Store) Save(cfg *DeploymentConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("refusing to save invalid config: %w", err)
	}

	content := fmt.Sprintf(
		"PROVIDER=%s\nACCOUNT_ID=%s\nREGION=%s\nREGISTRY_NAME=%s\nSERVICE_NAME=%s\nENVIRONMENT=%s\n",
		cfg.Provider, cfg.AccountID, cfg.Region, cfg.RegistryName, cfg.ServiceName, cfg.EnvironmentLabel,
	)

	tmp, err := os.CreateTemp(filepath.Dir(s.path), constants.ConfigFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("error creating temp config file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("error writing config: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error closing temp config file: %w", err)
	}

	if err = os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error replacing config file: %w", err)
	}
	return nil
}

// Clear removes the config file. Removing an absent file is a no-op so that
// teardown stays idempotent.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing config file: %w", err)
	}
	return nil
}
