package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	client "github.com/peteraglen/multicard-go-client"
)

const defaultProfileName = "default"

// Profile is one named set of connection settings. The secret is not part
// of it; it lives in the system keyring.
type Profile struct {
	ApplicationID string `yaml:"application_id"`
	BaseURL       string `yaml:"base_url,omitempty"`
	StoreID       *int64 `yaml:"store_id,omitempty"`
	Timeout       string `yaml:"timeout,omitempty"`
	OpenTimeout   string `yaml:"open_timeout,omitempty"`
}

// ProfileFile is the on-disk layout of the CLI configuration.
type ProfileFile struct {
	Default  string             `yaml:"default,omitempty"`
	Profiles map[string]Profile `yaml:"profiles"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".multicard", "config.yaml")
	}
	return filepath.Join(dir, "multicard", "config.yaml")
}

// loadProfiles reads path. A missing file yields an empty ProfileFile.
func loadProfiles(path string) (*ProfileFile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ProfileFile{Profiles: map[string]Profile{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var pf ProfileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if pf.Profiles == nil {
		pf.Profiles = map[string]Profile{}
	}

	return &pf, nil
}

func (pf *ProfileFile) save(path string) error {
	data, err := yaml.Marshal(pf)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// resolveName picks the profile to use: the explicit name, then
// MULTICARD_PROFILE, then the file's default.
func (pf *ProfileFile) resolveName(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("MULTICARD_PROFILE"); env != "" {
		return env
	}
	if pf.Default != "" {
		return pf.Default
	}
	return defaultProfileName
}

// configOptions converts the profile into client options.
func (p Profile) configOptions() ([]client.ConfigOption, error) {
	var opts []client.ConfigOption

	if p.ApplicationID != "" {
		opts = append(opts, client.WithApplicationID(p.ApplicationID))
	}
	if p.BaseURL != "" {
		opts = append(opts, client.WithBaseURL(p.BaseURL))
	}
	if p.StoreID != nil {
		opts = append(opts, client.WithStoreID(*p.StoreID))
	}
	if p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", p.Timeout, err)
		}
		opts = append(opts, client.WithTimeout(d))
	}
	if p.OpenTimeout != "" {
		d, err := time.ParseDuration(p.OpenTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid open_timeout %q: %w", p.OpenTimeout, err)
		}
		opts = append(opts, client.WithOpenTimeout(d))
	}

	return opts, nil
}
