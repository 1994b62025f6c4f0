package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AccountServiceConfig holds configuration for the Account Service process.
type AccountServiceConfig struct {
	Port           string `json:"port" yaml:"port"`
	AccountsDBPath string `json:"accounts_db_path" yaml:"accounts_db_path"`
	TenantDataDir  string `json:"tenant_data_dir" yaml:"tenant_data_dir"`
	BcryptCost     int    `json:"bcrypt_cost" yaml:"bcrypt_cost"`
}

// CatalogServiceConfig holds configuration for the Catalog Service process.
type CatalogServiceConfig struct {
	Port          string `json:"port" yaml:"port"`
	CatalogDBPath string `json:"catalog_db_path" yaml:"catalog_db_path"`
	// AllowDegraded keeps the process up when the catalog database cannot be
	// opened. The degraded state is reported on /api/health; movie routes
	// return 503. Default (false) is fail fast at startup.
	AllowDegraded bool `json:"allow_degraded" yaml:"allow_degraded"`
}

// Load loads the configuration from a file (YAML or JSON)
func Load(path string, cfg interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(cfg); err != nil {
			return fmt.Errorf("failed to decode YAML config file %s: %w", path, err)
		}
	} else {
		// Default to JSON for compatibility or other extensions
		decoder := json.NewDecoder(file)
		if err := decoder.Decode(cfg); err != nil {
			return fmt.Errorf("failed to decode JSON config file %s: %w", path, err)
		}
	}

	return nil
}
