package params

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	multierror "github.com/hashicorp/go-multierror"

	"github.com/chasep/kvac/internal/group"
)

// Config is the on-disk, human-editable description of a deployment's
// System Parameters: how many attributes it carries and which
// domain-separation seed its generators are derived from. Loading the same
// Config twice yields byte-identical SystemParameters, which is what makes
// a deployment reproducible across issuer and holder processes without
// shipping the derived points themselves.
//
// Modeled on drand's own TOML-backed group/config files (common/key,
// BurntSushi/toml), adapted to this module's much smaller parameter set.
type Config struct {
	DomainSeed         string `toml:"domain_seed"`
	NumberOfAttributes int    `toml:"number_of_attributes"`
}

// Validate collects every structural problem with the config - rather than
// stopping at the first one - before returning, mirroring how drand
// aggregates config validation errors with go-multierror.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.DomainSeed == "" {
		result = multierror.Append(result, fmt.Errorf("params: domain_seed must not be empty"))
	}
	if c.NumberOfAttributes < 0 {
		result = multierror.Append(result, fmt.Errorf("params: number_of_attributes must not be negative"))
	}
	return result.ErrorOrNil()
}

// Derive builds the SystemParameters this config describes.
func (c *Config) Derive(g *group.Group) (*SystemParameters, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return New(g, c.DomainSeed, c.NumberOfAttributes)
}

// LoadConfig reads and validates a Config from a TOML file.
func LoadConfig(path string) (*Config, error) {
	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, fmt.Errorf("params: decoding %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save writes the config to path as TOML.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("params: creating %s: %w", path, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("params: encoding %s: %w", path, err)
	}
	return nil
}
