package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/c360/semvocab/errors"
)

// Catalog lists the vocabulary sources an application loads, in resolver
// priority order.
type Catalog struct {
	Vocabularies []VocabularySource `yaml:"vocabularies"`
}

// VocabularySource names one OBO source on disk. ID and Name override the
// values derived from the document header when set.
type VocabularySource struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// LoadCatalog reads and validates a YAML vocabulary catalog.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config", "LoadCatalog", fmt.Sprintf("read %s", path))
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, errors.WrapInvalid(err, "config", "LoadCatalog", "decode YAML")
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Validate checks that every source carries a path and no id is repeated.
func (c *Catalog) Validate() error {
	if len(c.Vocabularies) == 0 {
		return errors.WrapInvalid(
			fmt.Errorf("%w: catalog names no vocabularies", errors.ErrMissingConfig),
			"config", "Validate", "check catalog")
	}

	seen := make(map[string]struct{}, len(c.Vocabularies))
	for i, src := range c.Vocabularies {
		if src.Path == "" {
			return errors.WrapInvalid(
				fmt.Errorf("%w: vocabularies[%d] has no path", errors.ErrInvalidConfig, i),
				"config", "Validate", "check catalog entry")
		}
		if src.ID != "" {
			if _, dup := seen[src.ID]; dup {
				return errors.WrapInvalid(
					fmt.Errorf("%w: duplicate vocabulary id %q", errors.ErrInvalidConfig, src.ID),
					"config", "Validate", "check catalog entry")
			}
			seen[src.ID] = struct{}{}
		}
	}
	return nil
}
