// Package standards loads team review profiles: extra criteria appended to
// the security and quality analysis prompts.
package standards

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile holds extra review criteria loaded from a YAML file.
type Profile struct {
	Security []string `yaml:"security"`
	Quality  []string `yaml:"quality"`
}

// Load reads a profile from the given YAML file. A missing path returns an
// empty profile so the standards file stays optional.
func Load(path string) (*Profile, error) {
	if path == "" {
		return &Profile{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Profile{}, nil
		}
		return nil, fmt.Errorf("read standards file: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse standards file %s: %w", path, err)
	}
	return &p, nil
}
