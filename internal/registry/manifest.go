package registry

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// manifest is the on-disk (embedded) YAML declaration of a single variant.
type manifest struct {
	Kind      string           `yaml:"kind"`
	Name      string           `yaml:"name"`
	Provides  map[string]any   `yaml:"provides"`
	Requires  []string         `yaml:"requires"`
	Optional  []string         `yaml:"optional"`
	Conflicts []string         `yaml:"conflicts"`
	Outputs   []manifestOutput `yaml:"outputs"`
}

type manifestOutput struct {
	Path  string `yaml:"path"`
	Asset string `yaml:"asset"`
	When  string `yaml:"when"`
}

// parseManifest decodes and sanity-checks a manifest. Structural problems
// are reported here; asset existence and path-template variables are checked
// by Load, which knows the surrounding filesystem.
func parseManifest(path string, data []byte) (*manifest, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &LoadError{Manifest: path, Reason: "invalid YAML", Err: err}
	}

	kind := Kind(m.Kind)
	if !kind.Valid() {
		return nil, &LoadError{Manifest: path, Reason: fmt.Sprintf("unknown module kind %q", m.Kind)}
	}
	if m.Name == "" {
		return nil, &LoadError{Manifest: path, Reason: "variant name is empty"}
	}

	for _, c := range m.Conflicts {
		k, _, ok := strings.Cut(c, ":")
		if !ok || !Kind(k).Valid() {
			return nil, &LoadError{Manifest: path, Reason: fmt.Sprintf("malformed conflict entry %q (want kind:name)", c)}
		}
	}

	for _, out := range m.Outputs {
		if out.Path == "" || out.Asset == "" {
			return nil, &LoadError{Manifest: path, Reason: "output entry missing path or asset"}
		}
	}

	return &m, nil
}
