package axmldecode

import (
	"io"

	"gopkg.in/yaml.v2"
)

// Config carries the decode-time knobs spec.md §6 calls "Configuration":
// whether references resolve all the way to a value or stop at "@type/key"
// form, whether the built-in attribute-value humanizer runs, and which
// locale to prefer when a resource has more than one config-qualified
// candidate.
type Config struct {
	// ResolveToValue, when true, follows REFERENCE/ATTRIBUTE chains in a
	// resource table down to a terminal STRING value, rendering "@type/key"
	// when no string is reached; when false (the default), references
	// always render as "@type/key".
	ResolveToValue bool `yaml:"resolve_to_value"`

	// AttributeValueMapping enables DefaultAttributeValueMapper for the
	// attributes spec.md §9 names (screenOrientation, configChanges, ...).
	AttributeValueMapping bool `yaml:"attribute_value_mapping"`

	// Locale is the preferred "lang" or "lang-COUNTRY" candidate used by
	// ResourceTable.SelectEntry, per spec.md §4.6. Empty means "no
	// preference": only the locale-less candidate (or the first one found)
	// is picked.
	Locale string `yaml:"locale"`
}

// DefaultConfig matches the teacher's own defaults: resolve references to
// the "@type/key" form, do not humanize attribute values, no locale
// preference.
func DefaultConfig() Config {
	return Config{}
}

// LoadConfig reads a YAML document into a Config, for callers who keep
// their decode settings in a config file alongside the rest of their
// deployment config rather than constructing Config literally in code.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, err
	}
	return cfg, nil
}
