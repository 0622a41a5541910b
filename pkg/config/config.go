// Package config holds the settings that drive the idlgraph transforms and
// cycle checks.
//
// A [Config] starts from [Default] and is overlaid by a TOML, YAML or JSON
// file via [Load]. Keys missing from the file keep their default values.
//
//	cfg, err := config.Load("idlgraph.toml")
//	if err != nil {
//	    return err
//	}
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/idlgraph/pkg/errors"
)

// Stereotypes names the UML stereotypes that mark IDL constructs.
type Stereotypes struct {
	Struct   string `toml:"struct" yaml:"struct" json:"struct"`
	Enum     string `toml:"enum" yaml:"enum" json:"enum"`
	Union    string `toml:"union" yaml:"union" json:"union"`
	Typedef  string `toml:"typedef" yaml:"typedef" json:"typedef"`
	Map      string `toml:"map" yaml:"map" json:"map"`
	MapKey   string `toml:"map_key" yaml:"map_key" json:"map_key"`
	MapValue string `toml:"map_value" yaml:"map_value" json:"map_value"`
}

// Config configures the transform pipeline.
type Config struct {
	Stereotypes Stereotypes `toml:"stereotypes" yaml:"stereotypes" json:"stereotypes"`

	// PrimitiveTypes never resolve to model classes.
	PrimitiveTypes []string `toml:"primitive_types" yaml:"primitive_types" json:"primitive_types"`

	// FilterStereotypes removes every package, class and attribute carrying
	// one of these stereotypes.
	FilterStereotypes []string `toml:"filter_stereotypes" yaml:"filter_stereotypes" json:"filter_stereotypes"`

	// Flatten copies abstract ancestors into their descendants and removes
	// the abstract classes.
	Flatten bool `toml:"flatten" yaml:"flatten" json:"flatten"`

	// Empty and single-member union handling. A union carrying one of
	// KeepUnionStereotypes is never collapsed; one carrying one of
	// CollapseUnionStereotypes always is; otherwise the default applies.
	CollapseEmptyUnionsByDefault bool     `toml:"collapse_empty_unions_by_default" yaml:"collapse_empty_unions_by_default" json:"collapse_empty_unions_by_default"`
	KeepUnionStereotypes         []string `toml:"keep_union_stereotypes" yaml:"keep_union_stereotypes" json:"keep_union_stereotypes"`
	CollapseUnionStereotypes     []string `toml:"collapse_union_stereotypes" yaml:"collapse_union_stereotypes" json:"collapse_union_stereotypes"`

	// UnusedRootProperty enables dead-code pruning: only classes reachable
	// from classes carrying this property survive. Empty disables pruning.
	UnusedRootProperty string `toml:"unused_root_property" yaml:"unused_root_property" json:"unused_root_property"`

	// StrictCycles turns cycles without any sequence/map/union edge into
	// errors instead of leaving them to the sorter.
	StrictCycles bool `toml:"strict_cycles" yaml:"strict_cycles" json:"strict_cycles"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Stereotypes: Stereotypes{
			Struct:   "idlStruct",
			Enum:     "idlEnum",
			Union:    "idlUnion",
			Typedef:  "idlTypedef",
			Map:      "idlMap",
			MapKey:   "key",
			MapValue: "value",
		},
		PrimitiveTypes: []string{
			"short",
			"unsigned short",
			"long",
			"unsigned long",
			"long long",
			"unsigned long long",
			"float",
			"double",
			"long double",
			"char",
			"wchar",
			"boolean",
			"octet",
			"string",
			"wstring",
			"int8",
			"uint8",
			"int16",
			"uint16",
			"int32",
			"uint32",
			"int64",
			"uint64",
		},
		Flatten:                      true,
		CollapseEmptyUnionsByDefault: true,
		StrictCycles:                 true,
	}
}

// IsPrimitive reports whether name is a configured primitive type.
func (c *Config) IsPrimitive(name string) bool {
	return slices.Contains(c.PrimitiveTypes, strings.TrimSpace(name))
}

// IsFiltered reports whether any of stereotypes is configured for removal.
func (c *Config) IsFiltered(stereotypes []string) bool {
	return slices.ContainsFunc(stereotypes, func(s string) bool {
		return slices.Contains(c.FilterStereotypes, s)
	})
}

// ShouldCollapseUnion applies the union policy to a union's stereotypes.
// Keep overrides collapse.
func (c *Config) ShouldCollapseUnion(stereotypes []string) bool {
	has := func(list []string) bool {
		return slices.ContainsFunc(stereotypes, func(s string) bool { return slices.Contains(list, s) })
	}
	if has(c.KeepUnionStereotypes) {
		return false
	}
	if has(c.CollapseUnionStereotypes) {
		return true
	}
	return c.CollapseEmptyUnionsByDefault
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	names := map[string]string{
		"stereotypes.struct":    c.Stereotypes.Struct,
		"stereotypes.enum":      c.Stereotypes.Enum,
		"stereotypes.union":     c.Stereotypes.Union,
		"stereotypes.typedef":   c.Stereotypes.Typedef,
		"stereotypes.map":       c.Stereotypes.Map,
		"stereotypes.map_key":   c.Stereotypes.MapKey,
		"stereotypes.map_value": c.Stereotypes.MapValue,
	}
	for _, key := range slices.Sorted(maps.Keys(names)) {
		if strings.TrimSpace(names[key]) == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must not be empty", key)
		}
	}
	if c.Stereotypes.MapKey == c.Stereotypes.MapValue {
		return errors.New(errors.ErrCodeInvalidConfig, "map key and value member names must differ (both %q)", c.Stereotypes.MapKey)
	}
	for _, s := range c.KeepUnionStereotypes {
		if slices.Contains(c.CollapseUnionStereotypes, s) {
			return errors.New(errors.ErrCodeInvalidConfig, "stereotype %q is both a keep and a collapse union stereotype", s)
		}
	}
	return nil
}

// Load reads path on top of [Default] and validates the result. The format
// is chosen by extension: .toml, .yaml/.yml, or .json.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the format named by ext (".toml", ".yaml", ".yml"
// or ".json") on top of [Default] and validates the result.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		var md toml.MetaData
		md, err = toml.Decode(string(data), cfg)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
			}
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(cfg); err == io.EOF {
			err = nil
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (must be one of: .toml, .yaml, .yml, .json)", ext)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
