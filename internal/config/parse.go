// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrUnsupportedFormat is returned when the file extension is not a known format.
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
	// ErrInvalidYaml is returned when a YAML table cannot be decoded.
	ErrInvalidYaml = errors.New("invalid YAML")
	// ErrInvalidHcl is returned when an HCL table cannot be decoded.
	ErrInvalidHcl = errors.New("invalid HCL")
	// ErrInvalidToml is returned when a TOML table cannot be decoded.
	ErrInvalidToml = errors.New("invalid TOML")
)

// Supported file extensions.
const (
	extYAML = ".yaml"
	extYML  = ".yml"
	extHCL  = ".hcl"
	extTOML = ".toml"
)

// Parse decodes a worker table, choosing the format from the extension of name.
// The result is not validated.
func Parse(name string, data []byte) (*Config, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case extYAML, extYML:
		return parseYAML(data)
	case extHCL:
		return parseHCL(name, data)
	case extTOML:
		return parseTOML(data)
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s, %s, %s)", ErrUnsupportedFormat, name, extYAML, extHCL, extTOML)
	}
}

func parseYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYaml, err) //nolint:errorlint
	}

	return cfg, nil
}

func parseTOML(data []byte) (*Config, error) {
	cfg := &Config{}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Join(ErrInvalidToml, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}

		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidToml, strings.Join(keys, ", "))
	}

	return cfg, nil
}

type hclDocument struct {
	Defaults *hclDefaults `hcl:"defaults,block"`
	Workers  []hclWorker  `hcl:"worker,block"`
	Commands *hclCommands `hcl:"commands,block"`
}

type hclDefaults struct {
	User           string `hcl:"user,optional"`
	Credential     string `hcl:"credential,optional"`
	WorkingDir     string `hcl:"working_dir,optional"`
	Transport      string `hcl:"transport,optional"`
	Timeout        string `hcl:"timeout,optional"`
	ConnectTimeout string `hcl:"connect_timeout,optional"`
}

type hclWorker struct {
	ID         int    `hcl:"id"`
	Address    string `hcl:"address"`
	Role       string `hcl:"role"`
	User       string `hcl:"user,optional"`
	Credential string `hcl:"credential,optional"`
	WorkingDir string `hcl:"working_dir,optional"`
}

type hclCommands struct {
	Sync   string `hcl:"sync,optional"`
	Status string `hcl:"status,optional"`
	Build  string `hcl:"build,optional"`
	Lint   string `hcl:"lint,optional"`
	Test   string `hcl:"test,optional"`
}

func parseHCL(name string, data []byte) (*Config, error) {
	file, diags := hclsyntax.ParseConfig(data, name, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, errors.Join(ErrInvalidHcl, diags)
	}

	var doc hclDocument
	if diags := gohcl.DecodeBody(file.Body, EvalContext(), &doc); diags.HasErrors() {
		return nil, errors.Join(ErrInvalidHcl, diags)
	}

	cfg := &Config{}

	if d := doc.Defaults; d != nil {
		cfg.Defaults = Defaults(*d)
	}

	for _, w := range doc.Workers {
		cfg.Workers = append(cfg.Workers, WorkerConfig(w))
	}

	if c := doc.Commands; c != nil {
		cfg.Commands = Commands(*c)
	}

	return cfg, nil
}

// EvalContext returns the variables available to HCL expressions:
// env, a map of the process environment, and home, the local home directory.
func EvalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}

		env[k] = cty.StringVal(v)
	}

	envVal := cty.MapValEmpty(cty.String)
	if len(env) > 0 {
		envVal = cty.MapVal(env)
	}

	home, _ := homeDir()

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env":  envVal,
			"home": cty.StringVal(home),
		},
	}
}

// Formats returns the supported file extensions.
func Formats() []string {
	return slices.Clone([]string{extYAML, extYML, extHCL, extTOML})
}
