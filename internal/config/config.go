// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/swarm/internal/operations"
	"github.com/matt-FFFFFF/swarm/internal/registry"
	"github.com/matt-FFFFFF/swarm/internal/transport"
)

// Built-in defaults applied to workers that do not set their own.
const (
	DefaultUser       = "root"
	DefaultCredential = "~/.ssh/ai_swarm_key"
	DefaultWorkingDir = "~/worktree-1"
)

var (
	// ErrInvalidConfig is returned when the configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNoWorkers is returned when the configuration defines no workers.
	ErrNoWorkers = errors.New("no workers defined")
	// ErrInvalidDuration is returned when a timeout cannot be parsed.
	ErrInvalidDuration = errors.New("invalid duration")
)

// Config is the worker table and the settings that go with it.
type Config struct {
	Defaults Defaults       `yaml:"defaults" toml:"defaults"`
	Workers  []WorkerConfig `yaml:"workers" toml:"workers"`
	Commands Commands       `yaml:"commands" toml:"commands"`
}

// Defaults apply to every worker unless the worker overrides them.
type Defaults struct {
	User           string `yaml:"user,omitempty" toml:"user,omitempty"`
	Credential     string `yaml:"credential,omitempty" toml:"credential,omitempty"`
	WorkingDir     string `yaml:"working_dir,omitempty" toml:"working_dir,omitempty"`
	Transport      string `yaml:"transport,omitempty" toml:"transport,omitempty"`
	Timeout        string `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	ConnectTimeout string `yaml:"connect_timeout,omitempty" toml:"connect_timeout,omitempty"`
}

// WorkerConfig describes one worker.
type WorkerConfig struct {
	ID         int    `yaml:"id" toml:"id"`
	Address    string `yaml:"address" toml:"address"`
	Role       string `yaml:"role,omitempty" toml:"role,omitempty"`
	User       string `yaml:"user,omitempty" toml:"user,omitempty"`
	Credential string `yaml:"credential,omitempty" toml:"credential,omitempty"`
	WorkingDir string `yaml:"working_dir,omitempty" toml:"working_dir,omitempty"`
}

// Commands override the routine operation commands.
type Commands struct {
	Sync   string `yaml:"sync,omitempty" toml:"sync,omitempty"`
	Status string `yaml:"status,omitempty" toml:"status,omitempty"`
	Build  string `yaml:"build,omitempty" toml:"build,omitempty"`
	Lint   string `yaml:"lint,omitempty" toml:"lint,omitempty"`
	Test   string `yaml:"test,omitempty" toml:"test,omitempty"`
}

// Default returns the built-in fleet.
func Default() *Config {
	return &Config{
		Defaults: Defaults{
			User:       DefaultUser,
			Credential: DefaultCredential,
			WorkingDir: DefaultWorkingDir,
			Transport:  transport.KindOpenSSH,
		},
		Workers: []WorkerConfig{
			{ID: 1, Address: "164.92.118.130", Role: registry.RoleBuild.Key()},
			{ID: 2, Address: "147.182.243.137", Role: registry.RoleUI.Key()},
			{ID: 3, Address: "161.35.239.20", Role: registry.RoleInfra.Key()},
		},
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var err error

	if len(c.Workers) == 0 {
		err = multierror.Append(err, ErrNoWorkers)
	}

	seen := make(map[int]struct{}, len(c.Workers))

	for i, w := range c.Workers {
		if w.ID <= 0 {
			err = multierror.Append(err, fmt.Errorf("workers[%d]: id must be positive, got %d", i, w.ID))
		}

		if _, ok := seen[w.ID]; ok {
			err = multierror.Append(err, fmt.Errorf("workers[%d]: %w: %d", i, registry.ErrDuplicateWorker, w.ID))
		}

		seen[w.ID] = struct{}{}

		if strings.TrimSpace(w.Address) == "" {
			err = multierror.Append(err, fmt.Errorf("workers[%d]: address is required", i))
		}

		if _, rerr := registry.ParseRole(w.Role); rerr != nil {
			err = multierror.Append(err, fmt.Errorf("workers[%d]: %w", i, rerr))
		}
	}

	switch c.Defaults.Transport {
	case "", transport.KindOpenSSH, transport.KindNative, transport.KindLocal:
	default:
		err = multierror.Append(err, fmt.Errorf("defaults.transport: %w: %q", transport.ErrUnknownTransport, c.Defaults.Transport))
	}

	if _, derr := parseDuration(c.Defaults.Timeout); derr != nil {
		err = multierror.Append(err, fmt.Errorf("defaults.timeout: %w", derr))
	}

	if _, derr := parseDuration(c.Defaults.ConnectTimeout); derr != nil {
		err = multierror.Append(err, fmt.Errorf("defaults.connect_timeout: %w", derr))
	}

	if err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	return nil
}

// Registry builds the worker registry, filling in defaults and expanding ~ in credential paths.
// The working directory is left as written so the remote shell expands it.
func (c *Config) Registry() (*registry.Registry, error) {
	var err error

	workers := make([]registry.Worker, 0, len(c.Workers))

	for _, wc := range c.Workers {
		role, rerr := registry.ParseRole(wc.Role)
		if rerr != nil {
			err = multierror.Append(err, fmt.Errorf("worker %d: %w", wc.ID, rerr))
			continue
		}

		workers = append(workers, registry.Worker{
			ID:               wc.ID,
			Address:          strings.TrimSpace(wc.Address),
			User:             firstNonEmpty(wc.User, c.Defaults.User, DefaultUser),
			Role:             role,
			CredentialRef:    ExpandHome(firstNonEmpty(wc.Credential, c.Defaults.Credential, DefaultCredential)),
			RemoteWorkingDir: firstNonEmpty(wc.WorkingDir, c.Defaults.WorkingDir, DefaultWorkingDir),
		})
	}

	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	reg, err := registry.New(workers...)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	return reg, nil
}

// OperationCommands returns the routine commands, with defaults for any left unset.
func (c *Config) OperationCommands() operations.Commands {
	return operations.Commands{
		Sync:   c.Commands.Sync,
		Status: c.Commands.Status,
		Build:  c.Commands.Build,
		Lint:   c.Commands.Lint,
		Test:   c.Commands.Test,
	}.WithDefaults()
}

// TransportKind returns the configured transport, KindOpenSSH if unset.
func (c *Config) TransportKind() string {
	if c.Defaults.Transport == "" {
		return transport.KindOpenSSH
	}

	return c.Defaults.Transport
}

// Timeout returns the per-invocation timeout. Zero means unbounded.
// Call Validate first; an unparsable value yields zero.
func (c *Config) Timeout() time.Duration {
	d, _ := parseDuration(c.Defaults.Timeout)
	return d
}

// ConnectTimeout returns the bound on establishing a connection. Zero means none.
func (c *Config) ConnectTimeout() time.Duration {
	d, _ := parseDuration(c.Defaults.ConnectTimeout)
	return d
}

// ExpandHome replaces a leading ~ with the local user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := homeDir()
	if err != nil || home == "" {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Join(ErrInvalidDuration, err)
	}

	if d < 0 {
		return 0, fmt.Errorf("%w: %s is negative", ErrInvalidDuration, s)
	}

	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}

	return ""
}
