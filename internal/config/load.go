// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/swarm/internal/ctxlog"
	"github.com/spf13/afero"
)

var (
	// ErrGetConfigFile is returned when the configuration file cannot be retrieved.
	ErrGetConfigFile = errors.New("failed to get config file")
	// ErrReadConfigFile is returned when a local configuration file cannot be read.
	ErrReadConfigFile = errors.New("failed to read config file")
)

// Load returns the configuration at url, or Default when url is empty.
// Paths that exist on the local filesystem are read directly; anything else
// is retrieved with go-getter. The result is validated.
func Load(ctx context.Context, url string) (*Config, error) {
	if url == "" {
		ctxlog.Debug(ctx, "using built-in worker table")
		return Default(), nil
	}

	if ok, err := afero.Exists(FsFactory(), url); err == nil && ok {
		return LoadFile(ctx, url)
	}

	src, err := ParseSource(url)
	if err != nil {
		return nil, err
	}

	data, err := Fetch(ctx, src)
	if err != nil {
		return nil, err
	}

	return decode(ctx, src.Name, data)
}

// LoadFile reads and validates a configuration file from FsFactory.
func LoadFile(ctx context.Context, path string) (*Config, error) {
	data, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		return nil, errors.Join(ErrReadConfigFile, err)
	}

	return decode(ctx, path, data)
}

func decode(ctx context.Context, name string, data []byte) (*Config, error) {
	cfg, err := Parse(name, data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctxlog.Debug(ctx, "loaded worker table", "source", name, "workers", len(cfg.Workers))

	return cfg, nil
}

// Source is a worker table address: what go-getter retrieves, and where the
// table sits inside it.
type Source struct {
	Src  string // go-getter source
	File string // table path inside the fetched directory; empty when Src is the table itself
	Name string // table file name, which selects the decoder
}

// ParseSource splits a go-getter URL into a Source. A table inside a repository
// or archive follows a // separator, e.g.
// git::https://example.com/fleet.git//swarm.yaml?ref=main.
func ParseSource(url string) (Source, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Source{}, fmt.Errorf("%w: empty url", ErrGetConfigFile)
	}

	src, sub := getter.SourceDirSubdir(url)

	s := Source{Src: url}

	if sub != "" {
		sub = path.Clean(sub)
		if sub == "." || sub == "/" {
			return Source{}, fmt.Errorf("%w: %s names a directory, not a table file", ErrGetConfigFile, url)
		}

		s.Src = src
		s.File = sub
	}

	if s.File != "" {
		s.Name = path.Base(s.File)
	} else {
		withoutQuery, _, _ := strings.Cut(url, "?")
		s.Name = path.Base(withoutQuery)
	}

	if !slices.Contains(Formats(), strings.ToLower(path.Ext(s.Name))) {
		return Source{}, errors.Join(ErrGetConfigFile,
			fmt.Errorf("%w: %q from %s", ErrUnsupportedFormat, s.Name, url))
	}

	return s, nil
}

// String describes the source for logs.
func (s Source) String() string {
	if s.File == "" {
		return s.Src
	}

	return s.Src + " (" + s.File + ")"
}

// Fetch retrieves the worker table named by s with go-getter.
func Fetch(ctx context.Context, s Source) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "swarm-getter-*")
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	req := &getter.Request{
		Src:     s.Src,
		Dst:     filepath.Join(tmpDir, s.Name),
		Pwd:     wd,
		GetMode: getter.ModeFile,
	}

	if s.File != "" {
		req.Dst = filepath.Join(tmpDir, "src")
		req.GetMode = getter.ModeDir
	}

	ctxlog.Debug(ctx, "fetching worker table", "source", s.String())

	client := getter.Client{DisableSymlinks: true}

	res, err := client.Get(ctx, req)
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	target := res.Dst
	if s.File != "" {
		target = filepath.Join(res.Dst, filepath.FromSlash(s.File))
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	return data, nil
}
