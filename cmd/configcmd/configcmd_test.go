// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package configcmd

import (
	"bytes"
	"testing"

	"github.com/matt-FFFFFF/swarm/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The printed table must load back to the same fleet.
func TestWriteIsLoadable(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, Write(&buf, config.Default(), format))

			cfg, err := config.Parse("fleet."+format, buf.Bytes())
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())

			want, err := config.Default().Registry()
			require.NoError(t, err)

			got, err := cfg.Registry()
			require.NoError(t, err)
			assert.Equal(t, want.All(), got.All())
		})
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	t.Parallel()

	err := Write(new(bytes.Buffer), config.Default(), "json")
	require.ErrorIs(t, err, ErrUnknownFormat)
}
