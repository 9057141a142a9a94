// SPDX-License-Identifier: MIT

package menu

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.md")
	require.NoError(t, os.WriteFile(path, []byte("# Menú\n- Cheesecake $29"), 0o600))

	s := Load(path)
	assert.Contains(t, s.Content(), "Cheesecake")
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "nope.md"))
	assert.Empty(t, s.Content())
}

func TestWatch_PicksUpRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.md")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	s := Load(path)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Watch(ctx))

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o600))

	assert.Eventually(t, func() bool {
		return s.Content() == "v2"
	}, 2*time.Second, 10*time.Millisecond)
}
