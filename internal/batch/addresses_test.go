package batch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAddresses(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "addresses.txt")
	content := "\ufeff台北市信義區市府路1號\n\n  1600 Amphitheatre Parkway, Mountain View, CA  \r\n\t\n##invalid##\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	addrs, err := LoadAddresses(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"台北市信義區市府路1號",
		"1600 Amphitheatre Parkway, Mountain View, CA",
		"##invalid##",
	}, addrs)
}

func TestLoadAddresses_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadAddresses(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAddressFileNotFound))
}

func TestLoadAddresses_IsDirectory(t *testing.T) {
	t.Parallel()

	_, err := LoadAddresses(t.TempDir())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrAddressFileNotFound))
}

func TestParseAddresses_Empty(t *testing.T) {
	t.Parallel()

	addrs, err := ParseAddresses(strings.NewReader("\n \n\t\n"))
	require.NoError(t, err)
	assert.Empty(t, addrs)
}
