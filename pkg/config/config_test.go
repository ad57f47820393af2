package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "cluster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadValidCluster(t *testing.T) {
	path := writeConfig(t, "nodes:\n  - id: A\n  - id: B\n  - id: C\n")
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, c.IDs())
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	path := writeConfig(t, "nodes:\n  - id: A\n  - id: A\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsEmptyNodeList(t *testing.T) {
	path := writeConfig(t, "nodes: []\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
