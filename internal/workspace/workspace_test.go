package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateCreatesIsolatedDirs(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	id1, dir1, err := m.Allocate()
	require.NoError(t, err)
	id2, dir2, err := m.Allocate()
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	assert.NotEqual(t, dir1, dir2)
	assert.DirExists(t, dir1)
	assert.DirExists(t, dir2)
	assert.Equal(t, filepath.Join(m.Root, id1), dir1)
}

func TestStageWritesVerbatim(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)
	_, dir, err := m.Allocate()
	require.NoError(t, err)

	payload := "not really a mesh\x00\x01\x02"
	path, err := m.Stage(dir, "building.3ds", strings.NewReader(payload))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))
}

func TestStageStripsClientPath(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)
	_, dir, err := m.Allocate()
	require.NoError(t, err)

	path, err := m.Stage(dir, "../../escape.3ds", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.3ds"), path)
}

func TestDetectInputLastMatchWins(t *testing.T) {
	staged := []string{"/w/a.3ds", "/w/texture.png", "/w/b.3ds"}

	input, err := DetectInput(staged)
	require.NoError(t, err)
	assert.Equal(t, "/w/b.3ds", input)
}

func TestDetectInputCaseInsensitive(t *testing.T) {
	input, err := DetectInput([]string{"/w/BUILDING.3DS"})
	require.NoError(t, err)
	assert.Equal(t, "/w/BUILDING.3DS", input)
}

func TestDetectInputMissing(t *testing.T) {
	_, err := DetectInput([]string{"/w/texture.png", "/w/readme.txt"})
	assert.ErrorIs(t, err, ErrInputMissing)

	_, err = DetectInput(nil)
	assert.ErrorIs(t, err, ErrInputMissing)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "/w/t/building.glb", OutputPath("/w/t/building.3ds"))
	assert.Equal(t, "/w/t/BUILDING.glb", OutputPath("/w/t/BUILDING.3DS"))
}
