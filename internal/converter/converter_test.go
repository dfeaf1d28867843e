package converter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFakeConverter drops an executable shell script that stands in for the
// blender binary. Under the invocation contract
// <bin> -b -P <script> -- <input> <output> the input is $5 and the output $6.
func writeFakeConverter(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-blender")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func newBlender(bin string) *Blender {
	return &Blender{Bin: bin, Script: "convert.py", Timeout: 5 * time.Second}
}

func TestConvertSuccess(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "building.3ds")
	output := filepath.Join(dir, "building.glb")
	require.NoError(t, os.WriteFile(input, []byte("mesh"), 0o644))

	bin := writeFakeConverter(t, `cp "$5" "$6"; echo converted`)
	res, err := newBlender(bin).Convert(context.Background(), input, output)

	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "converted")
	assert.FileExists(t, output)
}

func TestConvertNonZeroExitCapturesBothStreams(t *testing.T) {
	bin := writeFakeConverter(t, `echo import failed; echo traceback >&2; exit 3`)
	res, err := newBlender(bin).Convert(context.Background(), "/nope/in.3ds", "/nope/out.glb")

	assert.ErrorIs(t, err, ErrConversionFailed)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Stdout, "import failed")
	assert.Contains(t, res.Stderr, "traceback")
}

func TestConvertNonZeroExitWithEmptyStreams(t *testing.T) {
	bin := writeFakeConverter(t, `exit 1`)
	res, err := newBlender(bin).Convert(context.Background(), "/nope/in.3ds", "/nope/out.glb")

	assert.ErrorIs(t, err, ErrConversionFailed)
	assert.Equal(t, "", res.Stdout)
	assert.Equal(t, "", res.Stderr)
}

func TestConvertZeroExitMissingOutput(t *testing.T) {
	output := filepath.Join(t.TempDir(), "never-written.glb")

	bin := writeFakeConverter(t, `echo all good`)
	res, err := newBlender(bin).Convert(context.Background(), "/nope/in.3ds", output)

	assert.ErrorIs(t, err, ErrConversionIncomplete)
	assert.Equal(t, 0, res.ExitCode)
}

func TestConvertZeroExitEmptyOutput(t *testing.T) {
	output := filepath.Join(t.TempDir(), "empty.glb")

	bin := writeFakeConverter(t, `: > "$6"`)
	_, err := newBlender(bin).Convert(context.Background(), "/nope/in.3ds", output)

	assert.ErrorIs(t, err, ErrConversionIncomplete)
}

func TestConvertTimeoutKillsChild(t *testing.T) {
	bin := writeFakeConverter(t, `sleep 30`)
	b := &Blender{Bin: bin, Script: "convert.py", Timeout: 100 * time.Millisecond}

	start := time.Now()
	_, err := b.Convert(context.Background(), "/nope/in.3ds", "/nope/out.glb")

	assert.ErrorIs(t, err, ErrConversionTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestConvertMissingBinary(t *testing.T) {
	b := newBlender(filepath.Join(t.TempDir(), "no-such-binary"))
	_, err := b.Convert(context.Background(), "in.3ds", "out.glb")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConversionFailed)
	assert.NotErrorIs(t, err, ErrConversionIncomplete)
	assert.NotErrorIs(t, err, ErrConversionTimeout)
}
