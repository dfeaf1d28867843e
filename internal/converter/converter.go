// internal/converter/converter.go
package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"
)

var (
	// ErrConversionFailed means the converter exited non-zero. The Result
	// carries both captured streams for diagnostics.
	ErrConversionFailed = errors.New("converter exited with an error")

	// ErrConversionIncomplete means the converter exited zero but wrote no
	// usable output file.
	ErrConversionIncomplete = errors.New("converter reported success but produced no output")

	// ErrConversionTimeout means the converter outlived its deadline and its
	// process group was killed.
	ErrConversionTimeout = errors.New("converter timed out")
)

// Result captures what the external converter produced.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Invoker runs one conversion synchronously. Implementations are expected to
// enforce the output contract: a nil error guarantees a non-empty file exists
// at outputPath.
type Invoker interface {
	Convert(ctx context.Context, inputPath, outputPath string) (Result, error)
}

// Blender invokes the conversion engine in background mode with a fixed
// argument shape:
//
//	<Bin> -b -P <Script> -- <inputPath> <outputPath>
type Blender struct {
	Bin     string
	Script  string
	Timeout time.Duration
}

func (b *Blender) Convert(ctx context.Context, inputPath, outputPath string) (Result, error) {
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, b.Bin, "-b", "-P", b.Script, "--", inputPath, outputPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Blender spawns helpers; run the child in its own process group so that
	// a timeout kills the whole group, not just the leader.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	runErr := cmd.Run()

	res := Result{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: -1}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if ctx.Err() == context.DeadlineExceeded {
		return res, fmt.Errorf("%w after %s", ErrConversionTimeout, b.Timeout)
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return res, ErrConversionFailed
		}
		return res, fmt.Errorf("running %s: %w", b.Bin, runErr)
	}

	// Zero exit still means nothing until the artifact is there.
	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		return res, ErrConversionIncomplete
	}
	return res, nil
}
