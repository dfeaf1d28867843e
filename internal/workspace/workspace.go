// internal/workspace/workspace.go
package workspace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// InputExt is the one recognized convertible source extension.
const InputExt = ".3ds"

var (
	// ErrInputMissing means no uploaded file carried the recognized extension.
	ErrInputMissing = errors.New("no .3ds file among uploaded files")

	// ErrStorage means the upload root is not usable.
	ErrStorage = errors.New("upload storage unavailable")
)

// Manager allocates one isolated working directory per conversion task under
// a fixed root.
type Manager struct {
	Root string
}

func NewManager(root string) (*Manager, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &Manager{Root: root}, nil
}

// Allocate creates a fresh task directory named by a random UUID. Concurrent
// tasks never share a directory, so parallel conversions cannot collide.
func (m *Manager) Allocate() (taskID, dir string, err error) {
	taskID = uuid.New().String()
	dir = filepath.Join(m.Root, taskID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return taskID, dir, nil
}

// Stage writes one uploaded payload verbatim into the task directory. Any
// path components in the client-supplied filename are stripped.
func (m *Manager) Stage(dir, filename string, src io.Reader) (string, error) {
	dst := filepath.Join(dir, filepath.Base(filename))
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return dst, nil
}

// DetectInput picks the convertible input among the staged files, matching
// the extension case-insensitively. The scan deliberately covers the whole
// slice without short-circuiting: when several files match, the last one in
// upload order wins.
func DetectInput(staged []string) (string, error) {
	var input string
	for _, p := range staged {
		if strings.HasSuffix(strings.ToLower(p), InputExt) {
			input = p
		}
	}
	if input == "" {
		return "", ErrInputMissing
	}
	return input, nil
}

// OutputPath derives the converter's target path: the input path with its
// extension swapped for .glb.
func OutputPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".glb"
}
