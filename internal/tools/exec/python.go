package exec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	osexec "os/exec"
	"path/filepath"
	"time"
)

// PythonRunner executes Python programs through a python3 subprocess.
type PythonRunner struct {
	// Binary is the interpreter to invoke (default "python3").
	Binary string

	// Timeout bounds a single execution (default 30s).
	Timeout time.Duration
}

// NewPythonRunner creates a runner with defaults.
func NewPythonRunner() *PythonRunner {
	return &PythonRunner{Binary: "python3", Timeout: 30 * time.Second}
}

// Run executes the given source and returns its combined output.
// A non-zero exit or runtime exception is reported in the returned string,
// not as an error: failures of the analyzed code are analysis findings.
func (r *PythonRunner) Run(ctx context.Context, source string) (string, error) {
	binary := r.Binary
	if binary == "" {
		binary = "python3"
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	dir, err := os.MkdirTemp("", "autodoc-exec-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	script := filepath.Join(dir, "snippet.py")
	if err := os.WriteFile(script, []byte(source), 0o600); err != nil {
		return "", fmt.Errorf("failed to write snippet: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := osexec.CommandContext(ctx, binary, script)
	cmd.Dir = dir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	runErr := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Sprintf("Execution failed:\ntimed out after %s\n%s", timeout, output.String()), nil
	}
	if runErr != nil {
		return fmt.Sprintf("Execution failed:\n%s\n%s", runErr, output.String()), nil
	}
	return fmt.Sprintf("Execution successful:\n%s", output.String()), nil
}
