package exec

import (
	"context"
	osexec "os/exec"
	"strings"
	"testing"
	"time"
)

func requirePython(t *testing.T) {
	t.Helper()
	if _, err := osexec.LookPath("python3"); err != nil {
		t.Skip("python3 not installed")
	}
}

func TestPythonRunner_RunsProgram(t *testing.T) {
	requirePython(t)
	runner := NewPythonRunner()

	out, err := runner.Run(context.Background(), "print('hello from python')\n")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(out, "Execution successful:") {
		t.Fatalf("Run() = %q, want success prefix", out)
	}
	if !strings.Contains(out, "hello from python") {
		t.Fatalf("Run() output missing program output: %q", out)
	}
}

func TestPythonRunner_ReportsExceptionAsText(t *testing.T) {
	requirePython(t)
	runner := NewPythonRunner()

	out, err := runner.Run(context.Background(), "raise ValueError('bad input')\n")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(out, "Execution failed:") {
		t.Fatalf("Run() = %q, want failure prefix", out)
	}
	if !strings.Contains(out, "ValueError") {
		t.Fatalf("Run() output missing traceback: %q", out)
	}
}

func TestPythonRunner_TimesOut(t *testing.T) {
	requirePython(t)
	runner := &PythonRunner{Binary: "python3", Timeout: 200 * time.Millisecond}

	out, err := runner.Run(context.Background(), "import time\ntime.sleep(5)\n")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(out, "Execution failed:") {
		t.Fatalf("Run() = %q, want failure prefix", out)
	}
	if !strings.Contains(out, "timed out") {
		t.Fatalf("Run() output missing timeout notice: %q", out)
	}
}

func TestPythonRunner_MissingBinaryIsAFinding(t *testing.T) {
	runner := &PythonRunner{Binary: "definitely-not-a-python-binary"}

	out, err := runner.Run(context.Background(), "print(1)\n")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(out, "Execution failed:") {
		t.Fatalf("Run() = %q, want failure prefix", out)
	}
}
