package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// GoRunner executes Go programs in a sandboxed yaegi interpreter.
// Interpretation avoids `go build` entirely: no toolchain, no module
// resolution, no compiled artifacts for untrusted snippets.
type GoRunner struct {
	// Timeout bounds a single execution (default 30s).
	Timeout time.Duration

	// allowedPackages whitelists stdlib imports for interpreted code.
	allowedPackages map[string]bool
}

// NewGoRunner creates a yaegi-based runner with a safe stdlib whitelist.
func NewGoRunner() *GoRunner {
	return &GoRunner{
		Timeout: 30 * time.Second,
		allowedPackages: map[string]bool{
			"bytes":           true,
			"encoding/base64": true,
			"encoding/json":   true,
			"errors":          true,
			"fmt":             true,
			"math":            true,
			"math/rand":       true,
			"regexp":          true,
			"sort":            true,
			"strconv":         true,
			"strings":         true,
			"time":            true,
			"unicode":         true,

			// Blocked: os, os/exec, net, net/http, syscall, unsafe.
		},
	}
}

// Run interprets the given Go source and returns what it printed.
// Evaluation errors, runtime panics, and timeouts inside the snippet are
// reported in the returned string, not as an error. The deadline stops the
// interpreter, so a looping snippet cannot outlive it.
func (r *GoRunner) Run(ctx context.Context, source string) (string, error) {
	if verr := r.validateImports(source); verr != nil {
		return fmt.Sprintf("Execution failed:\n%s", verr), nil
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var output bytes.Buffer
	i := interp.New(interp.Options{Stdout: &output, Stderr: &output})
	if uerr := i.Use(stdlib.Symbols); uerr != nil {
		return "", fmt.Errorf("failed to load stdlib: %w", uerr)
	}

	if _, eerr := i.EvalWithContext(ctx, source); eerr != nil {
		return failure(ctx, timeout, eerr, &output), nil
	}
	// Interpreting a full program declares main but does not run it.
	if strings.Contains(source, "func main(") {
		if _, merr := i.EvalWithContext(ctx, "main.main()"); merr != nil {
			return failure(ctx, timeout, merr, &output), nil
		}
	}
	return fmt.Sprintf("Execution successful:\n%s", output.String()), nil
}

// failure renders an evaluation error, distinguishing deadline expiry.
func failure(ctx context.Context, timeout time.Duration, err error, output *bytes.Buffer) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Sprintf("Execution failed:\ntimed out after %s\n%s", timeout, output.String())
	}
	if ctx.Err() != nil {
		return fmt.Sprintf("Execution failed:\n%v", ctx.Err())
	}
	return fmt.Sprintf("Execution failed:\n%v\n%s", err, output.String())
}

// validateImports checks that the source only imports whitelisted packages.
func (r *GoRunner) validateImports(source string) error {
	var forbidden []string

	inImportBlock := false
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "import (") {
			inImportBlock = true
			continue
		}
		if inImportBlock && strings.HasPrefix(trimmed, ")") {
			inImportBlock = false
			continue
		}

		var pkg string
		switch {
		case inImportBlock:
			pkg = trimmed
		case strings.HasPrefix(trimmed, "import "):
			pkg = strings.TrimPrefix(trimmed, "import ")
		default:
			continue
		}

		// Drop aliases and quotes
		if idx := strings.LastIndex(pkg, " "); idx >= 0 {
			pkg = pkg[idx+1:]
		}
		pkg = strings.Trim(pkg, `"`)
		if pkg == "" {
			continue
		}
		if !r.allowedPackages[pkg] {
			forbidden = append(forbidden, pkg)
		}
	}

	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports: %s (sandbox allows a limited stdlib subset)", strings.Join(forbidden, ", "))
	}
	return nil
}
