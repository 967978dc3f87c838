package exec

import (
	"context"
	"strings"
	"testing"
	"time"
)

// recordingRunner captures the source it was asked to run.
type recordingRunner struct {
	source string
	reply  string
}

func (r *recordingRunner) Run(ctx context.Context, source string) (string, error) {
	r.source = source
	return r.reply, nil
}

func TestCodeTool_DispatchesOnLanguage(t *testing.T) {
	py := &recordingRunner{reply: "Execution successful:\npy"}
	goRunner := &recordingRunner{reply: "Execution successful:\ngo"}
	tool := CodeTool(Runners{"python": py, "go": goRunner})

	out, err := tool.Execute(context.Background(), map[string]any{
		"code":     "print(1)",
		"language": "Python",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != py.reply {
		t.Fatalf("Execute() = %q, want python runner reply", out)
	}
	if py.source != "print(1)" {
		t.Fatalf("python runner got source %q", py.source)
	}
	if goRunner.source != "" {
		t.Fatal("go runner should not have been invoked")
	}
}

func TestCodeTool_RejectsBadArguments(t *testing.T) {
	tool := CodeTool(Runners{"python": &recordingRunner{}})

	if _, err := tool.Execute(context.Background(), map[string]any{"language": "python"}); err == nil {
		t.Fatal("missing code accepted")
	}
	if _, err := tool.Execute(context.Background(), map[string]any{"code": "  \n"}); err == nil {
		t.Fatal("blank code accepted")
	}
	if _, err := tool.Execute(context.Background(), map[string]any{"code": "x", "language": "ruby"}); err == nil {
		t.Fatal("unsupported language accepted")
	}
}

func TestCodeTool_SchemaListsLanguages(t *testing.T) {
	tool := CodeTool(DefaultRunners())

	langProp, ok := tool.Schema.Properties["language"]
	if !ok {
		t.Fatal("schema missing language property")
	}
	if len(langProp.Enum) != 2 {
		t.Fatalf("language enum = %v, want python and go", langProp.Enum)
	}
	for _, lang := range langProp.Enum {
		name, _ := lang.(string)
		if name != "python" && name != "go" {
			t.Fatalf("unexpected language %v", lang)
		}
	}
}

func TestGoRunner_RunsProgram(t *testing.T) {
	runner := NewGoRunner()

	out, err := runner.Run(context.Background(), `package main

import "fmt"

func main() {
	fmt.Println("hello from the sandbox")
}
`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(out, "Execution successful:") {
		t.Fatalf("Run() = %q, want success prefix", out)
	}
	if !strings.Contains(out, "hello from the sandbox") {
		t.Fatalf("Run() output missing program output: %q", out)
	}
}

func TestGoRunner_ReportsRuntimeFailureAsText(t *testing.T) {
	runner := NewGoRunner()

	// The snippet's failure is a finding about the analyzed code,
	// not an infrastructure error.
	out, err := runner.Run(context.Background(), `package main

func main() {
	panic("boom")
}
`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(out, "Execution failed:") {
		t.Fatalf("Run() = %q, want failure prefix", out)
	}
	if !strings.Contains(out, "boom") {
		t.Fatalf("Run() output missing panic message: %q", out)
	}
}

func TestGoRunner_BlocksForbiddenImports(t *testing.T) {
	runner := NewGoRunner()

	out, err := runner.Run(context.Background(), `package main

import (
	"fmt"
	"os/exec"
)

func main() {
	fmt.Println(exec.Command("ls"))
}
`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(out, "Execution failed:") {
		t.Fatalf("Run() = %q, want failure prefix", out)
	}
	if !strings.Contains(out, "os/exec") {
		t.Fatalf("Run() output should name the forbidden import: %q", out)
	}
}

func TestGoRunner_TimesOut(t *testing.T) {
	runner := NewGoRunner()
	runner.Timeout = 200 * time.Millisecond

	// A looping snippet must not block the run past the deadline.
	done := make(chan struct{})
	var out string
	var err error
	go func() {
		defer close(done)
		out, err = runner.Run(context.Background(), `package main

func main() {
	for {
	}
}
`)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run() still blocked long after the deadline")
	}

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

func TestGoRunner_ReportsCompileErrorAsText(t *testing.T) {
	runner := NewGoRunner()

	out, err := runner.Run(context.Background(), "package main\n\nfunc main() { this is not go }\n")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(out, "Execution failed:") {
		t.Fatalf("Run() = %q, want failure prefix", out)
	}
}
