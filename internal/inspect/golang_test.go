package inspect

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGoInspector_Imports(t *testing.T) {
	inspector := NewGoInspector()

	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "single import",
			source: "package main\n\nimport \"fmt\"\n\nfunc main() { fmt.Println(1) }\n",
			want:   []string{"fmt"},
		},
		{
			name:   "import block",
			source: "package main\n\nimport (\n\t\"fmt\"\n\t\"strings\"\n)\n",
			want:   []string{"fmt", "strings"},
		},
		{
			name:   "aliased import",
			source: "package main\n\nimport s \"strings\"\n",
			want:   []string{"strings"},
		},
		{
			name:   "no imports",
			source: "package main\n\nfunc main() {}\n",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inspector.Imports([]byte(tt.source))
			if err != nil {
				t.Fatalf("Imports() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Imports() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGoInspector_HasDocumentation(t *testing.T) {
	inspector := NewGoInspector()

	documented := "package main\n\n// main prints a greeting.\nfunc main() {}\n"
	bare := "package main\n\nfunc main() {}\n"

	got, err := inspector.HasDocumentation([]byte(documented))
	if err != nil {
		t.Fatalf("HasDocumentation() error = %v", err)
	}
	if !got {
		t.Fatal("HasDocumentation(documented) = false, want true")
	}

	got, err = inspector.HasDocumentation([]byte(bare))
	if err != nil {
		t.Fatalf("HasDocumentation() error = %v", err)
	}
	if got {
		t.Fatal("HasDocumentation(bare) = true, want false")
	}
}

func TestSet_ForFile(t *testing.T) {
	set := DefaultSet()

	tests := []struct {
		path     string
		language string
		wantErr  bool
	}{
		{path: "script.py", language: "python"},
		{path: "SCRIPT.PY", language: "python"},
		{path: "main.go", language: "go"},
		{path: "main.rb", wantErr: true},
		{path: "noext", wantErr: true},
	}

	for _, tt := range tests {
		ins, err := set.ForFile(tt.path)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ForFile(%q) error = nil, want error", tt.path)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ForFile(%q) error = %v", tt.path, err)
		}
		if ins.Language() != tt.language {
			t.Fatalf("ForFile(%q).Language() = %q, want %q", tt.path, ins.Language(), tt.language)
		}
	}
}
