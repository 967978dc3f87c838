package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewStore_HasAllStagePrompts(t *testing.T) {
	store := NewStore()

	for _, name := range []string{Research, Document, Analyze} {
		text, err := store.Get(name)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", name, err)
		}
		if strings.TrimSpace(text) == "" {
			t.Fatalf("Get(%s) returned empty prompt", name)
		}
	}
}

func TestStore_UnknownPrompt(t *testing.T) {
	if _, err := NewStore().Get("nonexistent_prompt"); err == nil {
		t.Fatal("unknown prompt accepted")
	}
}

func TestLoadStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	content := `research_prompt: Research the code.
document_prompt: Document the code.
analyze_prompt: Analyze the code.
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write prompts: %v", err)
	}

	store, err := LoadStore(path)
	if err != nil {
		t.Fatalf("LoadStore() error = %v", err)
	}
	text, err := store.Get(Document)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if text != "Document the code." {
		t.Fatalf("Get(Document) = %q", text)
	}
}

func TestLoadStore_MissingKeyIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	content := `research_prompt: Research the code.
analyze_prompt: Analyze the code.
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write prompts: %v", err)
	}

	if _, err := LoadStore(path); err == nil {
		t.Fatal("prompt file with a missing key accepted")
	}
}

func TestLoadStore_MissingFile(t *testing.T) {
	if _, err := LoadStore(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing prompt file accepted")
	}
}
