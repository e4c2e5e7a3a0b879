package texts

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSelectReturnsPoolMember(t *testing.T) {
	pool := []string{"alpha", "beta", "gamma"}
	p := NewWithSeed(pool, 1)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		got := p.Select()
		found := false
		for _, s := range pool {
			if s == got {
				found = true
			}
		}
		if !found {
			t.Fatalf("unexpected passage %q", got)
		}
		seen[got] = true
	}
	if len(seen) != len(pool) {
		t.Fatalf("expected every passage to be picked, saw %v", seen)
	}
}

func TestEmptyPoolFallsBackToDefault(t *testing.T) {
	p := New(nil)
	if len(p.Passages()) != len(Default()) {
		t.Fatalf("expected default pool, got %d passages", len(p.Passages()))
	}
	if p.Select() == "" {
		t.Fatalf("expected non-empty passage")
	}
}

func TestProviderCopiesInput(t *testing.T) {
	pool := []string{"one"}
	p := New(pool)
	pool[0] = "changed"
	if got := p.Select(); got != "one" {
		t.Fatalf("expected provider to keep its own copy, got %q", got)
	}
}

func TestLoadPassages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passages.txt")
	body := "first   passage here\n\n  second passage\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write passages: %v", err)
	}
	passages, err := LoadPassages(path)
	if err != nil {
		t.Fatalf("load passages: %v", err)
	}
	if len(passages) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(passages))
	}
	if passages[0] != "first passage here" || passages[1] != "second passage" {
		t.Fatalf("unexpected passages: %q", passages)
	}
}

func TestLoadPassagesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n \n"), 0o644); err != nil {
		t.Fatalf("write passages: %v", err)
	}
	if _, err := LoadPassages(path); err == nil {
		t.Fatalf("expected error for empty passage file")
	}
}
