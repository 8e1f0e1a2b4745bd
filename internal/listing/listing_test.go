package listing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setup(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range []string{"zeta.txt", "Alpha.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"beta", "Gamma"} {
		if err := os.Mkdir(filepath.Join(root, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// TestOrderDirsFirstThenCaseInsensitive tests the listing order contract.
func TestOrderDirsFirstThenCaseInsensitive(t *testing.T) {
	root := setup(t)

	items, err := List(root, Options{})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"beta", "Gamma", "Alpha.txt", "zeta.txt"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, item := range items {
		if item.Name != want[i] {
			t.Errorf("items[%d] = %s, want %s", i, item.Name, want[i])
		}
	}
	if !items[0].IsDir || items[2].IsDir {
		t.Error("directories must sort before files")
	}
}

// TestHiddenFiles tests dotfile filtering.
func TestHiddenFiles(t *testing.T) {
	root := setup(t)

	items, _ := List(root, Options{})
	for _, item := range items {
		if item.Name == ".hidden" {
			t.Error("hidden file listed without ShowHidden")
		}
	}

	items, _ = List(root, Options{ShowHidden: true})
	found := false
	for _, item := range items {
		if item.Name == ".hidden" {
			found = true
		}
	}
	if !found {
		t.Error("ShowHidden did not include dotfile")
	}
}

// TestDetails tests size population for files only.
func TestDetails(t *testing.T) {
	root := setup(t)

	items, err := List(root, Options{Details: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, item := range items {
		if !item.IsDir && item.Size != 1 {
			t.Errorf("%s: Size = %d, want 1", item.Name, item.Size)
		}
		if item.IsDir && item.Size != 0 {
			t.Errorf("%s: directory should have zero Size", item.Name)
		}
	}
}

// TestErrors tests the error taxonomy.
func TestErrors(t *testing.T) {
	if _, err := List("/no/such/dir", Options{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	root := t.TempDir()
	file := filepath.Join(root, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := List(file, Options{}); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("expected ErrNotDirectory, got %v", err)
	}
}
