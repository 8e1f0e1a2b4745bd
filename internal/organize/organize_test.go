package organize

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLog() *logrus.Entry {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(log)
}

func createFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestClassify tests extension to category mapping.
func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"photo.JPG", "Images"},
		{"notes.txt", "Documents"},
		{"movie.mkv", "Videos"},
		{"song.mp3", "Audio"},
		{"backup.tar", "Archives"},
		{"main.go", "Code"},
		{"data.sqlite", "Other"},
		{"README", "Other"},
	}
	for _, c := range cases {
		if got := classify(c.path); got != c.want {
			t.Errorf("classify(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

// TestPlanByType tests target paths in type mode.
func TestPlanByType(t *testing.T) {
	root := t.TempDir()
	createFile(t, filepath.Join(root, "photo.png"))
	createFile(t, filepath.Join(root, "notes.txt"))

	items, err := New(Options{Root: root, Mode: ByType}, testLog()).Plan()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	targets := map[string]string{}
	for _, item := range items {
		if item.Status != StatusPending {
			t.Errorf("unexpected status %s for %s", item.Status, item.Source)
		}
		targets[filepath.Base(item.Source)] = item.Target
	}
	if targets["photo.png"] != filepath.Join(root, "Images", "photo.png") {
		t.Errorf("photo.png target = %s", targets["photo.png"])
	}
	if targets["notes.txt"] != filepath.Join(root, "Documents", "notes.txt") {
		t.Errorf("notes.txt target = %s", targets["notes.txt"])
	}
}

// TestPlanByDate tests year/month layout from mtime.
func TestPlanByDate(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "notes.txt")
	createFile(t, path)

	mtime := time.Date(2023, time.July, 4, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	items, err := New(Options{Root: root, Mode: ByDate}, testLog()).Plan()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	want := filepath.Join(root, "2023", "07", "notes.txt")
	if items[0].Target != want {
		t.Errorf("target = %s, want %s", items[0].Target, want)
	}
}

// TestPlanMixed tests category plus date layout.
func TestPlanMixed(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "photo.png")
	createFile(t, path)

	mtime := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	items, err := New(Options{Root: root, Mode: Mixed}, testLog()).Plan()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "Images", "2024", "12", "photo.png")
	if len(items) != 1 || items[0].Target != want {
		t.Fatalf("unexpected items: %+v", items)
	}
}

// TestPlanSkipsExistingTarget tests that collisions are never
// overwritten.
func TestPlanSkipsExistingTarget(t *testing.T) {
	root := t.TempDir()
	createFile(t, filepath.Join(root, "photo.png"))
	createFile(t, filepath.Join(root, "Images", "photo.png"))

	items, err := New(Options{Root: root, Mode: ByType}, testLog()).Plan()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Status != StatusSkipped || items[0].Err == nil {
		t.Errorf("expected skipped item with reason, got %+v", items[0])
	}
}

// TestPlanIgnoresCategoryDirs tests that a second run does not
// re-plan already organized files.
func TestPlanIgnoresCategoryDirs(t *testing.T) {
	root := t.TempDir()
	createFile(t, filepath.Join(root, "Images", "photo.png"))
	createFile(t, filepath.Join(root, "fresh.png"))

	items, err := New(Options{Root: root, Mode: ByType, Recursive: true}, testLog()).Plan()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || filepath.Base(items[0].Source) != "fresh.png" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

// TestPlanNonRecursive tests the default depth.
func TestPlanNonRecursive(t *testing.T) {
	root := t.TempDir()
	createFile(t, filepath.Join(root, "a.txt"))
	createFile(t, filepath.Join(root, "sub", "b.txt"))

	items, err := New(Options{Root: root, Mode: ByType}, testLog()).Plan()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || filepath.Base(items[0].Source) != "a.txt" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

// TestPlanSkipsHidden tests hidden files and dirs are ignored.
func TestPlanSkipsHidden(t *testing.T) {
	root := t.TempDir()
	createFile(t, filepath.Join(root, ".hidden.txt"))
	createFile(t, filepath.Join(root, ".git", "config"))
	createFile(t, filepath.Join(root, "a.txt"))

	items, err := New(Options{Root: root, Mode: ByType, Recursive: true}, testLog()).Plan()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || filepath.Base(items[0].Source) != "a.txt" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

// TestApply tests that moves happen and the summary adds up.
func TestApply(t *testing.T) {
	root := t.TempDir()
	createFile(t, filepath.Join(root, "photo.png"))
	createFile(t, filepath.Join(root, "notes.txt"))
	createFile(t, filepath.Join(root, "song.mp3"))
	createFile(t, filepath.Join(root, "Audio", "song.mp3")) // collision

	o := New(Options{Root: root, Mode: ByType}, testLog())
	items, err := o.Plan()
	if err != nil {
		t.Fatal(err)
	}
	sum := o.Apply(items)

	if sum.Total != 3 || sum.Moved != 2 || sum.Skipped != 1 || sum.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	for _, path := range []string{
		filepath.Join(root, "Images", "photo.png"),
		filepath.Join(root, "Documents", "notes.txt"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing moved file %s", path)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "song.mp3")); err != nil {
		t.Error("skipped source must remain in place")
	}
}

// TestUnknownMode tests mode validation.
func TestUnknownMode(t *testing.T) {
	_, err := New(Options{Root: t.TempDir(), Mode: Mode("alphabetical")}, testLog()).Plan()
	if !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

// TestMissingRoot tests the stat error path.
func TestMissingRoot(t *testing.T) {
	_, err := New(Options{Root: filepath.Join(t.TempDir(), "nope")}, testLog()).Plan()
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}
