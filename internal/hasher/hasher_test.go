//go:build unix

package hasher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"simpletools/internal/types"
)

func createFile(t *testing.T, path, content string) types.FileDescriptor {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return types.FileDescriptor{Path: path, Size: int64(len(content))}
}

// =============================================================================
// Section 1: Digest Computation
// =============================================================================

// TestHashMatchesSHA256 tests the digest against a direct computation.
func TestHashMatchesSHA256(t *testing.T) {
	root := t.TempDir()
	desc := createFile(t, filepath.Join(root, "a.txt"), "hello world")

	hashed, skipped := New([]types.FileDescriptor{desc}, 2, nil, nil).Run(context.Background())

	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}
	if len(hashed) != 1 {
		t.Fatalf("expected 1 hashed file, got %d", len(hashed))
	}

	sum := sha256.Sum256([]byte("hello world"))
	if want := hex.EncodeToString(sum[:]); hashed[0].Digest != want {
		t.Errorf("Digest = %s, want %s", hashed[0].Digest, want)
	}
}

// TestIdenticalContentIdenticalDigest tests the core dedup assumption.
func TestIdenticalContentIdenticalDigest(t *testing.T) {
	root := t.TempDir()
	a := createFile(t, filepath.Join(root, "a.txt"), "same bytes")
	b := createFile(t, filepath.Join(root, "b.txt"), "same bytes")
	c := createFile(t, filepath.Join(root, "c.txt"), "diff bytes")

	hashed, _ := New([]types.FileDescriptor{a, b, c}, 4, nil, nil).Run(context.Background())

	if len(hashed) != 3 {
		t.Fatalf("expected 3 hashed files, got %d", len(hashed))
	}
	if hashed[0].Digest != hashed[1].Digest {
		t.Error("identical content produced different digests")
	}
	if hashed[0].Digest == hashed[2].Digest {
		t.Error("different content produced identical digests")
	}
}

// TestLargerThanChunk tests files spanning multiple read chunks.
func TestLargerThanChunk(t *testing.T) {
	root := t.TempDir()
	content := make([]byte, chunkSize*3+17)
	for i := range content {
		content[i] = byte(i % 251)
	}
	path := filepath.Join(root, "big.bin")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	hashed, _ := New([]types.FileDescriptor{{Path: path, Size: int64(len(content))}}, 1, nil, nil).Run(context.Background())

	sum := sha256.Sum256(content)
	if len(hashed) != 1 || hashed[0].Digest != hex.EncodeToString(sum[:]) {
		t.Error("chunked digest does not match whole-content digest")
	}
}

// TestInputOrderPreserved tests that hashed output keeps batch order even
// with many concurrent workers.
func TestInputOrderPreserved(t *testing.T) {
	root := t.TempDir()
	var files []types.FileDescriptor
	for i := 0; i < 50; i++ {
		name := filepath.Join(root, string(rune('a'+i%26))+"-"+hex.EncodeToString([]byte{byte(i)})+".txt")
		files = append(files, createFile(t, name, name))
	}

	hashed, _ := New(files, 8, nil, nil).Run(context.Background())

	if len(hashed) != len(files) {
		t.Fatalf("expected %d hashed files, got %d", len(files), len(hashed))
	}
	for i := range files {
		if hashed[i].Path != files[i].Path {
			t.Fatalf("order broken at %d: %s vs %s", i, hashed[i].Path, files[i].Path)
		}
	}
}

// =============================================================================
// Section 2: Per-File Skip Policy
// =============================================================================

// TestUnreadableFileSkipped tests that one unreadable file does not
// abort the batch.
func TestUnreadableFileSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, cannot simulate permission errors")
	}
	root := t.TempDir()
	a := createFile(t, filepath.Join(root, "a.txt"), "hello")
	locked := createFile(t, filepath.Join(root, "locked.txt"), "hello")
	b := createFile(t, filepath.Join(root, "b.txt"), "hello")
	if err := os.Chmod(locked.Path, 0o000); err != nil {
		t.Fatal(err)
	}

	hashed, skipped := New([]types.FileDescriptor{a, locked, b}, 2, nil, nil).Run(context.Background())

	if len(hashed) != 2 {
		t.Errorf("expected 2 hashed files, got %d", len(hashed))
	}
	if len(skipped) != 1 || skipped[0].Path != locked.Path {
		t.Fatalf("expected exactly locked.txt skipped, got %v", skipped)
	}
	if skipped[0].Err == nil {
		t.Error("skip record must carry the cause")
	}
}

// TestVanishedFileSkipped tests the file-removed-after-scan race.
func TestVanishedFileSkipped(t *testing.T) {
	root := t.TempDir()
	a := createFile(t, filepath.Join(root, "a.txt"), "stays")
	gone := types.FileDescriptor{Path: filepath.Join(root, "gone.txt"), Size: 5}

	hashed, skipped := New([]types.FileDescriptor{a, gone}, 2, nil, nil).Run(context.Background())

	if len(hashed) != 1 || hashed[0].Path != a.Path {
		t.Errorf("expected only a.txt hashed, got %v", hashed)
	}
	if len(skipped) != 1 {
		t.Errorf("expected 1 skip, got %d", len(skipped))
	}
}

// =============================================================================
// Section 3: Progress Reporting
// =============================================================================

// TestProgressBelowThreshold tests that small batches skip the callback.
func TestProgressBelowThreshold(t *testing.T) {
	root := t.TempDir()
	files := []types.FileDescriptor{
		createFile(t, filepath.Join(root, "a.txt"), "a"),
		createFile(t, filepath.Join(root, "b.txt"), "b"),
	}

	calls := 0
	progress := func(completed, total int) { calls++ }
	New(files, 2, progress, nil).Run(context.Background())

	if calls != 0 {
		t.Errorf("expected no progress callbacks below threshold, got %d", calls)
	}
}

// TestProgressAboveThreshold tests callback counts for a large batch.
func TestProgressAboveThreshold(t *testing.T) {
	root := t.TempDir()
	var files []types.FileDescriptor
	for i := 0; i < progressThreshold+20; i++ {
		path := filepath.Join(root, hex.EncodeToString([]byte{byte(i / 256), byte(i % 256)})+".txt")
		files = append(files, createFile(t, path, "x"))
	}

	var mu sync.Mutex
	var lastCompleted, lastTotal, calls int
	progress := func(completed, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if completed > lastCompleted {
			lastCompleted = completed
		}
		lastTotal = total
	}

	New(files, 4, progress, nil).Run(context.Background())

	if calls != len(files) {
		t.Errorf("expected %d callbacks, got %d", len(files), calls)
	}
	if lastCompleted != len(files) || lastTotal != len(files) {
		t.Errorf("final progress = %d/%d, want %d/%d", lastCompleted, lastTotal, len(files), len(files))
	}
}

// TestNilProgressSafe tests that a nil callback works for any batch size.
func TestNilProgressSafe(t *testing.T) {
	root := t.TempDir()
	var files []types.FileDescriptor
	for i := 0; i < progressThreshold+5; i++ {
		path := filepath.Join(root, hex.EncodeToString([]byte{byte(i / 256), byte(i % 256)})+".txt")
		files = append(files, createFile(t, path, "x"))
	}

	hashed, skipped := New(files, 4, nil, nil).Run(context.Background())
	if len(hashed) != len(files) || len(skipped) != 0 {
		t.Errorf("hashed=%d skipped=%d, want %d/0", len(hashed), len(skipped), len(files))
	}
}

// =============================================================================
// Section 4: Cancellation
// =============================================================================

// TestCancelledContext tests that a cancelled context skips remaining files.
func TestCancelledContext(t *testing.T) {
	root := t.TempDir()
	files := []types.FileDescriptor{
		createFile(t, filepath.Join(root, "a.txt"), "a"),
		createFile(t, filepath.Join(root, "b.txt"), "b"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hashed, skipped := New(files, 2, nil, nil).Run(ctx)
	if len(hashed) != 0 {
		t.Errorf("expected no hashed files after cancel, got %d", len(hashed))
	}
	if len(skipped) != len(files) {
		t.Errorf("expected %d skips after cancel, got %d", len(files), len(skipped))
	}
}
