package fsutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_Exists(t *testing.T) {
	fsys := OSFileSystem{}

	if !fsys.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}
	if fsys.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_CreateAndRead(t *testing.T) {
	fsys := OSFileSystem{}
	dir := filepath.Join(t.TempDir(), "a", "b")

	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	name := filepath.Join(dir, "out.txt")
	w, err := fsys.Create(name)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("1-1")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := fsys.ReadFile(name)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "1-1" {
		t.Errorf("expected %q, got %q", "1-1", data)
	}
	info, err := fsys.Stat(name)
	if err != nil || info.Size() != 3 {
		t.Errorf("Stat = %v, %v; want size 3", info, err)
	}
}

func TestMemoryFileSystem_CreateNeedsParent(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if _, err := mfs.Create("/diag/bw.png"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if err := mfs.MkdirAll("/diag", 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	w, err := mfs.Create("/diag/bw.png")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, _ = w.Write([]byte("png"))

	// Nothing is visible until Close.
	if data, _ := mfs.ReadFile("/diag/bw.png"); len(data) != 0 {
		t.Errorf("expected empty file before Close, got %q", data)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	data, err := mfs.ReadFile("/diag/bw.png")
	if err != nil || string(data) != "png" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}
}

func TestMemoryFileSystem_MkdirAllCreatesParents(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.MkdirAll("/a/b/c", 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for _, dir := range []string{"/a", "/a/b", "/a/b/c"} {
		if !mfs.Exists(dir) {
			t.Errorf("expected %s to exist", dir)
		}
		info, err := mfs.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("Stat(%s) = %v, %v; want a directory", dir, info, err)
		}
	}
}

func TestMemoryFileSystem_MkdirOverFile(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.WriteFile("/out", []byte("x"))

	if err := mfs.MkdirAll("/out", 0o755); !errors.Is(err, fs.ErrExist) {
		t.Errorf("expected ErrExist, got %v", err)
	}
}

func TestMemoryFileSystem_Missing(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if _, err := mfs.ReadFile("/nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile: expected ErrNotExist, got %v", err)
	}
	if _, err := mfs.Stat("/nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Stat: expected ErrNotExist, got %v", err)
	}
	if mfs.Exists("/nope") {
		t.Error("expected /nope to not exist")
	}
}

func TestMemoryFileSystem_List(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.WriteFile("/d/b.png", nil)
	mfs.WriteFile("/d/a.png", nil)
	mfs.WriteFile("/d/sub/c.png", nil)

	got := mfs.List("/d")
	if len(got) != 2 || got[0] != "a.png" || got[1] != "b.png" {
		t.Errorf("List = %v, want [a.png b.png]", got)
	}
}

func TestMemoryFileSystem_ModTimeAdvances(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.WriteFile("/card.png", []byte("a"))
	first, err := mfs.Stat("/card.png")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}

	mfs.WriteFile("/card.png", []byte("b"))
	second, err := mfs.Stat("/card.png")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !second.ModTime().After(first.ModTime()) {
		t.Errorf("expected %v after %v", second.ModTime(), first.ModTime())
	}
}
