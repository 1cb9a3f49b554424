package scope

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	platformtesting "imagesense/internal/platform/testing"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	logger := platformtesting.SetupTestLogger(t)
	m, err := NewManager(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestManager_AcquireUniqueDirs(t *testing.T) {
	m := newTestManager(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		s, err := m.Acquire()
		if err != nil {
			t.Fatalf("Acquire failed: %v", err)
		}
		if seen[s.Dir] {
			t.Fatalf("duplicate scope dir: %s", s.Dir)
		}
		seen[s.Dir] = true
		if !strings.HasPrefix(filepath.Base(s.Dir), "req-") {
			t.Errorf("unexpected dir name: %s", s.Dir)
		}
		info, err := os.Stat(s.Dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("scope dir not created: %v", err)
		}
		s.Release()
	}
}

func TestScope_SaveUploadAndRelease(t *testing.T) {
	m := newTestManager(t)

	s, err := m.Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	path, err := s.SaveUpload("photo.png", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("SaveUpload failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved upload: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("unexpected content: %q", data)
	}

	s.Release()
	if _, err := os.Stat(s.Dir); !os.IsNotExist(err) {
		t.Errorf("scope dir still present after release: %v", err)
	}
}

func TestScope_SaveUploadSanitizesName(t *testing.T) {
	m := newTestManager(t)
	s, err := m.Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer s.Release()

	path, err := s.SaveUpload("../../etc/passwd", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("SaveUpload failed: %v", err)
	}
	if filepath.Dir(path) != s.Dir {
		t.Errorf("saved outside scope: %s", path)
	}

	path, err = s.SaveUpload("", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("SaveUpload with empty name failed: %v", err)
	}
	if filepath.Base(path) != "upload.bin" {
		t.Errorf("expected fallback name, got %s", filepath.Base(path))
	}
}

func TestScope_ReleaseNilSafe(t *testing.T) {
	var s *Scope
	s.Release()
}
