package httptransport

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"imagesense/internal/platform/errors"
	platformtesting "imagesense/internal/platform/testing"
)

func TestBuildRequiresConfig(t *testing.T) {
	_, err := Build(Options{})
	platformtesting.AssertError(t, err)
	if !errors.IsKind(err, errors.KindConfig) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestBuildServesStaticFiles(t *testing.T) {
	cfg := platformtesting.SetupTestConfig(t)
	cfg.Web.StaticDir = t.TempDir()
	path := filepath.Join(cfg.Web.StaticDir, "hello.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	router, err := Build(Options{Config: cfg, Logger: platformtesting.SetupTestLogger(t)})
	platformtesting.AssertNoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/hello.txt", nil)
	router.Engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "hello" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestBuildSetsCORSHeaders(t *testing.T) {
	cfg := platformtesting.SetupTestConfig(t)
	cfg.Web.StaticDir = t.TempDir()

	router, err := Build(Options{Config: cfg, Logger: platformtesting.SetupTestLogger(t)})
	platformtesting.AssertNoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/social-media", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	router.Engine.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("expected Access-Control-Allow-Methods on preflight response")
	}
}
