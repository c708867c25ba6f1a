package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"archivist/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir, AccessReadWrite)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "read/write ok") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), AccessRead)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, AccessRead)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func wordpressServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wp/v2/users/me" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "editor" || pass != "app-pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":3,"name":"Site Editor"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckWordPress_OK(t *testing.T) {
	srv := wordpressServer(t)
	result := CheckWordPress(context.Background(), WordPressTarget{BaseURL: srv.URL + "/", Username: "editor", AppPassword: "app-pass"})
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result.Detail != "authenticated as Site Editor" {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckWordPress_BadPassword(t *testing.T) {
	srv := wordpressServer(t)
	result := CheckWordPress(context.Background(), WordPressTarget{BaseURL: srv.URL, Username: "editor", AppPassword: "wrong"})
	if result.Passed {
		t.Fatal("expected failure for bad password")
	}
	if !strings.Contains(result.Detail, "auth failed") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckWordPress_MissingURL(t *testing.T) {
	result := CheckWordPress(context.Background(), WordPressTarget{Username: "editor"})
	if result.Passed {
		t.Fatal("expected failure for missing URL")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_OfflineConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	for _, dir := range []string{cfg.Paths.SourceRoot, filepath.Dir(cfg.Paths.ProgressLog), cfg.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for _, r := range results[:3] {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if cms := results[3]; cms.Name != "WordPress" || !cms.Skipped || cms.Passed {
		t.Fatalf("expected skipped CMS check, got %+v", cms)
	}
}

func TestRunAll_ChecksWordPressWhenConfigured(t *testing.T) {
	srv := wordpressServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithWordPress(srv.URL))
	cfg.Paths.LogDir = ""

	results := RunAll(context.Background(), cfg)
	last := results[len(results)-1]
	if last.Name != "WordPress" || !last.Passed {
		t.Fatalf("expected passing WordPress check, got %+v", last)
	}
	if results[0].Passed {
		t.Fatal("expected missing archive root to fail")
	}
}
