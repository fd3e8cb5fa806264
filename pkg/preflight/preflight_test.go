package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGitCheck(t *testing.T) {
	check := &GitCheck{}
	result := check.Run(context.Background())

	if result.Name != "git" {
		t.Errorf("expected name 'git', got '%s'", result.Name)
	}
	// Git should be available in test environment
	if result.Level != LevelError && result.Level != LevelInfo {
		t.Errorf("expected LevelError or LevelInfo, got %v", result.Level)
	}
	t.Logf("GitCheck result: level=%d, message=%s", result.Level, result.Message)
}

func TestTokenCheck(t *testing.T) {
	tests := []struct {
		name      string
		check     TokenCheck
		wantLevel CheckLevel
	}{
		{name: "token present", check: TokenCheck{Token: "t", Required: true}, wantLevel: LevelInfo},
		{name: "missing and required", check: TokenCheck{Required: true}, wantLevel: LevelError},
		{name: "missing and optional", check: TokenCheck{}, wantLevel: LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.check.Run(context.Background())
			if result.Level != tt.wantLevel {
				t.Errorf("expected level %v, got %v (%s)", tt.wantLevel, result.Level, result.Message)
			}
		})
	}
}

func TestWorkspaceBaseCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("writable directory", func(t *testing.T) {
		dir := t.TempDir()
		result := (&WorkspaceBaseCheck{Path: dir}).Run(ctx)
		if result.Level != LevelInfo {
			t.Errorf("expected LevelInfo, got %v: %s", result.Level, result.Message)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("write test file was left behind: %v", entries)
		}
	})

	t.Run("missing directory is created", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "missing")
		result := (&WorkspaceBaseCheck{Path: dir}).Run(ctx)
		if result.Level != LevelInfo {
			t.Errorf("expected LevelInfo, got %v: %s", result.Level, result.Message)
		}
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("expected %s to exist: %v", dir, err)
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		result := (&WorkspaceBaseCheck{Path: file}).Run(ctx)
		if result.Level != LevelError {
			t.Errorf("expected LevelError, got %v", result.Level)
		}
	})
}

func TestNetworkCheck(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	if got := (&NetworkCheck{URL: ok.URL}).Run(context.Background()); got.Level != LevelInfo {
		t.Errorf("expected LevelInfo for reachable API, got %v", got.Level)
	}
	if got := (&NetworkCheck{URL: broken.URL}).Run(context.Background()); got.Level != LevelWarn {
		t.Errorf("expected LevelWarn for 502, got %v", got.Level)
	}
	if got := (&NetworkCheck{URL: "http://127.0.0.1:1"}).Run(context.Background()); got.Level != LevelWarn {
		t.Errorf("expected LevelWarn for unreachable API, got %v", got.Level)
	}
}

func TestChecker_Run(t *testing.T) {
	ctx := context.Background()

	if err := NewChecker(Config{Quiet: true, WorkspaceBase: t.TempDir(), TokenWanted: true}).Run(ctx); err != nil {
		t.Errorf("warnings must not fail the run: %v", err)
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	err := NewChecker(Config{Quiet: true, TokenRequired: true, WorkspaceBase: file}).Run(ctx)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"github-token", "workspace-base"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}
