package pathutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestIsFilesystemRoot(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: string(filepath.Separator), want: true},
		{path: string(filepath.Separator) + ".", want: true},
		{path: filepath.Join(string(filepath.Separator), "tmp"), want: false},
		{path: "relative/dir", want: false},
	}
	if runtime.GOOS == "windows" {
		tests = append(tests, struct {
			path string
			want bool
		}{path: `C:\`, want: true})
	}

	for _, tt := range tests {
		if got := IsFilesystemRoot(tt.path); got != tt.want {
			t.Errorf("IsFilesystemRoot(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
