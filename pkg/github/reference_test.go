package github

import (
	"errors"
	"testing"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantName  string
		wantErr   bool
	}{
		{name: "https with .git", url: "https://github.com/octo/sandbox.git", wantOwner: "octo", wantName: "sandbox"},
		{name: "https without .git", url: "https://github.com/octo/sandbox", wantOwner: "octo", wantName: "sandbox"},
		{name: "trailing slash", url: "https://github.com/octo/sandbox/", wantOwner: "octo", wantName: "sandbox"},
		{name: "surrounding whitespace", url: "  https://github.com/octo/sandbox.git\n", wantOwner: "octo", wantName: "sandbox"},
		{name: "scp-like ssh", url: "git@github.com:octo/sandbox.git", wantOwner: "octo", wantName: "sandbox"},
		{name: "ssh scheme", url: "ssh://git@github.com/octo/sandbox.git", wantOwner: "octo", wantName: "sandbox"},
		{name: "browser url with tree", url: "https://github.com/octo/sandbox/tree/main", wantOwner: "octo", wantName: "sandbox"},
		{name: "dots in name", url: "https://github.com/octo/my.site.git", wantOwner: "octo", wantName: "my.site"},
		{name: "other host", url: "https://gitlab.com/octo/sandbox.git", wantErr: true},
		{name: "owner only", url: "https://github.com/octo", wantErr: true},
		{name: "empty", url: "", wantErr: true},
		{name: "name is only .git", url: "https://github.com/octo/.git", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := ParseRepoURL(tt.url, "")
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRepoURL) {
					t.Fatalf("ParseRepoURL(%q) error = %v, want ErrInvalidRepoURL", tt.url, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRepoURL(%q) unexpected error: %v", tt.url, err)
			}
			if repo.Owner != tt.wantOwner || repo.Name != tt.wantName {
				t.Errorf("ParseRepoURL(%q) = %s/%s, want %s/%s", tt.url, repo.Owner, repo.Name, tt.wantOwner, tt.wantName)
			}
		})
	}
}

func TestParseRepoURL_CustomHost(t *testing.T) {
	repo, err := ParseRepoURL("https://git.example.com/team/tool.git", "git.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.FullName() != "team/tool" {
		t.Errorf("FullName() = %q, want team/tool", repo.FullName())
	}
}
