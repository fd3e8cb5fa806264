package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFilePath is the optional project file read from the working directory.
const DefaultFilePath = ".gogreen.yaml"

// FileConfig is the schema of .gogreen.yaml. Tokens are deliberately not
// accepted here; keep them in the environment or .env.
type FileConfig struct {
	RepoURL      string       `yaml:"repo_url"`
	Host         string       `yaml:"host"`
	APIURL       string       `yaml:"api_url"`
	BaseBranch   string       `yaml:"base_branch"`
	User         FileIdentity `yaml:"user"`
	Collaborator FileIdentity `yaml:"collaborator"`
	Boost        BoostFile    `yaml:"boost"`
	Badge        BadgeFile    `yaml:"badge"`
}

// FileIdentity is a name/email pair in the project file.
type FileIdentity struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// BoostFile holds defaults for `gogreen boost`.
type BoostFile struct {
	Intensity       string `yaml:"intensity"`
	MaxPerDay       int    `yaml:"max_per_day"`
	MessageTemplate string `yaml:"message_template"`
	Timezone        string `yaml:"timezone"`
}

// BadgeFile holds defaults for `gogreen badge`.
type BadgeFile struct {
	Count       int    `yaml:"count"`
	MergeMethod string `yaml:"merge_method"`
	Pause       string `yaml:"pause"`
}

// LoadFile reads the project file at path. A missing file yields a zero
// FileConfig. Unknown keys are rejected so typos surface early.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	if path == "" {
		return fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fc, nil
		}
		return fc, fmt.Errorf("failed to read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return fc, nil
}
