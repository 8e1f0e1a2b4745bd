// Package config loads optional settings from a .simpletools.yml file.
//
// Resolution order is flag > config file > built-in default, and it all
// happens at the CLI boundary: commands consult the loaded file only for
// flags the user did not set, then hand fully-resolved structs to the
// core packages. The core never reads partial configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default config file names, checked in order.
var fileNames = []string{".simpletools.yml", ".simpletools.yaml"}

// File mirrors the YAML layout. Pointer fields distinguish "absent" from
// an explicit false/zero.
type File struct {
	Verbose bool   `yaml:"verbose"`
	Format  string `yaml:"format"` // plain, json or csv

	Duplicates DuplicatesSection `yaml:"duplicates"`
	List       ListSection       `yaml:"list"`
	Rename     RenameSection     `yaml:"rename"`
	Replace    ReplaceSection    `yaml:"replace"`
	Organize   OrganizeSection   `yaml:"organize"`
}

// DuplicatesSection configures the duplicates command.
type DuplicatesSection struct {
	Recursive  *bool    `yaml:"recursive"`
	MinSize    string   `yaml:"min_size"` // humanized, e.g. "1K"
	Extensions []string `yaml:"extensions"`
	AI         *bool    `yaml:"ai"`
}

// ListSection configures the list command.
type ListSection struct {
	ShowAll bool `yaml:"show_all"`
	Long    bool `yaml:"long"`
}

// RenameSection configures the rename command.
type RenameSection struct {
	Execute *bool `yaml:"execute"`
}

// ReplaceSection configures the replace command.
type ReplaceSection struct {
	Extensions []string `yaml:"extensions"`
	Execute    *bool    `yaml:"execute"`
}

// OrganizeSection configures the organize command.
type OrganizeSection struct {
	Mode      string `yaml:"mode"` // type or date
	Recursive *bool  `yaml:"recursive"`
	Execute   *bool  `yaml:"execute"`
}

// Find locates a config file: first in dir, then in the home directory.
// Returns "" when none exists.
func Find(dir string) string {
	candidates := make([]string, 0, len(fileNames)*2)
	for _, name := range fileNames {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	if home, err := os.UserHomeDir(); err == nil {
		for _, name := range fileNames {
			candidates = append(candidates, filepath.Join(home, name))
		}
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads and parses one config file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if f.Format != "" && f.Format != "plain" && f.Format != "json" && f.Format != "csv" {
		return nil, fmt.Errorf("config %s: unknown format %q", path, f.Format)
	}
	return &f, nil
}

// LoadDefault finds and loads the nearest config file, returning an
// empty config when none exists.
func LoadDefault(dir string) (*File, error) {
	path := Find(dir)
	if path == "" {
		return &File{}, nil
	}
	return Load(path)
}
