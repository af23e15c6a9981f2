// Package manifest reads the parts of a Cargo.toml that pubcrates needs: the
// package name and the allow-list kept under
// [package.metadata.cargo-public-api-crates].
package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	gotoml "github.com/pelletier/go-toml/v2"

	"pubcrates/internal/errors"
)

// DefaultPath is the manifest looked up in the working directory.
const DefaultPath = "Cargo.toml"

// MetadataTable is the metadata key holding the allow-list.
const MetadataTable = "cargo-public-api-crates"

// Manifest is a decoded Cargo.toml.
type Manifest struct {
	// Path is the absolute path the manifest was read from.
	Path    string  `toml:"-"`
	Package Package `toml:"package"`
}

// Package is the [package] table.
type Package struct {
	Name     string   `toml:"name"`
	Version  string   `toml:"version"`
	Metadata Metadata `toml:"metadata"`
}

// Metadata is the [package.metadata] table.
type Metadata struct {
	PublicAPICrates *AllowList `toml:"cargo-public-api-crates"`
}

// AllowList lists the external crates permitted in the public API.
type AllowList struct {
	Allowed []string `toml:"allowed"`
}

// Load reads and decodes the manifest at path. An empty path means
// DefaultPath.
func Load(path string) (*Manifest, error) {
	if path == "" {
		path = DefaultPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Newf(errors.ManifestNotFound, err, "cannot resolve manifest path %s", path)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.Newf(errors.ManifestNotFound, err, "cannot read manifest %s", abs).
			WithDetails(map[string]interface{}{"path": abs})
	}

	m, err := Decode(data)
	if err != nil {
		return nil, err
	}
	m.Path = abs
	return m, nil
}

// Decode parses manifest bytes. A manifest without package.name is invalid.
func Decode(data []byte) (*Manifest, error) {
	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, errors.Newf(errors.ManifestInvalid, err, "cannot decode manifest")
	}
	if m.Package.Name == "" {
		return nil, errors.Newf(errors.ManifestInvalid, nil, "manifest has no package.name")
	}
	return &m, nil
}

// CrateName is the package name as rustdoc spells it.
func (m *Manifest) CrateName() string {
	return CrateName(m.Package.Name)
}

// Allowed returns the normalised allow-list. An absent table is an empty
// list.
func (m *Manifest) Allowed() []string {
	if m.Package.Metadata.PublicAPICrates == nil {
		return nil
	}
	names := make([]string, 0, len(m.Package.Metadata.PublicAPICrates.Allowed))
	for _, name := range m.Package.Metadata.PublicAPICrates.Allowed {
		names = append(names, CrateName(name))
	}
	return names
}

// HasAllowList reports whether the manifest declares the metadata table.
func (m *Manifest) HasAllowList() bool {
	return m.Package.Metadata.PublicAPICrates != nil
}

// Dir is the directory holding the manifest.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// CrateName normalises a Cargo package name to a Rust crate name.
func CrateName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// AllowListSnippet renders a metadata table that allows exactly names. Names
// are normalised and listed once each.
func AllowListSnippet(names []string) (string, error) {
	seen := make(map[string]bool, len(names))
	allowed := make([]string, 0, len(names))
	for _, name := range names {
		name = CrateName(name)
		if !seen[name] {
			seen[name] = true
			allowed = append(allowed, name)
		}
	}
	sort.Strings(allowed)

	body, err := gotoml.Marshal(AllowList{Allowed: allowed})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("[package.metadata." + MetadataTable + "]\n")
	buf.Write(body)
	return buf.String(), nil
}
