// Package manifest loads dependency declarations from TOML or YAML files.
//
//	[[package]]
//	name = "BROWSER"
//	depends = ["TCPIP", "HTML"]
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/quantmind-br/depkg/internal/core"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than toml, yaml and yml
	ErrUnsupportedFormat = errors.New("unsupported manifest format")

	// ErrInvalidManifest is returned when an entry is malformed
	ErrInvalidManifest = errors.New("invalid manifest")
)

// Format identifies a manifest encoding
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Entry declares the direct dependencies of one package
type Entry struct {
	Name    string   `toml:"name" yaml:"name"`
	Depends []string `toml:"depends" yaml:"depends"`
}

// Manifest is an ordered list of declarations
type Manifest struct {
	Packages []Entry `toml:"package" yaml:"package"`
}

// Declarer accepts dependency declarations
type Declarer interface {
	DeclareDependencies(pkg core.Package, deps ...core.Package) (map[core.Package][]core.Package, error)
}

// FormatFor picks the format from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads and validates the manifest at path
func Load(fs afero.Fs, path string) (*Manifest, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	m, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates manifest data
func Parse(data []byte, format Format) (*Manifest, error) {
	var m Manifest

	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &m)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%w: unknown key %s", ErrInvalidManifest, undecoded[0])
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks every package and dependency name
func (m *Manifest) Validate() error {
	for i, entry := range m.Packages {
		if _, err := core.ParsePackage(entry.Name); err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrInvalidManifest, i+1, err)
		}
		for _, dep := range entry.Depends {
			if _, err := core.ParsePackage(dep); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInvalidManifest, entry.Name, err)
			}
		}
	}
	return nil
}

// Len returns the number of declared edges
func (m *Manifest) Len() int {
	n := 0
	for _, entry := range m.Packages {
		n += len(entry.Depends)
	}
	return n
}

// Apply declares every entry in file order and returns how many entries were
// applied. It stops at the first rejected declaration; earlier entries stay.
func Apply(d Declarer, m *Manifest) (int, error) {
	for i, entry := range m.Packages {
		deps := core.Packages(entry.Depends...)
		if _, err := d.DeclareDependencies(core.Package(entry.Name), deps...); err != nil {
			return i, fmt.Errorf("declare %s: %w", entry.Name, err)
		}
	}
	return len(m.Packages), nil
}
