// Package posefile implements ports.PoseProvider on a TOML or YAML document.
//
// Each top-level table names one source:
//
//	[head]
//	active = true
//	position = [0.0, 1.7, 0.0]
//	rotation = [0.0, 90.0, 0.0]
//
// Files ending in .yaml or .yml use the same keys in YAML. Missing sources
// are absent from the provider. A missing active key means the source is
// inactive.
package posefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/bft-labs/posebridge/internal/domain"
	"github.com/bft-labs/posebridge/internal/ports"
)

var knownSources = map[domain.SourceName]bool{
	domain.SourceHead:            true,
	domain.SourceLeftHand:        true,
	domain.SourceLeftController:  true,
	domain.SourceRightHand:       true,
	domain.SourceRightController: true,
}

// sourceDoc is the TOML shape of one source table.
type sourceDoc struct {
	Active   bool      `toml:"active" yaml:"active"`
	Position []float64 `toml:"position" yaml:"position"`
	Rotation []float64 `toml:"rotation" yaml:"rotation"`
}

// source is an immutable pose snapshot.
type source struct {
	active   bool
	position domain.Vec3
	rotation domain.Vec3
}

func (s *source) Active() bool               { return s.active }
func (s *source) Position() domain.Vec3      { return s.position }
func (s *source) RotationEuler() domain.Vec3 { return s.rotation }

type snapshot map[domain.SourceName]*source

// Provider serves the last successfully parsed pose file. Reads are lock
// free; Reload swaps the whole snapshot.
type Provider struct {
	path string
	snap atomic.Pointer[snapshot]
}

// Load parses path and returns a provider serving its contents.
func Load(path string) (*Provider, error) {
	p := &Provider{path: path}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Path returns the watched file.
func (p *Provider) Path() string {
	return p.path
}

// Reload re-reads the file. On error the previous snapshot stays in place.
func (p *Provider) Reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("read pose file: %w", err)
	}
	snap, err := parse(data, isYAML(p.path))
	if err != nil {
		return fmt.Errorf("%s: %w", p.path, err)
	}
	p.snap.Store(&snap)
	return nil
}

// Source implements ports.PoseProvider.
func (p *Provider) Source(name domain.SourceName) (ports.PoseSource, bool) {
	snap := p.snap.Load()
	if snap == nil {
		return nil, false
	}
	s, ok := (*snap)[name]
	if !ok {
		return nil, false
	}
	return s, true
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func parse(data []byte, yamlDoc bool) (snapshot, error) {
	var doc map[string]sourceDoc
	unmarshal := toml.Unmarshal
	if yamlDoc {
		unmarshal = yaml.Unmarshal
	}
	if err := unmarshal(data, &doc); err != nil {
		return nil, err
	}

	snap := make(snapshot, len(doc))
	for name, sd := range doc {
		sn := domain.SourceName(name)
		if !knownSources[sn] {
			return nil, fmt.Errorf("unknown source %q", name)
		}
		pos, err := vec3(sd.Position)
		if err != nil {
			return nil, fmt.Errorf("%s.position: %w", name, err)
		}
		rot, err := vec3(sd.Rotation)
		if err != nil {
			return nil, fmt.Errorf("%s.rotation: %w", name, err)
		}
		snap[sn] = &source{active: sd.Active, position: pos, rotation: rot}
	}
	return snap, nil
}

// vec3 converts an array. An omitted array is the zero vector.
func vec3(v []float64) (domain.Vec3, error) {
	switch len(v) {
	case 0:
		return domain.Vec3{}, nil
	case 3:
		return domain.Vec3{X: float32(v[0]), Y: float32(v[1]), Z: float32(v[2])}, nil
	default:
		return domain.Vec3{}, fmt.Errorf("want 3 components, got %d", len(v))
	}
}
