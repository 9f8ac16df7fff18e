// Package spec loads and resolves the stadium parameter set.
package spec

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/attach"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/floodlight"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/pitch"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/roof"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/stand"
)

// Format is a serialization of a StadiumSpec.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for files whose extension names no format.
var ErrUnknownFormat = errors.New("unknown spec format")

// ProjectFiles are the file names LoadProject looks for, in order.
var ProjectFiles = []string{"stadium.yaml", "stadium.yml", "stadium.toml"}

// FormatFor picks the format from the extension of path.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// Default returns the stock stadium: a 100.6 x 64 m football pitch, four
// identical 20-row stands with individual roofs, hoardings, a scoreboard
// on the east roof, ribbons on the side stands and four floodlight towers.
func Default() *StadiumSpec {
	return &StadiumSpec{
		SpecVersion: Version,
		Pitch: PitchDef{
			Length:    100.6,
			Width:     64,
			LineWidth: 0.15,
			Show:      true,
			Type:      pitch.KindFootball,
		},
		Stands: StandsDef{
			Show:   true,
			Mode:   StandModeGlobal,
			Global: stand.DefaultSpec(),
		},
		Roof: RoofDef{
			Type:       roof.ModeIndividual,
			Overall:    roof.DefaultOverallParams(),
			Individual: roof.DefaultIndividualParams(),
		},
		Hoardings:   attach.DefaultHoardingParams(),
		Scoreboard:  attach.DefaultScoreboardParams(),
		Ribbons:     attach.DefaultRibbonParams(),
		Floodlights: floodlight.DefaultParams(),
		Display:     attach.DefaultDisplay(),
	}
}

// Decode parses data in format over the defaults, so omitted keys keep
// their default values.
func Decode(data []byte, format Format) (*StadiumSpec, error) {
	s := Default()
	if err := DecodeInto(s, data, format); err != nil {
		return nil, err
	}
	return s, nil
}

// DecodeInto parses data in format over s. Keys absent from data leave s
// unchanged.
func DecodeInto(s *StadiumSpec, data []byte, format Format) error {
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, s)
	case FormatTOML:
		err = toml.Unmarshal(data, s)
	case FormatJSON:
		err = json.Unmarshal(data, s)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("parsing spec %s: %w", strings.ToUpper(string(format)), err)
	}
	return nil
}

// Encode serializes s in format.
func Encode(s *StadiumSpec, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(s)
	case FormatTOML:
		return toml.Marshal(s)
	case FormatJSON:
		return json.MarshalIndent(s, "", "  ")
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Load reads a stadium spec from a YAML, TOML or JSON file.
func Load(path string) (*StadiumSpec, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}
	return Decode(data, format)
}

// LoadProject loads the stadium spec of a project directory. It looks for
// stadium.yaml, stadium.yml and stadium.toml in that order and returns the
// defaults when none exists. path is the file that was read, or empty.
func LoadProject(projectDir string) (s *StadiumSpec, path string, err error) {
	for _, name := range ProjectFiles {
		p := filepath.Join(projectDir, name)
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("reading spec file: %w", err)
		}
		s, err := Load(p)
		return s, p, err
	}
	return Default(), "", nil
}

// Save writes s to path in the format named by its extension.
func Save(path string, s *StadiumSpec) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Encode(s, format)
	if err != nil {
		return fmt.Errorf("encoding spec: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing spec file: %w", err)
	}
	return nil
}

// StandSpecs resolves the spec of every side. In global mode all sides
// use Stands.Global; in individual mode each side's override is applied
// on top of it.
func (s *StadiumSpec) StandSpecs() [4]stand.Spec {
	var out [4]stand.Spec
	for _, side := range stand.Sides {
		out[side] = s.Stands.Global
		if s.Stands.Mode == StandModeIndividual {
			out[side] = s.Stands.Individual.For(side).Apply(s.Stands.Global)
		}
	}
	return out
}

// Clone returns a deep copy of s.
func (s *StadiumSpec) Clone() *StadiumSpec {
	c := *s
	c.Ribbons.Stands = slices.Clone(s.Ribbons.Stands)
	for _, side := range stand.Sides {
		*c.Stands.Individual.For(side) = s.Stands.Individual.For(side).clone()
	}
	return &c
}

func (o StandOverride) clone() StandOverride {
	return StandOverride{
		Show:              clonePtr(o.Show),
		Offset:            clonePtr(o.Offset),
		FrontWallHeight:   clonePtr(o.FrontWallHeight),
		Rows:              clonePtr(o.Rows),
		StepHeight:        clonePtr(o.StepHeight),
		StepDepth:         clonePtr(o.StepDepth),
		WalkwayDepth:      clonePtr(o.WalkwayDepth),
		BackWallHeight:    clonePtr(o.BackWallHeight),
		BackWallThickness: clonePtr(o.BackWallThickness),
		Color:             clonePtr(o.Color),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
