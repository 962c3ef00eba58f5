// pkg/config/config.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/opd-ai/torque2d/pkg/physics"
)

var (
	// ErrInvalidScene is wrapped by every Validate failure.
	ErrInvalidScene = errors.New("invalid scene")

	// ErrUnsupportedFormat is returned for files that are not JSON, YAML or TOML.
	ErrUnsupportedFormat = errors.New("unsupported scene format")
)

// SceneConfig contains everything needed to construct a simulation
type SceneConfig struct {
	Name     string           `json:"name" yaml:"name" toml:"name"`
	TickRate int              `json:"tickRate" yaml:"tick_rate" toml:"tick_rate"`
	Gravity  physics.Vector2D `json:"gravity" yaml:"gravity" toml:"gravity"`
	Window   WindowConfig     `json:"window" yaml:"window" toml:"window"`
	Bodies   []BodyConfig     `json:"bodies" yaml:"bodies" toml:"bodies"`
}

// WindowConfig sizes the view the frontends draw into
type WindowConfig struct {
	Title  string `json:"title" yaml:"title" toml:"title"`
	Width  int    `json:"width" yaml:"width" toml:"width"`
	Height int    `json:"height" yaml:"height" toml:"height"`
}

// BodyConfig contains the construction parameters of one body
type BodyConfig struct {
	Name           string                       `json:"name" yaml:"name" toml:"name"`
	Coefficients   physics.ResponseCoefficients `json:"coefficients" yaml:"coefficients" toml:"coefficients"`
	Pose           physics.KinematicState       `json:"pose" yaml:"pose" toml:"pose"`
	Velocity       physics.KinematicState       `json:"velocity" yaml:"velocity" toml:"velocity"`
	Extent         physics.Vector2D             `json:"extent" yaml:"extent" toml:"extent"`
	MaxTugDistance float64                      `json:"maxTugDistance" yaml:"max_tug_distance" toml:"max_tug_distance"`
	Ropes          []RopeConfig                 `json:"ropes,omitempty" yaml:"ropes,omitempty" toml:"ropes,omitempty"`
}

// RopeConfig is a pre-authored tugger
type RopeConfig struct {
	Anchor    physics.LengthAngle `json:"anchor" yaml:"anchor" toml:"anchor"`
	Target    physics.Vector2D    `json:"target" yaml:"target" toml:"target"`
	Suspended bool                `json:"suspended,omitempty" yaml:"suspended,omitempty" toml:"suspended,omitempty"`
}

type format int

const (
	formatJSON format = iota
	formatYAML
	formatTOML
)

func formatFor(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// IsSceneFile reports whether path has an extension Load understands
func IsSceneFile(path string) bool {
	_, err := formatFor(path)
	return err == nil
}

// LoadConfig loads a scene from a file, picking the decoder by extension.
// The result is not validated; call Validate.
func LoadConfig(path string) (*SceneConfig, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config SceneConfig
	switch f {
	case formatJSON:
		err = json.Unmarshal(data, &config)
	case formatYAML:
		err = yaml.Unmarshal(data, &config)
	case formatTOML:
		err = toml.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &config, nil
}

// SaveConfig saves a scene to a file in the format given by its extension
func SaveConfig(config *SceneConfig, path string) error {
	if config == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidScene)
	}
	f, err := formatFor(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case formatJSON:
		data, err = json.MarshalIndent(config, "", "  ")
	case formatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(config); err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()
	case formatTOML:
		data, err = toml.Marshal(config)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the scene and every body it describes
func (c *SceneConfig) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick rate must be positive, got %d", ErrInvalidScene, c.TickRate)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window must have a positive size, got %dx%d", ErrInvalidScene, c.Window.Width, c.Window.Height)
	}
	if !c.Gravity.IsFinite() {
		return fmt.Errorf("%w: gravity must be finite, got %+v", ErrInvalidScene, c.Gravity)
	}
	if len(c.Bodies) == 0 {
		return fmt.Errorf("%w: no bodies", ErrInvalidScene)
	}
	for i, bc := range c.Bodies {
		if len(bc.Ropes) > physics.MaxTuggers-1 {
			return fmt.Errorf("%w: body %d (%s) has %d ropes, at most %d allowed",
				ErrInvalidScene, i, bc.Name, len(bc.Ropes), physics.MaxTuggers-1)
		}
		if err := bc.Build().Validate(); err != nil {
			return fmt.Errorf("%w: body %d (%s): %w", ErrInvalidScene, i, bc.Name, err)
		}
	}
	return nil
}

// Build creates the body described by bc. Ropes fill slots after the live slot.
func (bc BodyConfig) Build() *physics.Body {
	b := &physics.Body{
		Coefficients:   bc.Coefficients,
		Pose:           bc.Pose,
		Velocity:       bc.Velocity,
		Extent:         bc.Extent,
		MaxTugDistance: bc.MaxTugDistance,
	}
	for i, r := range bc.Ropes {
		slot := physics.LiveSlot + 1 + i
		if slot >= physics.MaxTuggers {
			break
		}
		b.Tuggers[slot] = &physics.Tugger{
			Anchor:    r.Anchor,
			Target:    r.Target,
			Suspended: r.Suspended,
		}
	}
	return b
}

// BuildBodies validates the scene and creates its bodies
func (c *SceneConfig) BuildBodies() ([]*physics.Body, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	bodies := make([]*physics.Body, len(c.Bodies))
	for i, bc := range c.Bodies {
		bodies[i] = bc.Build()
	}
	return bodies, nil
}

// DefaultConfig returns a scene with two bodies hanging from ropes
func DefaultConfig() *SceneConfig {
	crate := physics.ResponseCoefficients{
		Linear:  physics.AxisCoefficients{AccelScalar: 0.005, LinearFriction: 0.96, ConstantFriction: 0.01},
		Angular: physics.AxisCoefficients{AccelScalar: 0.0002, LinearFriction: 0.92, ConstantFriction: 0.0002},
	}

	return &SceneConfig{
		Name:     "hanging crates",
		TickRate: 60,
		Gravity:  physics.Vector2D{X: 0, Y: 0.1},
		Window: WindowConfig{
			Title:  "torque2d",
			Width:  800,
			Height: 600,
		},
		Bodies: []BodyConfig{
			{
				Name:           "wide crate",
				Coefficients:   crate,
				Pose:           physics.KinematicState{Position: physics.Vector2D{X: 250, Y: 260}},
				Extent:         physics.Vector2D{X: 80, Y: 50},
				MaxTugDistance: 48,
				Ropes: []RopeConfig{
					{
						Anchor: physics.ToLengthAngle(physics.Vector2D{X: -40, Y: -25}),
						Target: physics.Vector2D{X: 190, Y: 100},
					},
					{
						Anchor: physics.ToLengthAngle(physics.Vector2D{X: 40, Y: -25}),
						Target: physics.Vector2D{X: 310, Y: 100},
					},
				},
			},
			{
				Name:           "square crate",
				Coefficients:   crate,
				Pose:           physics.KinematicState{Position: physics.Vector2D{X: 550, Y: 300}, Angle: 0.3},
				Velocity:       physics.KinematicState{Position: physics.Vector2D{X: 2.1, Y: 2.1}, Angle: 0.01},
				Extent:         physics.Vector2D{X: 60, Y: 60},
				MaxTugDistance: 43,
				Ropes: []RopeConfig{
					{
						Anchor: physics.ToLengthAngle(physics.Vector2D{X: 0, Y: -30}),
						Target: physics.Vector2D{X: 550, Y: 120},
					},
				},
			},
		},
	}
}
