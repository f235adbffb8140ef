package pipeline

import (
	"bytes"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/skeletonize/pkg/annotation"
	"github.com/matzehuels/skeletonize/pkg/errors"
)

// Config mirrors the CLI flags in a TOML file. Unset keys keep their
// defaults.
//
//	allow_cycles = false
//	connect_soma = false
//	threshold = 0.5
//	scale = 1.0
//	depth = -1
//	no_clip = false
//	no_inflate = false
//	aabb_margin = -1.0
//	debug_artifacts = false
//	format = "swc"
//	output_dir = "out"
//	force = false
type Config struct {
	AllowCycles    bool     `toml:"allow_cycles"`
	ConnectSoma    bool     `toml:"connect_soma"`
	Threshold      *float64 `toml:"threshold"`
	Scale          float64  `toml:"scale"`
	Depth          int      `toml:"depth"`
	NoClip         bool     `toml:"no_clip"`
	NoInflate      bool     `toml:"no_inflate"`
	AABBMargin     *float64 `toml:"aabb_margin"`
	DebugArtifacts bool     `toml:"debug_artifacts"`

	Format    string `toml:"format"`
	OutputDir string `toml:"output_dir"`
	Force     bool   `toml:"force"`
}

// DefaultConfig returns a config holding every default value.
func DefaultConfig() Config {
	margin := annotation.DefaultMargin
	return Config{
		Scale:      DefaultScale,
		Depth:      DefaultMaxDepth,
		AABBMargin: &margin,
		Format:     DefaultFormat,
		OutputDir:  ".",
	}
}

// LoadConfig reads a TOML config file. Unknown keys are rejected so typos do
// not go unnoticed.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidFormat, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	if cfg.Format != "" {
		if err := ValidateFormat(cfg.Format); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Options converts the config into conversion options. A config threshold
// only applies when the annotations do not set one.
func (c Config) Options() Options {
	opts := Options{
		AllowCycles: c.AllowCycles,
		ConnectSoma: c.ConnectSoma,
		Scale:       c.Scale,
		MaxDepth:    c.Depth,
		NoClip:      c.NoClip,
		NoInflate:   c.NoInflate,
		Margin:      c.AABBMargin,
		Debug:       c.DebugArtifacts,
	}
	if c.Threshold != nil {
		opts.DefaultThreshold = *c.Threshold
	}
	return opts
}

// Encode writes c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}
