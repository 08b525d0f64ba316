// Package config loads the optional carousel.yaml deck description used by
// the carousel CLI.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/dom"
	"github.com/go-drift/carousel/pkg/errors"
)

// FileName is the configuration file looked up in a directory.
const FileName = "carousel.yaml"

// SchemaVersion is the schema version written by default. Files must carry
// a v1 version.
const SchemaVersion = "v1.0.0"

// Config represents the optional carousel.yaml configuration.
type Config struct {
	Version  string           `yaml:"version,omitempty"`
	Options  OptionsConfig    `yaml:"options"`
	Slides   []SlideConfig    `yaml:"slides,omitempty"`
	Progress []ProgressConfig `yaml:"progress,omitempty"`
}

// OptionsConfig mirrors carousel.Options. Unset fields keep the engine
// defaults.
type OptionsConfig struct {
	DefaultActive    *int     `yaml:"default_active,omitempty"`
	Autoplay         *bool    `yaml:"autoplay,omitempty"`
	AutoplayProgress *bool    `yaml:"autoplay_progress,omitempty"`
	AutoplaySpeed    string   `yaml:"autoplay_speed,omitempty"`
	PauseOnHover     *bool    `yaml:"pause_on_hover,omitempty"`
	DynamicHeight    *bool    `yaml:"dynamic_height,omitempty"`
	BaseDuration     string   `yaml:"base_duration,omitempty"`
	TranslateOffset  *float64 `yaml:"translate_offset,omitempty"`
}

// SlideConfig describes one slide.
type SlideConfig struct {
	Name      string        `yaml:"name,omitempty"`
	Text      []string      `yaml:"text,omitempty"`
	Staggered []string      `yaml:"staggered,omitempty"`
	Images    []ImageConfig `yaml:"images,omitempty"`
	Height    float64       `yaml:"height,omitempty"`
}

// ImageConfig describes an image inside a slide. A zero height is an image
// that is still loading.
type ImageConfig struct {
	Src    string  `yaml:"src"`
	Height float64 `yaml:"height,omitempty"`
}

// ProgressConfig describes a progress indicator. An empty For binds the
// indicator to every slide.
type ProgressConfig struct {
	For string `yaml:"for,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Path     string
	Version  string
	Options  carousel.Options
	Slides   []SlideConfig
	Progress []ProgressConfig
}

// Default returns the deck used when no carousel.yaml exists.
func Default() *Config {
	return &Config{
		Version: SchemaVersion,
		Slides: []SlideConfig{
			{Name: "intro", Text: []string{"Fluid carousel"}, Staggered: []string{"Slides move", "with a cascade"}},
			{Name: "autoplay", Text: []string{"Autoplay"}, Staggered: []string{"pauses on hover"}},
			{Name: "progress", Text: []string{"Progress"}, Staggered: []string{"tracks each cycle"}},
		},
		Progress: []ProgressConfig{{}},
	}
}

// LoadOptional reads carousel.yaml from dir if present. A missing file
// yields Default.
func LoadOptional(dir string) (*Config, string, error) {
	path := filepath.Join(dir, FileName)
	cfg, err := Load(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return Default(), "", nil
		}
		return nil, path, err
	}
	return cfg, path, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, errors.New("config.Load", errors.KindConfig, fmt.Errorf("failed to read %s: %w", path, err))
	}
	return Parse(data)
}

// Parse decodes a configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.New("config.Parse", errors.KindConfig, fmt.Errorf("failed to parse %s: %w", FileName, err))
	}
	return &cfg, nil
}

// Resolve loads carousel.yaml from dir (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, path, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	res, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	res.Path = path
	return res, nil
}

// ResolveFile loads the file at path and resolves defaults.
func ResolveFile(path string) (*Resolved, error) {
	cfg, err := Load(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.New("config.Load", errors.KindConfig, err)
		}
		return nil, err
	}
	res, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	res.Path = path
	return res, nil
}

// Resolve validates cfg and converts it to engine options.
func (cfg *Config) Resolve() (*Resolved, error) {
	version, err := validateVersion(cfg.Version)
	if err != nil {
		return nil, err
	}
	if len(cfg.Slides) == 0 {
		return nil, configError(errors.ErrNoSlides)
	}

	names := make(map[string]bool, len(cfg.Slides))
	for i, s := range cfg.Slides {
		name := strings.TrimSpace(s.Name)
		if name == "true" {
			return nil, configError(fmt.Errorf("slide %d: name %q is reserved", i, name))
		}
		if name != "" {
			if names[name] {
				return nil, configError(fmt.Errorf("slide %d: duplicate name %q", i, name))
			}
			names[name] = true
		}
		if s.Height < 0 {
			return nil, configError(fmt.Errorf("slide %d: negative height", i))
		}
		for _, img := range s.Images {
			if strings.TrimSpace(img.Src) == "" {
				return nil, configError(fmt.Errorf("slide %d: image without src", i))
			}
		}
	}
	for i, p := range cfg.Progress {
		if p.For != "" && !names[p.For] {
			return nil, configError(fmt.Errorf("progress %d: %w: %q", i, errors.ErrUnknownName, p.For))
		}
	}

	opts, err := cfg.Options.resolve(len(cfg.Slides))
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Version:  version,
		Options:  opts,
		Slides:   cfg.Slides,
		Progress: cfg.Progress,
	}, nil
}

func (o OptionsConfig) resolve(slides int) (carousel.Options, error) {
	opts := carousel.DefaultOptions()
	if o.DefaultActive != nil {
		if *o.DefaultActive < 0 || *o.DefaultActive >= slides {
			return opts, configError(fmt.Errorf("default_active %d: %w", *o.DefaultActive, errors.ErrOutOfRange))
		}
		opts.DefaultActive = *o.DefaultActive
	}
	if o.Autoplay != nil {
		opts.Autoplay = *o.Autoplay
	}
	if o.AutoplayProgress != nil {
		opts.AutoplayProgress = *o.AutoplayProgress
	}
	if o.PauseOnHover != nil {
		opts.PauseOnHover = *o.PauseOnHover
	}
	if o.DynamicHeight != nil {
		opts.DynamicHeight = *o.DynamicHeight
	}
	if o.TranslateOffset != nil {
		opts.TranslateOffset = *o.TranslateOffset
	}

	var err error
	if opts.AutoplaySpeed, err = parseDuration("autoplay_speed", o.AutoplaySpeed, opts.AutoplaySpeed, false); err != nil {
		return opts, err
	}
	if opts.BaseDuration, err = parseDuration("base_duration", o.BaseDuration, opts.BaseDuration, true); err != nil {
		return opts, err
	}
	return opts, nil
}

func parseDuration(field, raw string, def time.Duration, allowZero bool) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, configError(fmt.Errorf("%s: %w", field, err))
	}
	if d < 0 || (d == 0 && !allowZero) {
		return 0, configError(fmt.Errorf("%s: must be positive, got %s", field, raw))
	}
	return d, nil
}

func validateVersion(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return SchemaVersion, nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", configError(fmt.Errorf("invalid version %q", v))
	}
	if semver.Major(v) != "v1" {
		return "", configError(fmt.Errorf("unsupported version %s (want v1)", v))
	}
	return semver.Canonical(v), nil
}

func configError(err error) *errors.CarouselError {
	return errors.New("config.Resolve", errors.KindConfig, err)
}

// Build creates a fresh container element for the resolved deck.
func (r *Resolved) Build() *dom.Element {
	root := dom.Container()
	for _, s := range r.Slides {
		slide := dom.Slide(strings.TrimSpace(s.Name))
		for _, line := range s.Text {
			slide.Append(dom.Text(line))
		}
		for i, line := range s.Staggered {
			slide.Append(dom.Staggered(i+1, dom.Text(line)))
		}
		for _, img := range s.Images {
			slide.Append(dom.Img(img.Src, img.Height))
		}
		if s.Height > 0 {
			slide.WithHeight(s.Height)
		}
		root.Append(slide)
	}
	for _, p := range r.Progress {
		root.Append(dom.Progress(p.For))
	}
	return root
}

// Pending returns the image sources that have not loaded yet.
func (r *Resolved) Pending() []string {
	var srcs []string
	seen := make(map[string]bool)
	for _, s := range r.Slides {
		for _, img := range s.Images {
			if img.Height == 0 && !seen[img.Src] {
				seen[img.Src] = true
				srcs = append(srcs, img.Src)
			}
		}
	}
	return srcs
}
