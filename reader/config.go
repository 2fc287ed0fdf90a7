package reader

import (
	"fmt"
	"io"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/Gopikrish-30/ReadUp/internal/engine"
)

type Config struct {
	Addr     string                 `yaml:"addr"`
	Database string                 `yaml:"database"`
	Blobs    string                 `yaml:"blobs"`
	Viewer   ViewerConfig           `yaml:"viewer"`
	Modes    map[string]*ModeConfig `yaml:"modes"`
}

type ViewerConfig struct {
	DefaultColor       string   `yaml:"default_color"`
	Palette            []string `yaml:"palette"`
	LineWidth          float64  `yaml:"line_width"`
	BookmarkLabel      string   `yaml:"bookmark_label"`
	FitPercentage      int      `yaml:"fit_percentage"`
	MinScale           float64  `yaml:"min_scale"`
	MaxScale           float64  `yaml:"max_scale"`
	DrawingEraseRadius float64  `yaml:"drawing_erase_radius"`
	NoteEraseRadius    float64  `yaml:"note_erase_radius"`
}

// ModeConfig is the color palette of one reading mode.
type ModeConfig struct {
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
}

func LoadConfig(filename string) (*Config, error) {
	var ret Config
	f, err := os.Open(filename)
	defer f.Close()
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(data, &ret)
	if err != nil {
		return nil, err
	}
	ret.applyDefaults()
	if err := ret.validate(); err != nil {
		return nil, err
	}
	return &ret, nil
}

// DefaultConfig is the configuration used when no config file is present.
func DefaultConfig() *Config {
	var ret Config
	ret.applyDefaults()
	return &ret
}

func (c *Config) applyDefaults() {
	def := engine.DefaultConfig()
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Database == "" {
		c.Database = "readup.db"
	}
	if c.Blobs == "" {
		c.Blobs = "books"
	}
	if c.Viewer.DefaultColor == "" {
		c.Viewer.DefaultColor = def.DefaultColor
	}
	if len(c.Viewer.Palette) == 0 {
		c.Viewer.Palette = []string{"#ffff00", "#90ee90", "#add8e6", "#ffb6c1"}
	}
	if c.Viewer.LineWidth <= 0 {
		c.Viewer.LineWidth = def.DefaultLineWidth
	}
	if c.Viewer.BookmarkLabel == "" {
		c.Viewer.BookmarkLabel = def.BookmarkLabel
	}
	if c.Viewer.FitPercentage <= 0 {
		c.Viewer.FitPercentage = def.FitPercentage
	}
	if c.Viewer.MinScale <= 0 {
		c.Viewer.MinScale = def.MinScale
	}
	if c.Viewer.MaxScale <= 0 {
		c.Viewer.MaxScale = def.MaxScale
	}
	if c.Viewer.DrawingEraseRadius <= 0 {
		c.Viewer.DrawingEraseRadius = def.DrawingEraseRadius
	}
	if c.Viewer.NoteEraseRadius <= 0 {
		c.Viewer.NoteEraseRadius = def.NoteEraseRadius
	}
	if c.Modes == nil {
		c.Modes = map[string]*ModeConfig{}
	}
	if c.Modes[string(engine.ModeLight)] == nil {
		c.Modes[string(engine.ModeLight)] = &ModeConfig{Background: "#ffffff", Foreground: "#1a1a1a"}
	}
	if c.Modes[string(engine.ModeDark)] == nil {
		c.Modes[string(engine.ModeDark)] = &ModeConfig{Background: "#2b2b2b", Foreground: "#e0e0e0"}
	}
	if c.Modes[string(engine.ModeNight)] == nil {
		c.Modes[string(engine.ModeNight)] = &ModeConfig{Background: "#1a1a14", Foreground: "#c8b988"}
	}
}

func (c *Config) validate() error {
	if c.Viewer.MinScale >= c.Viewer.MaxScale {
		return fmt.Errorf("viewer scale range [%v, %v] is empty", c.Viewer.MinScale, c.Viewer.MaxScale)
	}
	for _, hex := range append([]string{c.Viewer.DefaultColor}, c.Viewer.Palette...) {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("palette color %q is not a valid hex color", hex)
		}
	}
	for name, mode := range c.Modes {
		if mode == nil {
			return fmt.Errorf("reading mode %s has no colors", name)
		}
		for _, hex := range []string{mode.Background, mode.Foreground} {
			if _, err := colorful.Hex(hex); err != nil {
				return fmt.Errorf("reading mode %s: color %q is not a valid hex color", name, hex)
			}
		}
	}
	return nil
}

// EngineConfig converts the viewer section into the annotation engine's
// tuning knobs.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		DefaultColor:       c.Viewer.DefaultColor,
		DefaultLineWidth:   c.Viewer.LineWidth,
		DrawingEraseRadius: c.Viewer.DrawingEraseRadius,
		NoteEraseRadius:    c.Viewer.NoteEraseRadius,
		BookmarkLabel:      c.Viewer.BookmarkLabel,
		MinScale:           c.Viewer.MinScale,
		MaxScale:           c.Viewer.MaxScale,
		FitPercentage:      c.Viewer.FitPercentage,
	}
}
