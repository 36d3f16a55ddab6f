package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	InputPath    string
	OutputPath   string
	Template     string
	Repeat       string
	Debug        bool
	OutlinePath  string
	Workers      int
	ShowStats    bool
	BuildVersion string
	LogLevel     string
	LogFormat    string
	PaintScope   string
}

// Profile is the YAML form of the settings a project keeps between runs.
// Zero values leave the corresponding setting untouched.
type Profile struct {
	Output     string `yaml:"output"`
	Template   string `yaml:"template"`
	Repeat     string `yaml:"repeat"`
	Debug      bool   `yaml:"debug"`
	Outline    string `yaml:"outline"`
	Workers    int    `yaml:"workers"`
	Stats      bool   `yaml:"stats"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	PaintScope string `yaml:"paint_scope"`
}

// LoadProfile reads a profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("профиль %s: %w", path, err)
	}
	return &p, nil
}

// Apply copies the profile onto cfg. Settings named in explicit were given on
// the command line and win over the profile.
func (p *Profile) Apply(cfg *Config, explicit map[string]bool) {
	str := func(flag string, dst *string, v string) {
		if v != "" && !explicit[flag] {
			*dst = v
		}
	}
	str("output", &cfg.OutputPath, p.Output)
	str("template", &cfg.Template, p.Template)
	str("repeat", &cfg.Repeat, p.Repeat)
	str("outline", &cfg.OutlinePath, p.Outline)
	str("log-level", &cfg.LogLevel, p.LogLevel)
	str("log-format", &cfg.LogFormat, p.LogFormat)
	str("paint-scope", &cfg.PaintScope, p.PaintScope)

	if p.Debug && !explicit["debug"] {
		cfg.Debug = true
	}
	if p.Stats && !explicit["stats"] {
		cfg.ShowStats = true
	}
	if p.Workers > 0 && !explicit["workers"] {
		cfg.Workers = p.Workers
	}
}
