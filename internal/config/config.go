package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Output formats of the generate command.
const (
	FormatHTML        = "html"
	FormatMarkdown    = "markdown"
	FormatOpenAPIYAML = "openapi-yaml"
	FormatOpenAPIJSON = "openapi-json"
	FormatModelJSON   = "model-json"
	FormatModelYAML   = "model-yaml"
)

var Formats = []string{
	FormatHTML, FormatMarkdown,
	FormatOpenAPIYAML, FormatOpenAPIJSON,
	FormatModelJSON, FormatModelYAML,
}

const DefaultVersion = "1.4"

// Config drives one generate run. Input lists annotation files (YAML or
// JSON) read in order; Source is a Go tree whose doc comments carry
// annotations.
type Config struct {
	Input       []string          `json:"input" yaml:"input" toml:"input"`
	Source      string            `json:"source" yaml:"source" toml:"source"`
	Output      string            `json:"output" yaml:"output" toml:"output"`
	File        string            `json:"file" yaml:"file" toml:"file"`
	Format      string            `json:"format" yaml:"format" toml:"format"`
	Title       string            `json:"title" yaml:"title" toml:"title"`
	Description string            `json:"description" yaml:"description" toml:"description"`
	Version     string            `json:"version" yaml:"version" toml:"version"`
	ServerURL   string            `json:"server_url" yaml:"serverURL" toml:"server_url"`
	TemplateDir string            `json:"template_dir" yaml:"templateDir" toml:"template_dir"`
	Workers     int               `json:"workers" yaml:"workers" toml:"workers"`
	Badges      map[string]string `json:"badges" yaml:"badges" toml:"badges"`
}

// Load reads a config file and applies defaults.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Read decodes a config file, picking the decoder from its extension.
// Unset fields stay empty so callers can layer flags on top.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q (supported: .json, .yaml, .yml, .toml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// ApplyDefaults fills every unset field with its default.
func (c *Config) ApplyDefaults() {
	if c.Output == "" {
		c.Output = "."
	}
	if c.Format == "" {
		c.Format = FormatHTML
	}
	if c.File == "" {
		c.File = defaultFile(c.Format)
	}
	if c.Title == "" {
		c.Title = "API documentation"
	}
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
}

func defaultFile(format string) string {
	switch format {
	case FormatMarkdown:
		return "index.md"
	case FormatOpenAPIYAML:
		return "openapi.yaml"
	case FormatOpenAPIJSON:
		return "openapi.json"
	case FormatModelJSON:
		return "model.json"
	case FormatModelYAML:
		return "model.yaml"
	default:
		return "index.html"
	}
}

func (c *Config) Validate() error {
	if len(c.Input) == 0 && c.Source == "" {
		return errors.New("input or source is required")
	}
	for _, f := range Formats {
		if c.Format == f {
			return nil
		}
	}
	return fmt.Errorf("unsupported format: %s (supported: %s)", c.Format, strings.Join(Formats, ", "))
}

// Path is the location of the generated document.
func (c *Config) Path() string {
	return filepath.Join(c.Output, c.File)
}
