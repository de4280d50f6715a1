// Package config loads, validates and saves the simulator's YAML
// configuration document: which lights exist and the alarm and presence
// values a fresh home starts with.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/carlos-arino/mcp-home-simulator/pkg/schema"
)

// Config is the immutable startup configuration of the simulated home.
type Config struct {
	// Lights lists the configured light identifiers in display order.
	Lights []string `yaml:"lights"`
	// AlarmDefault is the armed state of the alarm at startup.
	AlarmDefault bool `yaml:"alarm_default"`
	// PresenceDefault is the presence record at startup.
	PresenceDefault Presence `yaml:"presence_default"`
}

// Presence is the configured presence record.
type Presence struct {
	Present     bool     `yaml:"present"`
	KnownPeople []string `yaml:"known_people"`
}

const (
	// DefaultFilename is the configuration file used when no path is given.
	DefaultFilename = "config.yaml"

	// EnvConfigPath overrides DefaultFilename when set.
	EnvConfigPath = "HOMESIM_CONFIG"

	// DefaultFilePermissions is the mode used when writing configuration files.
	DefaultFilePermissions = 0o600
)

// DefaultDocument is written to disk when the configuration file is missing.
const DefaultDocument = `lights:
  - salon
  - cocina
  - dormitorio
  - bano
  - garage

alarm_default: false

presence_default:
  present: false
  known_people: []
`

// documentSchema describes the structure every configuration document must have.
const documentSchema = `{
	"type": "object",
	"required": ["lights"],
	"properties": {
		"lights": {
			"type": "array",
			"minItems": 1,
			"uniqueItems": true,
			"items": {"type": "string", "minLength": 1}
		},
		"alarm_default": {"type": "boolean"},
		"presence_default": {
			"type": "object",
			"properties": {
				"present": {"type": "boolean"},
				"known_people": {
					"type": "array",
					"items": {"type": "string"}
				}
			}
		}
	}
}`

var (
	// ErrInvalidConfig wraps every structural problem found in a configuration document.
	ErrInvalidConfig = errors.New("invalid configuration")
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")

	validator = schema.NewValidator()
)

// PathFromEnv returns the configuration path named by HOMESIM_CONFIG,
// falling back to DefaultFilename.
func PathFromEnv() string {
	if v := os.Getenv(EnvConfigPath); v != "" {
		return v
	}
	return DefaultFilename
}

// Load reads the configuration at path. A missing file is replaced by
// DefaultDocument before loading continues.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFilename
	}
	path = filepath.Clean(path)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("path", path).Msg("Configuration file not found, creating default")
		if err := writeFile(path, []byte(DefaultDocument)); err != nil {
			return nil, fmt.Errorf("create default settings: %w", err)
		}
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg, err := Parse(contents)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes and validates a YAML configuration document.
func Parse(contents []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("%w: unmarshal settings: %w", ErrInvalidConfig, err)
	}

	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshal settings: %w", ErrInvalidConfig, err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := writeFile(filepath.Clean(path), data); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks cfg against the same rules applied to documents read from disk.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}
	return validateDocument(cfg.document())
}

func validateDocument(doc any) error {
	if doc == nil {
		return fmt.Errorf("%w: document is empty", ErrInvalidConfig)
	}
	if err := validator.Validate(json.RawMessage(documentSchema), doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// document converts cfg into the generic shape produced by decoding YAML.
func (c *Config) document() map[string]any {
	lights := make([]any, 0, len(c.Lights))
	for _, l := range c.Lights {
		lights = append(lights, l)
	}

	people := make([]any, 0, len(c.PresenceDefault.KnownPeople))
	for _, p := range c.PresenceDefault.KnownPeople {
		people = append(people, p)
	}

	return map[string]any{
		"lights":        lights,
		"alarm_default": c.AlarmDefault,
		"presence_default": map[string]any{
			"present":      c.PresenceDefault.Present,
			"known_people": people,
		},
	}
}

func (c *Config) applyDefaults() {
	if c.PresenceDefault.KnownPeople == nil {
		c.PresenceDefault.KnownPeople = []string{}
	}
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, DefaultFilePermissions)
}
