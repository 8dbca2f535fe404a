package source

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Definition is the static configuration of one source.
type Definition struct {
	Name     string            `yaml:"name"`
	Kind     string            `yaml:"kind"`
	URL      string            `yaml:"url"`
	APIKey   string            `yaml:"api_key"`
	Category string            `yaml:"category"`
	Params   map[string]string `yaml:"params"`
	Feeds    []string          `yaml:"feeds"`
	Timeout  time.Duration     `yaml:"timeout"`
}

type Config struct {
	Sources []Definition `yaml:"sources"`
}

// LoadConfig decodes a YAML source configuration. ${VAR} references in api keys
// and params are expanded from the environment.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode source config: %w", err)
	}
	for i := range cfg.Sources {
		def := &cfg.Sources[i]
		if def.Kind == "" {
			def.Kind = def.Name
		}
		if def.Name == "" {
			def.Name = def.Kind
		}
		if def.Name == "" {
			return nil, fmt.Errorf("source %d: name or kind is required", i)
		}
		def.APIKey = os.ExpandEnv(def.APIKey)
		for k, v := range def.Params {
			def.Params[k] = os.ExpandEnv(v)
		}
	}
	return &cfg, nil
}

// DefaultConfig describes the built-in providers with keys taken from the environment.
func DefaultConfig() *Config {
	return &Config{Sources: []Definition{
		{Name: KindNewsAPI, Kind: KindNewsAPI, APIKey: os.Getenv("NEWSAPI_API_KEY")},
		{Name: KindNYTimes, Kind: KindNYTimes, APIKey: os.Getenv("NYTIMES_API_KEY")},
		{Name: KindGuardian, Kind: KindGuardian, APIKey: os.Getenv("GUARDIAN_API_KEY")},
	}}
}

func (c *Config) Lookup(name string) (Definition, bool) {
	for _, def := range c.Sources {
		if strings.EqualFold(def.Name, name) {
			return def, true
		}
	}
	return Definition{}, false
}

func withDefault(params map[string]string, key, value string) map[string]string {
	out := make(map[string]string, len(params)+1)
	for k, v := range params {
		out[k] = v
	}
	if _, ok := out[key]; !ok && value != "" {
		out[key] = value
	}
	return out
}
