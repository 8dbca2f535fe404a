package source

import (
	"fmt"
	"log/slog"
	"time"
)

type factoryFunc func(Definition) Source

var factories = map[string]factoryFunc{
	KindNewsAPI:  func(d Definition) Source { return NewNewsAPI(d) },
	KindNYTimes:  func(d Definition) Source { return NewNYTimes(d) },
	KindGuardian: func(d Definition) Source { return NewGuardian(d) },
	KindRSS:      func(d Definition) Source { return NewRSS(d) },
}

// New builds a single source from its definition.
func New(def Definition) (Source, error) {
	f, ok := factories[def.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown source kind %q", def.Kind)
	}
	return f(def), nil
}

// Build resolves the enabled source identifiers against cfg, keeping their order.
// Unknown identifiers are logged and skipped. A positive timeout overrides
// definitions that do not set their own.
func Build(cfg *Config, enabled []string, timeout time.Duration) []Source {
	sources := make([]Source, 0, len(enabled))
	for _, name := range enabled {
		def, ok := cfg.Lookup(name)
		if !ok {
			slog.Warn("Skipping unknown source", "source", name)
			continue
		}
		if def.Timeout <= 0 {
			def.Timeout = timeout
		}
		src, err := New(def)
		if err != nil {
			slog.Warn("Skipping source", "source", name, "error", err)
			continue
		}
		sources = append(sources, src)
	}
	return sources
}
