// internal/provider/registry.go
package provider

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"browseragent/internal/config"
)

// builder constructs a backend's generator from its resolved configuration.
type builder func(cfg config.ProviderConfig, logger *zap.Logger) generator

// builders maps every backend this build knows how to talk to.
var builders = map[string]builder{
	"gemini": func(cfg config.ProviderConfig, logger *zap.Logger) generator { return newGemini(cfg, logger) },
	"openai": func(cfg config.ProviderConfig, logger *zap.Logger) generator { return newOpenAI(cfg, logger) },
	"cohere": func(cfg config.ProviderConfig, logger *zap.Logger) generator { return newCohere(cfg, logger) },
}

// Registry creates providers on demand from configuration and environment
// credentials. It holds no provider state itself.
type Registry struct {
	cfg    config.AIConfig
	logger *zap.Logger
}

// NewRegistry creates a registry over the given AI configuration.
func NewRegistry(cfg config.AIConfig, logger *zap.Logger) *Registry {
	return &Registry{cfg: cfg, logger: logger}
}

// CredentialVar returns the environment variable that carries a backend's
// API key, e.g. GEMINI_API_KEY.
func CredentialVar(name string) string {
	return strings.ToUpper(name) + "_API_KEY"
}

// resolveKey looks up a backend's API key, environment first, then the
// configuration file.
func (r *Registry) resolveKey(name string) string {
	if key := os.Getenv(CredentialVar(name)); key != "" {
		return key
	}
	return r.cfg.Providers[name].APIKey
}

// Available returns the sorted names of backends that are both known to this
// build and hold a credential. An empty slice means the agent cannot answer
// anything.
func (r *Registry) Available() []string {
	var names []string
	for name := range builders {
		if _, configured := r.cfg.Providers[name]; !configured {
			continue
		}
		if r.resolveKey(name) == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the configured default backend name.
func (r *Registry) Default() string {
	return r.cfg.DefaultProvider
}

// Create instantiates the named provider. Unknown names, missing
// configuration, and missing credentials are ordinary errors; the caller
// decides whether the agent can live without a provider.
func (r *Registry) Create(name string) (Provider, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	cfg, ok := r.cfg.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q is not configured", name)
	}

	key := r.resolveKey(name)
	if key == "" {
		return nil, fmt.Errorf("no API key for provider %q (set %s)", name, CredentialVar(name))
	}
	cfg.APIKey = key

	r.logger.Info("Initializing AI provider", zap.String("provider", name))
	return newClient(name, cfg, r.logger, build(cfg, r.logger)), nil
}
