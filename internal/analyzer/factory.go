package analyzer

import (
	"fmt"

	"billmunshi/internal/config"
	"billmunshi/internal/port"
)

// ProviderFactory is a function that creates a BillAnalyzer from a provider config.
type ProviderFactory func(cfg *config.AnalyzerConfig) (port.BillAnalyzer, error)

// registry of analyzer provider factories, populated explicitly via
// RegisterProvider from cmd wiring.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an analyzer provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewAnalyzer creates a BillAnalyzer from the configured provider.
func NewAnalyzer(cfg *config.AnalyzerConfig) (port.BillAnalyzer, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown analyzer provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
