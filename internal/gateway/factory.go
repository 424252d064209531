package gateway

import (
	"fmt"

	"checklens/internal/config"
	"checklens/internal/port"
)

// ProviderFactory is a function that creates a VisionGateway from a provider config.
type ProviderFactory func(cfg *config.GatewayProviderConfig) (port.VisionGateway, error)

// registry of gateway provider factories, populated explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a gateway provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// New creates a VisionGateway from a provider config using the registered factory.
func New(cfg *config.GatewayProviderConfig) (port.VisionGateway, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown gateway provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
