package instance

import (
	"os"

	"github.com/cardapiohub/cardapio-backend/pkg/env"
)

// GetID returns the identifier of this API replica: the configured instance
// id, the platform dyno name, the hostname, or "local".
func GetID() string {
	if id := env.First("", "CARDAPIO_INSTANCE_ID", "DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
