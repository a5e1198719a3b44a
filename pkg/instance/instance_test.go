package instance

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetIDPrefersConfiguredID(t *testing.T) {
	t.Setenv("CARDAPIO_INSTANCE_ID", "api-7")
	t.Setenv("DYNO", "web.1")
	assert.Equal(t, "api-7", GetID())
}

func TestGetIDFallsBackToDyno(t *testing.T) {
	t.Setenv("CARDAPIO_INSTANCE_ID", "")
	t.Setenv("DYNO", "web.2")
	assert.Equal(t, "web.2", GetID())
}

func TestGetIDFallsBackToHostname(t *testing.T) {
	t.Setenv("CARDAPIO_INSTANCE_ID", "")
	t.Setenv("DYNO", "")
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "local"
	}
	assert.Equal(t, host, GetID())
}
