package push

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGatewayBoundsClient(t *testing.T) {
	g := NewGateway("pub", "priv", "mailto:admin@example.com")
	require.NotNil(t, g.client)
	assert.Equal(t, 10*time.Second, g.client.Timeout)
}

func TestSendDisabledGateway(t *testing.T) {
	g := NewGateway("", "", "mailto:admin@example.com")
	assert.False(t, g.Enabled())
	assert.NoError(t, g.Send([]byte(`{}`), map[string]string{"title": "hi"}))
}

func TestSendRejectsBadSubscription(t *testing.T) {
	g := NewGateway("pub", "priv", "mailto:admin@example.com")
	err := g.Send([]byte("not json"), map[string]string{"title": "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid subscription payload")
}
