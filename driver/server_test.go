package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerAddressViews(t *testing.T) {
	server := &Server{Addresses: map[string][]Address{
		"net-b": {{Version: 4, Addr: "10.0.1.4", Type: "fixed"}},
		"net-a": {
			{Version: 4, Addr: "10.0.0.4", Type: "fixed"},
			{Version: 4, Addr: "203.0.113.9", Type: "floating"},
		},
	}}

	public, err := server.PublicIPs()
	require.NoError(t, err)
	assert.Equal(t, []string{"203.0.113.9"}, public)

	private, err := server.PrivateIPs()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.4", "10.0.1.4"}, private)

	assert.Equal(t, []string{"10.0.0.4", "203.0.113.9", "10.0.1.4"}, server.FlatIPs())
}

func TestServerAddressViewsUntagged(t *testing.T) {
	server := &Server{Addresses: map[string][]Address{
		"flat": {{Version: 4, Addr: "192.168.0.4"}},
	}}

	_, err := server.PublicIPs()
	require.ErrorIs(t, err, ErrAddressViewUnsupported)
	_, err = server.PrivateIPs()
	require.ErrorIs(t, err, ErrAddressViewUnsupported)

	assert.Equal(t, []string{"192.168.0.4"}, server.FlatIPs())
}

func TestServerAddressViewsEmpty(t *testing.T) {
	server := &Server{}

	public, err := server.PublicIPs()
	require.NoError(t, err)
	assert.Empty(t, public)

	assert.Empty(t, server.FlatIPs())
}

func TestFloatingIPFree(t *testing.T) {
	assert.True(t, FloatingIP{IP: "192.0.2.1", Pool: "public"}.Free())
	assert.False(t, FloatingIP{IP: "192.0.2.2", FixedIP: "10.0.0.2"}.Free())
	assert.False(t, FloatingIP{IP: "192.0.2.3", InstanceID: "srv-1"}.Free())
}
