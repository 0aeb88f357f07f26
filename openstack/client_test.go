package openstack

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novakit/novakit/driver"
)

func TestFromConfig(t *testing.T) {
	cfg := &driver.Config{
		AuthURL:         "https://keystone.example.com:5000/v3",
		Username:        "demo",
		Password:        "secret",
		Region:          "RegionOne",
		Tenant:          "demo",
		DomainName:      "Default",
		ServiceName:     "novaV2",
		CACert:          "/etc/ssl/internal-ca.pem",
		NoSSLValidation: true,
	}

	c := FromConfig(cfg)
	assert.Equal(t, Options{
		AuthURL:     "https://keystone.example.com:5000/v3",
		Username:    "demo",
		Password:    "secret",
		Region:      "RegionOne",
		Tenant:      "demo",
		DomainName:  "Default",
		ServiceName: "novaV2",
		CACert:      "/etc/ssl/internal-ca.pem",
		Insecure:    true,
	}, c.opts)
}

func TestNoConnectionDetails(t *testing.T) {
	_, err := New(Options{}).Images()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no auth_url or cloud configured")
}

func TestNewHTTPClientDefault(t *testing.T) {
	client, err := newHTTPClient("", false)
	require.NoError(t, err)
	assert.Nil(t, client.Transport)
}

func TestNewHTTPClientInsecure(t *testing.T) {
	client, err := newHTTPClient("", true)
	require.NoError(t, err)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)
	assert.Nil(t, transport.TLSClientConfig.RootCAs)
}

func TestNewHTTPClientCACert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, selfSignedPEM(t), 0600))

	client, err := newHTTPClient(path, false)
	require.NoError(t, err)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.False(t, transport.TLSClientConfig.InsecureSkipVerify)
	assert.NotNil(t, transport.TLSClientConfig.RootCAs)
}

func TestNewHTTPClientBadCACert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0600))

	_, err := newHTTPClient(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no certificates found in")
}

func TestNewHTTPClientMissingCACert(t *testing.T) {
	_, err := newHTTPClient(filepath.Join(t.TempDir(), "absent.pem"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading CA certificate")
}

func selfSignedPEM(t *testing.T) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "novakit test CA"},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageCertSign,
		IsCA:                  true,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}
