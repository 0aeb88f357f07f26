package driver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "novakit.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	return cfg
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := writeConfig(t, `
auth_url: https://keystone.example.com:5000/v3
username: admin
password: secret
image: /^ubuntu/
flavor: m1.small
network:
  - backbone
  - storage
security_groups: [default, ssh]
floating_ip_pool: public
active_timeout: 20m
`)

	assert.Equal(t, "https://keystone.example.com:5000/v3", cfg.AuthURL)
	assert.Equal(t, "/^ubuntu/", cfg.Image)
	assert.Equal(t, StringList{"backbone", "storage"}, cfg.Network)
	assert.Equal(t, []string{"default", "ssh"}, cfg.SecurityGroups)
	assert.Equal(t, "public", cfg.FloatingIPPool)

	// Defaults fill in whatever the file leaves out.
	assert.Equal(t, "root", cfg.SSHUser)
	assert.Equal(t, 22, cfg.SSHPort)
	assert.Equal(t, 20*time.Minute, cfg.ActiveTimeout.Duration())
	assert.Equal(t, 5*time.Minute, cfg.ShellTimeout.Duration())
	assert.Empty(t, cfg.PrivateKeyPath)
	assert.Empty(t, cfg.PublicKeyPath)
}

func TestLoadConfigScalarNetwork(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := writeConfig(t, "network: backbone\n")
	assert.Equal(t, StringList{"backbone"}, cfg.Network)

	cfg = writeConfig(t, "network: \"\"\n")
	assert.Empty(t, cfg.Network)
}

func TestLoadConfigKeyDiscovery(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	sshDir := filepath.Join(home, ".ssh")
	require.NoError(t, os.MkdirAll(sshDir, 0700))

	dsa := filepath.Join(sshDir, "id_dsa")
	require.NoError(t, os.WriteFile(dsa, []byte("dsa key"), 0600))

	cfg := writeConfig(t, "auth_url: https://example.com\n")
	assert.Equal(t, dsa, cfg.PrivateKeyPath)
	assert.Empty(t, cfg.PublicKeyPath)

	// RSA is preferred once it exists, and its .pub comes along.
	rsa := filepath.Join(sshDir, "id_rsa")
	require.NoError(t, os.WriteFile(rsa, []byte("rsa key"), 0600))
	require.NoError(t, os.WriteFile(rsa+".pub", []byte("rsa pub"), 0600))

	cfg = writeConfig(t, "auth_url: https://example.com\n")
	assert.Equal(t, rsa, cfg.PrivateKeyPath)
	assert.Equal(t, rsa+".pub", cfg.PublicKeyPath)
}

func TestLoadConfigExplicitKeysKept(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := writeConfig(t, `
private_key_path: /keys/deploy
public_key_path: /keys/deploy.pub
ssh_user: ubuntu
ssh_port: 2222
`)
	assert.Equal(t, "/keys/deploy", cfg.PrivateKeyPath)
	assert.Equal(t, "/keys/deploy.pub", cfg.PublicKeyPath)
	assert.Equal(t, "ubuntu", cfg.SSHUser)
	assert.Equal(t, 2222, cfg.SSHPort)
}

func TestLoadConfigBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "novakit.yml")
	require.NoError(t, os.WriteFile(path, []byte("active_timeout: soon\n"), 0600))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing duration")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		missing []string
	}{
		{
			name: "complete",
			cfg:  Config{AuthURL: "https://example.com", Username: "admin", Password: "secret"},
		},
		{
			name: "clouds entry only",
			cfg:  Config{Cloud: "devstack"},
		},
		{
			name:    "missing password",
			cfg:     Config{AuthURL: "https://example.com", Username: "admin"},
			missing: []string{"password"},
		},
		{
			name:    "missing username",
			cfg:     Config{AuthURL: "https://example.com", Password: "secret"},
			missing: []string{"username"},
		},
		{
			name:    "missing auth url",
			cfg:     Config{Username: "admin", Password: "secret"},
			missing: []string{"auth_url"},
		},
		{
			name:    "nothing at all",
			cfg:     Config{},
			missing: []string{"auth_url", "username", "password"},
		},
		{
			name:    "partial beats clouds entry",
			cfg:     Config{AuthURL: "https://example.com", Cloud: "devstack"},
			missing: []string{"username", "password"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validateCredentials()
			if tt.missing == nil {
				require.NoError(t, err)
				return
			}
			var credErr *CredentialsError
			require.ErrorAs(t, err, &credErr)
			assert.Equal(t, tt.missing, credErr.Missing)
		})
	}
}
