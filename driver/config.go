package driver

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	defaultSSHUser       = "root"
	defaultSSHPort       = 22
	defaultActiveTimeout = 10 * time.Minute
	defaultShellTimeout  = 5 * time.Minute
)

// Config holds the instance options. It is read once at startup and not
// modified during a run.
type Config struct {
	// Explicit credentials, required as a group unless Cloud names a
	// clouds.yaml entry instead.
	AuthURL  string `yaml:"auth_url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Cloud    string `yaml:"cloud"`

	Region      string `yaml:"region"`
	Tenant      string `yaml:"tenant"`
	DomainName  string `yaml:"domain_name"`
	ServiceName string `yaml:"service_name"`

	// References may be an id, an exact name, or a /regex/ matched
	// against names.
	Image   string     `yaml:"image"`
	Flavor  string     `yaml:"flavor"`
	Network StringList `yaml:"network"`

	ServerName       string   `yaml:"server_name"`
	KeyName          string   `yaml:"key_name"`
	SecurityGroups   []string `yaml:"security_groups"`
	AvailabilityZone string   `yaml:"availability_zone"`
	UserDataPath     string   `yaml:"user_data"`
	ConfigDrive      bool     `yaml:"config_drive"`

	SSHUser        string `yaml:"ssh_user"`
	SSHPort        int    `yaml:"ssh_port"`
	PrivateKeyPath string `yaml:"private_key_path"`
	PublicKeyPath  string `yaml:"public_key_path"`

	FloatingIPPool string `yaml:"floating_ip_pool"`
	FloatingIP     string `yaml:"floating_ip"`
	NetworkName    string `yaml:"network_name"`
	UseIPv6        bool   `yaml:"use_ipv6"`

	NoSSLValidation bool   `yaml:"no_ssl_validation"`
	CACert          string `yaml:"cacert"`

	ActiveTimeout Duration `yaml:"active_timeout"`
	ShellTimeout  Duration `yaml:"shell_timeout"`
}

// LoadConfig reads the configuration file and fills in the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SSHUser == "" {
		c.SSHUser = defaultSSHUser
	}
	if c.SSHPort == 0 {
		c.SSHPort = defaultSSHPort
	}
	if c.ActiveTimeout == 0 {
		c.ActiveTimeout = Duration(defaultActiveTimeout)
	}
	if c.ShellTimeout == 0 {
		c.ShellTimeout = Duration(defaultShellTimeout)
	}
	if c.PrivateKeyPath == "" {
		c.PrivateKeyPath = defaultPrivateKey()
	}
	if c.PublicKeyPath == "" && c.PrivateKeyPath != "" {
		if pub := c.PrivateKeyPath + ".pub"; fileExists(pub) {
			c.PublicKeyPath = pub
		}
	}
}

// validateCredentials checks the explicit credential trio. Partial
// credentials are always an error; leaving out all three is allowed only
// when a clouds.yaml entry is configured instead.
func (c *Config) validateCredentials() error {
	var missing []string
	if c.AuthURL == "" {
		missing = append(missing, "auth_url")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	switch {
	case len(missing) == 0:
		return nil
	case len(missing) == 3 && c.Cloud != "":
		return nil
	}
	return &CredentialsError{Missing: missing}
}

// defaultPrivateKey finds the caller's SSH key, preferring RSA over DSA
// when both exist.
func defaultPrivateKey() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"id_rsa", "id_dsa"} {
		path := filepath.Join(home, ".ssh", name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// StringList accepts either a single YAML scalar or a sequence.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var one string
	if err := unmarshal(&one); err == nil {
		if one == "" {
			*l = nil
		} else {
			*l = StringList{one}
		}
		return nil
	}
	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	*l = many
	return nil
}

// Duration unmarshals from a Go duration string such as "10m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return errors.Wrapf(err, "parsing duration %q", raw)
	}
	*d = Duration(parsed)
	return nil
}

// Duration converts to the standard type.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
