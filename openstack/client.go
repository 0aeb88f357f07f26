package openstack

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"os"
	"sync"

	"github.com/gophercloud/gophercloud"
	goopenstack "github.com/gophercloud/gophercloud/openstack"
	"github.com/gophercloud/utils/openstack/clientconfig"
	"github.com/pkg/errors"

	"github.com/novakit/novakit/driver"
)

// Options select the cloud endpoint and how to authenticate against it.
// AuthURL with username and password is the explicit path; Cloud names
// a clouds.yaml entry used when no explicit credentials are set.
type Options struct {
	AuthURL  string
	Username string
	Password string
	Cloud    string

	Region      string
	Tenant      string
	DomainName  string
	ServiceName string

	CACert   string
	Insecure bool
}

// Client implements driver.Cloud against the OpenStack compute and
// networking APIs. Authentication happens lazily on first use, so
// constructing a Client performs no network calls.
type Client struct {
	opts Options

	mu         sync.Mutex
	provider   *gophercloud.ProviderClient
	computeSvc *gophercloud.ServiceClient
	networkSvc *gophercloud.ServiceClient
}

// New returns an unconnected client for the given options.
func New(opts Options) *Client {
	return &Client{opts: opts}
}

// FromConfig maps the instance configuration onto connection options.
func FromConfig(cfg *driver.Config) *Client {
	return New(Options{
		AuthURL:     cfg.AuthURL,
		Username:    cfg.Username,
		Password:    cfg.Password,
		Cloud:       cfg.Cloud,
		Region:      cfg.Region,
		Tenant:      cfg.Tenant,
		DomainName:  cfg.DomainName,
		ServiceName: cfg.ServiceName,
		CACert:      cfg.CACert,
		Insecure:    cfg.NoSSLValidation,
	})
}

func (c *Client) computeClient() (*gophercloud.ServiceClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.computeSvc == nil {
		svc, err := c.newServiceClient("compute")
		if err != nil {
			return nil, err
		}
		c.computeSvc = svc
	}
	return c.computeSvc, nil
}

func (c *Client) networkClient() (*gophercloud.ServiceClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.networkSvc == nil {
		svc, err := c.newServiceClient("network")
		if err != nil {
			return nil, err
		}
		c.networkSvc = svc
	}
	return c.networkSvc, nil
}

// newServiceClient builds a service client over one shared
// authenticated provider. Without explicit credentials the clouds.yaml
// entry named by Cloud is used instead.
func (c *Client) newServiceClient(service string) (*gophercloud.ServiceClient, error) {
	if c.opts.AuthURL == "" && c.opts.Cloud != "" {
		svc, err := clientconfig.NewServiceClient(service, &clientconfig.ClientOpts{
			Cloud:      c.opts.Cloud,
			RegionName: c.opts.Region,
		})
		return svc, errors.Wrapf(err, "creating %s client for cloud %q", service, c.opts.Cloud)
	}
	provider, err := c.providerClient()
	if err != nil {
		return nil, err
	}
	eo := gophercloud.EndpointOpts{Region: c.opts.Region}
	switch service {
	case "compute":
		// service_name narrows endpoint selection for compute only.
		eo.Name = c.opts.ServiceName
		svc, err := goopenstack.NewComputeV2(provider, eo)
		return svc, errors.Wrap(err, "creating compute client")
	case "network":
		svc, err := goopenstack.NewNetworkV2(provider, eo)
		return svc, errors.Wrap(err, "creating network client")
	default:
		return nil, errors.Errorf("unknown service %q", service)
	}
}

func (c *Client) providerClient() (*gophercloud.ProviderClient, error) {
	if c.provider != nil {
		return c.provider, nil
	}
	if c.opts.AuthURL == "" {
		return nil, errors.New("no auth_url or cloud configured")
	}
	provider, err := goopenstack.NewClient(c.opts.AuthURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing auth URL")
	}
	httpClient, err := newHTTPClient(c.opts.CACert, c.opts.Insecure)
	if err != nil {
		return nil, err
	}
	provider.HTTPClient = httpClient
	auth := gophercloud.AuthOptions{
		IdentityEndpoint: c.opts.AuthURL,
		Username:         c.opts.Username,
		Password:         c.opts.Password,
		TenantName:       c.opts.Tenant,
		DomainName:       c.opts.DomainName,
		AllowReauth:      true,
	}
	if err := goopenstack.Authenticate(provider, auth); err != nil {
		return nil, errors.Wrap(err, "authenticating")
	}
	c.provider = provider
	return provider, nil
}

// newHTTPClient builds the transport for the explicit-credential path,
// honouring a custom CA bundle and the SSL-validation toggle.
func newHTTPClient(cacert string, insecure bool) (http.Client, error) {
	if cacert == "" && !insecure {
		return http.Client{}, nil
	}
	tlsConfig := &tls.Config{InsecureSkipVerify: insecure}
	if cacert != "" {
		pem, err := os.ReadFile(cacert)
		if err != nil {
			return http.Client{}, errors.Wrapf(err, "reading CA certificate %s", cacert)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return http.Client{}, errors.Errorf("no certificates found in %s", cacert)
		}
		tlsConfig.RootCAs = pool
	}
	return http.Client{Transport: &http.Transport{TLSClientConfig: tlsConfig}}, nil
}
