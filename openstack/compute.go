package openstack

import (
	"time"

	"github.com/gophercloud/gophercloud"
	"github.com/gophercloud/gophercloud/openstack/compute/v2/extensions/keypairs"
	"github.com/gophercloud/gophercloud/openstack/compute/v2/servers"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/novakit/novakit/driver"
)

// CreateServer boots a new server and returns its handle. The handle
// carries the one-time admin password from the create response.
func (c *Client) CreateServer(opts driver.ServerOpts) (*driver.Server, error) {
	compute, err := c.computeClient()
	if err != nil {
		return nil, err
	}
	base := servers.CreateOpts{
		Name:             opts.Name,
		ImageRef:         opts.ImageRef,
		FlavorRef:        opts.FlavorRef,
		SecurityGroups:   opts.SecurityGroups,
		AvailabilityZone: opts.AvailabilityZone,
		UserData:         opts.UserData,
	}
	if len(opts.Networks) > 0 {
		networks := make([]servers.Network, 0, len(opts.Networks))
		for _, id := range opts.Networks {
			networks = append(networks, servers.Network{UUID: id})
		}
		base.Networks = networks
	}
	if opts.ConfigDrive {
		enabled := true
		base.ConfigDrive = &enabled
	}
	var createOpts servers.CreateOptsBuilder = base
	if opts.KeyName != "" {
		createOpts = keypairs.CreateOptsExt{
			CreateOptsBuilder: createOpts,
			KeyName:           opts.KeyName,
		}
	}
	server, err := servers.Create(compute, createOpts).Extract()
	if err != nil {
		return nil, errors.Wrap(err, "creating server")
	}
	return fromServer(server), nil
}

// Server looks up a server by id. A provider 404 yields (nil, nil): the
// server is simply gone.
func (c *Client) Server(id string) (*driver.Server, error) {
	compute, err := c.computeClient()
	if err != nil {
		return nil, err
	}
	server, err := servers.Get(compute, id).Extract()
	if err != nil {
		if isNotFoundErr(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "fetching server %s", id)
	}
	return fromServer(server), nil
}

// DeleteServer removes the server. Deleting one that is already gone is
// not an error.
func (c *Client) DeleteServer(id string) error {
	compute, err := c.computeClient()
	if err != nil {
		return err
	}
	if err := servers.Delete(compute, id).ExtractErr(); err != nil && !isNotFoundErr(err) {
		return errors.Wrapf(err, "deleting server %s", id)
	}
	return nil
}

// WaitForServer polls the server until it reaches ACTIVE, failing fast
// when it lands in ERROR instead.
func (c *Client) WaitForServer(id string, timeout time.Duration) error {
	compute, err := c.computeClient()
	if err != nil {
		return err
	}
	secs := int(timeout / time.Second)
	if secs < 1 {
		secs = 1
	}
	return gophercloud.WaitFor(secs, func() (bool, error) {
		server, err := servers.Get(compute, id).Extract()
		if err != nil {
			return false, err
		}
		log.Debugf("server %s status is %s", id, server.Status)
		switch server.Status {
		case "ACTIVE":
			return true, nil
		case "ERROR":
			return false, errors.Errorf("server %s went into ERROR state", id)
		default:
			return false, nil
		}
	})
}

func fromServer(s *servers.Server) *driver.Server {
	return &driver.Server{
		ID:        s.ID,
		Name:      s.Name,
		Status:    s.Status,
		AdminPass: s.AdminPass,
		Addresses: parseAddresses(s.Addresses),
	}
}

// parseAddresses types the raw per-network address document. Version
// and address are always present; the floating/fixed class tag only on
// clouds with the extended-ips extension.
func parseAddresses(raw map[string]interface{}) map[string][]driver.Address {
	parsed := make(map[string][]driver.Address, len(raw))
	for network, entries := range raw {
		list, ok := entries.([]interface{})
		if !ok {
			continue
		}
		for _, entry := range list {
			fields, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			var addr driver.Address
			if v, ok := fields["addr"].(string); ok {
				addr.Addr = v
			}
			if v, ok := fields["version"].(float64); ok {
				addr.Version = int(v)
			}
			if v, ok := fields["OS-EXT-IPS:type"].(string); ok {
				addr.Type = v
			}
			if addr.Addr == "" {
				continue
			}
			parsed[network] = append(parsed[network], addr)
		}
	}
	return parsed
}
