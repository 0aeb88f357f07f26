package openstack

import (
	"github.com/gophercloud/gophercloud/openstack/compute/v2/extensions/floatingips"
	"github.com/pkg/errors"

	"github.com/novakit/novakit/driver"
)

// FloatingIPs lists the tenant's floating IP inventory across pools.
func (c *Client) FloatingIPs() ([]driver.FloatingIP, error) {
	compute, err := c.computeClient()
	if err != nil {
		return nil, err
	}
	pages, err := floatingips.List(compute).AllPages()
	if err != nil {
		return nil, errors.Wrap(err, "listing floating IPs")
	}
	list, err := floatingips.ExtractFloatingIPs(pages)
	if err != nil {
		return nil, errors.Wrap(err, "listing floating IPs")
	}
	ips := make([]driver.FloatingIP, 0, len(list))
	for _, ip := range list {
		ips = append(ips, driver.FloatingIP{
			IP:         ip.IP,
			Pool:       ip.Pool,
			FixedIP:    ip.FixedIP,
			InstanceID: ip.InstanceID,
		})
	}
	return ips, nil
}

// AssociateFloatingIP attaches the address to the server.
func (c *Client) AssociateFloatingIP(serverID, ip string) error {
	compute, err := c.computeClient()
	if err != nil {
		return err
	}
	opts := floatingips.AssociateOpts{FloatingIP: ip}
	err = floatingips.AssociateInstance(compute, serverID, opts).ExtractErr()
	return errors.Wrapf(err, "associating floating IP %s with server %s", ip, serverID)
}
