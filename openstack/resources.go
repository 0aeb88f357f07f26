package openstack

import (
	"github.com/gophercloud/gophercloud/openstack/compute/v2/extensions/tenantnetworks"
	"github.com/gophercloud/gophercloud/openstack/compute/v2/flavors"
	"github.com/gophercloud/gophercloud/openstack/compute/v2/images"
	"github.com/gophercloud/gophercloud/openstack/networking/v2/networks"
	"github.com/pkg/errors"

	"github.com/novakit/novakit/driver"
)

// Images lists the images visible to the authenticated tenant.
func (c *Client) Images() ([]driver.Resource, error) {
	compute, err := c.computeClient()
	if err != nil {
		return nil, err
	}
	pages, err := images.ListDetail(compute, images.ListOpts{}).AllPages()
	if err != nil {
		return nil, errors.Wrap(err, "listing images")
	}
	list, err := images.ExtractImages(pages)
	if err != nil {
		return nil, errors.Wrap(err, "listing images")
	}
	resources := make([]driver.Resource, 0, len(list))
	for _, i := range list {
		resources = append(resources, driver.Resource{ID: i.ID, Name: i.Name})
	}
	return resources, nil
}

// Flavors lists the available instance sizes.
func (c *Client) Flavors() ([]driver.Resource, error) {
	compute, err := c.computeClient()
	if err != nil {
		return nil, err
	}
	pages, err := flavors.ListDetail(compute, flavors.ListOpts{}).AllPages()
	if err != nil {
		return nil, errors.Wrap(err, "listing flavors")
	}
	list, err := flavors.ExtractFlavors(pages)
	if err != nil {
		return nil, errors.Wrap(err, "listing flavors")
	}
	resources := make([]driver.Resource, 0, len(list))
	for _, f := range list {
		resources = append(resources, driver.Resource{ID: f.ID, Name: f.Name})
	}
	return resources, nil
}

// Networks lists the tenant's networks. Clouds without a networking
// service fall back to the nova os-tenant-networks extension.
func (c *Client) Networks() ([]driver.Resource, error) {
	network, err := c.networkClient()
	if err != nil {
		if isEndpointNotFoundErr(err) {
			return c.tenantNetworks()
		}
		return nil, err
	}
	pages, err := networks.List(network, networks.ListOpts{}).AllPages()
	if err != nil {
		return nil, errors.Wrap(err, "listing networks")
	}
	list, err := networks.ExtractNetworks(pages)
	if err != nil {
		return nil, errors.Wrap(err, "listing networks")
	}
	resources := make([]driver.Resource, 0, len(list))
	for _, n := range list {
		resources = append(resources, driver.Resource{ID: n.ID, Name: n.Name})
	}
	return resources, nil
}

func (c *Client) tenantNetworks() ([]driver.Resource, error) {
	compute, err := c.computeClient()
	if err != nil {
		return nil, err
	}
	pages, err := tenantnetworks.List(compute).AllPages()
	if err != nil {
		return nil, errors.Wrap(err, "listing tenant networks")
	}
	list, err := tenantnetworks.ExtractNetworks(pages)
	if err != nil {
		return nil, errors.Wrap(err, "listing tenant networks")
	}
	resources := make([]driver.Resource, 0, len(list))
	for _, n := range list {
		resources = append(resources, driver.Resource{ID: n.ID, Name: n.Name})
	}
	return resources, nil
}
