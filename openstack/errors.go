package openstack

import (
	"errors"

	"github.com/gophercloud/gophercloud"
)

// isNotFoundErr matches a provider 404 anywhere in the chain.
func isNotFoundErr(err error) bool {
	var notFound gophercloud.ErrDefault404
	return errors.As(err, &notFound)
}

// isEndpointNotFoundErr matches a service missing from the catalog.
func isEndpointNotFoundErr(err error) bool {
	var endpointNotFound *gophercloud.ErrEndpointNotFound
	return errors.As(err, &endpointNotFound) || errors.As(err, &gophercloud.ErrEndpointNotFound{})
}
