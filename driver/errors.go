package driver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoAddress means a server exposes no address of the requested IP
// version anywhere in its listing.
var ErrNoAddress = errors.New("no reachable IP address found on server")

// ErrAddressViewUnsupported is returned by the public/private address
// views on clouds that do not tag their addresses. An empty view on a
// cloud that does tag addresses is not an error.
var ErrAddressViewUnsupported = errors.New("address view not supported by provider")

// CredentialsError reports an incomplete set of authentication options.
type CredentialsError struct {
	Missing []string
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("incomplete credentials, missing %s", strings.Join(e.Missing, ", "))
}

// PoolExhaustedError reports that a floating IP pool has no free address.
type PoolExhaustedError struct {
	Pool string
}

func (e *PoolExhaustedError) Error() string {
	return fmt.Sprintf("no free floating IP in pool %q", e.Pool)
}
