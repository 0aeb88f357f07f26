package driver

import "sort"

// Resource is a provider object a configuration reference can resolve
// against: an image, a flavor or a network.
type Resource struct {
	ID   string
	Name string
}

// Address is one entry of a server's per-network address listing.
type Address struct {
	Version int
	Addr    string
	// Type is the provider's address class, "floating" or "fixed".
	// Clouds without the address-type extension leave it empty.
	Type string
}

// Server is the provider-independent view of a compute instance.
type Server struct {
	ID        string
	Name      string
	Status    string
	AdminPass string
	Addresses map[string][]Address
}

// ServerOpts carries the create parameters for a new instance.
type ServerOpts struct {
	Name             string
	ImageRef         string
	FlavorRef        string
	Networks         []string
	KeyName          string
	SecurityGroups   []string
	AvailabilityZone string
	UserData         []byte
	ConfigDrive      bool
}

// FloatingIP is one entry of the provider's floating IP inventory.
type FloatingIP struct {
	IP         string
	Pool       string
	FixedIP    string
	InstanceID string
}

// Free reports whether the address is attached to nothing at all.
func (f FloatingIP) Free() bool {
	return f.FixedIP == "" && f.InstanceID == ""
}

const (
	addressFloating = "floating"
	addressFixed    = "fixed"
)

// PublicIPs returns the addresses the provider tags as floating, in
// network name order. ErrAddressViewUnsupported is returned when the
// listing carries no type tags at all.
func (s *Server) PublicIPs() ([]string, error) {
	return s.taggedIPs(addressFloating)
}

// PrivateIPs returns the addresses the provider tags as fixed, in
// network name order. ErrAddressViewUnsupported is returned when the
// listing carries no type tags at all.
func (s *Server) PrivateIPs() ([]string, error) {
	return s.taggedIPs(addressFixed)
}

func (s *Server) taggedIPs(class string) ([]string, error) {
	var (
		tagged bool
		ips    []string
	)
	for _, network := range s.networkNames() {
		for _, a := range s.Addresses[network] {
			if a.Type != "" {
				tagged = true
			}
			if a.Type == class {
				ips = append(ips, a.Addr)
			}
		}
	}
	if !tagged && len(s.Addresses) > 0 {
		return nil, ErrAddressViewUnsupported
	}
	return ips, nil
}

// FlatIPs returns every address of the server regardless of network or
// class, in network name order.
func (s *Server) FlatIPs() []string {
	var ips []string
	for _, network := range s.networkNames() {
		for _, a := range s.Addresses[network] {
			ips = append(ips, a.Addr)
		}
	}
	return ips
}

func (s *Server) networkNames() []string {
	names := make([]string, 0, len(s.Addresses))
	for name := range s.Addresses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
