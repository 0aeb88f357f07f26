package driver

import (
	"errors"
	"net"
)

// filterIPs keeps the addresses of the requested IP version, preserving
// their order. Entries that do not parse are dropped; nil input yields
// nil.
func filterIPs(addrs []string, v6 bool) []string {
	var out []string
	for _, a := range addrs {
		ip := net.ParseIP(a)
		if ip == nil {
			continue
		}
		if (ip.To4() == nil) == v6 {
			out = append(out, a)
		}
	}
	return out
}

// selectIP picks the address the instance will be reached at.
// networkName narrows the choice to a single address group when set; v6
// flips the requested IP version. Sources are tried in order: the named
// group, the provider's public and private views, then the conventional
// groups of the address map with every known address as the last
// resort. Public addresses win over private ones.
func selectIP(server *Server, networkName string, v6 bool) (string, error) {
	want := 4
	if v6 {
		want = 6
	}
	if networkName != "" {
		for _, a := range server.Addresses[networkName] {
			if a.Version == want {
				return a.Addr, nil
			}
		}
	}

	public, pubErr := server.PublicIPs()
	private, privErr := server.PrivateIPs()
	if errors.Is(pubErr, ErrAddressViewUnsupported) || errors.Is(privErr, ErrAddressViewUnsupported) {
		public, private = conventionalIPs(server)
	}

	if ips := filterIPs(public, v6); len(ips) > 0 {
		return ips[0], nil
	}
	if ips := filterIPs(private, v6); len(ips) > 0 {
		return ips[0], nil
	}
	return "", ErrNoAddress
}

// conventionalIPs reads the "public" and "private" groups of the
// address map. When neither exists, every known address is treated as
// both.
func conventionalIPs(server *Server) (public, private []string) {
	pub, hasPub := server.Addresses["public"]
	priv, hasPriv := server.Addresses["private"]
	if !hasPub && !hasPriv {
		flat := server.FlatIPs()
		return flat, flat
	}
	return addrStrings(pub), addrStrings(priv)
}

func addrStrings(addrs []Address) []string {
	var out []string
	for _, a := range addrs {
		out = append(out, a.Addr)
	}
	return out
}
