package driver

import (
	log "github.com/sirupsen/logrus"
)

// attachFloatingIP puts a floating address on the server and returns
// it. An explicitly configured address is attached as-is; otherwise the
// named pool is scanned for the first address that is attached to
// nothing. A pool with no free address aborts the create.
func attachFloatingIP(cloud Cloud, serverID, pool, explicit string) (string, error) {
	if explicit != "" {
		log.Infof("attaching floating IP %s", explicit)
		if err := cloud.AssociateFloatingIP(serverID, explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}
	ips, err := cloud.FloatingIPs()
	if err != nil {
		return "", err
	}
	for _, ip := range ips {
		if ip.Pool != pool || !ip.Free() {
			continue
		}
		log.Infof("attaching floating IP %s from pool %s", ip.IP, pool)
		if err := cloud.AssociateFloatingIP(serverID, ip.IP); err != nil {
			return "", err
		}
		return ip.IP, nil
	}
	return "", &PoolExhaustedError{Pool: pool}
}
