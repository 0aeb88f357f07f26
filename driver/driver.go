package driver

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// defaultNameBase seeds generated server names when none is configured.
const defaultNameBase = "novakit"

// Cloud is the provider side of the driver: resource listings, the
// server lifecycle and the floating IP inventory. The openstack package
// implements it; tests substitute fakes.
type Cloud interface {
	Images() ([]Resource, error)
	Flavors() ([]Resource, error)
	Networks() ([]Resource, error)
	CreateServer(opts ServerOpts) (*Server, error)
	// Server returns nil without error when the provider no longer
	// knows the id.
	Server(id string) (*Server, error)
	DeleteServer(id string) error
	WaitForServer(id string, timeout time.Duration) error
	FloatingIPs() ([]FloatingIP, error)
	AssociateFloatingIP(serverID, ip string) error
}

// Shell is the remote-execution channel used to bootstrap a freshly
// booted server.
type Shell interface {
	Wait(ctx context.Context, timeout time.Duration) error
	Run(commands []string) error
}

// ShellOpts carries the connection parameters for a server's shell. The
// password is the one-time admin password from the create response; the
// key path may be empty when the caller has no local key.
type ShellOpts struct {
	Host     string
	Port     int
	User     string
	Password string
	KeyPath  string
}

// ShellFactory opens a Shell for the given connection parameters.
type ShellFactory func(ShellOpts) Shell

// Driver drives the lifecycle of a single compute instance. One Driver
// owns one instance state; Create and Destroy must not run
// concurrently.
type Driver struct {
	Config *Config
	Cloud  Cloud
	Store  StateStore
	Env    Environ
	Shell  ShellFactory
}

// Create provisions the instance described by the configuration. The
// provider id and the chosen address are persisted as soon as each is
// known, so a failed create can still be cleaned up with Destroy.
func (d *Driver) Create(ctx context.Context) error {
	state, err := d.Store.Load()
	if err != nil {
		return err
	}
	if state.ServerID != "" {
		log.Infof("server %s already exists, nothing to create", state.ServerID)
		return nil
	}
	if err := d.Config.validateCredentials(); err != nil {
		return err
	}
	opts, err := d.serverOpts()
	if err != nil {
		return err
	}

	log.Infof("creating server %s", opts.Name)
	server, err := d.Cloud.CreateServer(opts)
	if err != nil {
		return err
	}
	state.ServerID = server.ID
	if err := d.Store.Save(state); err != nil {
		return err
	}
	log.Infof("server created, id is %s", server.ID)

	if err := d.Cloud.WaitForServer(server.ID, d.Config.ActiveTimeout.Duration()); err != nil {
		return err
	}
	// The create response carries no addresses; re-read the server now
	// that it is active.
	live, err := d.Cloud.Server(server.ID)
	if err != nil {
		return err
	}
	if live == nil {
		return errors.Errorf("server %s disappeared while waiting for it", server.ID)
	}

	hostname, err := d.assignAddress(live)
	if err != nil {
		return err
	}
	state.Hostname = hostname
	if err := d.Store.Save(state); err != nil {
		return err
	}
	log.Infof("server reachable at %s", hostname)

	shell := d.Shell(ShellOpts{
		Host:     hostname,
		Port:     d.Config.SSHPort,
		User:     d.Config.SSHUser,
		Password: server.AdminPass,
		KeyPath:  d.Config.PrivateKeyPath,
	})
	log.Debugf("waiting for a shell on %s:%d", hostname, d.Config.SSHPort)
	if err := shell.Wait(ctx, d.Config.ShellTimeout.Duration()); err != nil {
		return err
	}
	if err := d.bootstrap(shell); err != nil {
		return err
	}
	log.Infof("server %s ready", server.ID)
	return nil
}

// Destroy tears down the instance recorded in the state. It is safe to
// repeat: with nothing recorded it does nothing, and a server already
// deleted out-of-band only has its local record cleared. Once an id was
// present the state keys are cleared no matter how the provider calls
// go.
func (d *Driver) Destroy() error {
	state, err := d.Store.Load()
	if err != nil {
		return err
	}
	if state.ServerID == "" {
		log.Debug("no server recorded, nothing to destroy")
		return nil
	}
	defer func() {
		state.ServerID = ""
		state.Hostname = ""
		if err := d.Store.Save(state); err != nil {
			log.Errorf("clearing state: %v", err)
		}
	}()

	server, err := d.Cloud.Server(state.ServerID)
	if err != nil {
		return err
	}
	if server == nil {
		log.Infof("server %s already gone", state.ServerID)
		return nil
	}
	if err := d.Cloud.DeleteServer(state.ServerID); err != nil {
		return err
	}
	log.Infof("server %s destroyed", state.ServerID)
	return nil
}

// serverOpts assembles the create parameters: the configured name or a
// generated one, references resolved to provider ids, and the user-data
// file when configured.
func (d *Driver) serverOpts() (ServerOpts, error) {
	cfg := d.Config
	opts := ServerOpts{
		Name:             cfg.ServerName,
		KeyName:          cfg.KeyName,
		SecurityGroups:   cfg.SecurityGroups,
		AvailabilityZone: cfg.AvailabilityZone,
		ConfigDrive:      cfg.ConfigDrive,
	}
	if opts.Name == "" {
		opts.Name = generateName(defaultNameBase, d.Env)
	}
	if cfg.Image != "" {
		images, err := d.Cloud.Images()
		if err != nil {
			return opts, err
		}
		opts.ImageRef = resolveReference(cfg.Image, images)
	}
	if cfg.Flavor != "" {
		flavors, err := d.Cloud.Flavors()
		if err != nil {
			return opts, err
		}
		opts.FlavorRef = resolveReference(cfg.Flavor, flavors)
	}
	if len(cfg.Network) > 0 {
		networks, err := d.Cloud.Networks()
		if err != nil {
			return opts, err
		}
		for _, ref := range cfg.Network {
			opts.Networks = append(opts.Networks, resolveReference(ref, networks))
		}
	}
	if cfg.UserDataPath != "" {
		data, err := os.ReadFile(cfg.UserDataPath)
		if err != nil {
			return opts, errors.Wrapf(err, "reading user data %s", cfg.UserDataPath)
		}
		opts.UserData = data
	}
	return opts, nil
}

// assignAddress decides how the instance is reached: a floating IP when
// a pool or explicit address is configured, otherwise the best address
// the server already has.
func (d *Driver) assignAddress(server *Server) (string, error) {
	cfg := d.Config
	if cfg.FloatingIPPool != "" || cfg.FloatingIP != "" {
		return attachFloatingIP(d.Cloud, server.ID, cfg.FloatingIPPool, cfg.FloatingIP)
	}
	return selectIP(server, cfg.NetworkName, cfg.UseIPv6)
}

func (d *Driver) bootstrap(shell Shell) error {
	if d.Config.PublicKeyPath == "" {
		return errors.New("no public key configured and none found in ~/.ssh")
	}
	key, err := os.ReadFile(d.Config.PublicKeyPath)
	if err != nil {
		return errors.Wrapf(err, "reading public key %s", d.Config.PublicKeyPath)
	}
	log.Infof("setting up SSH access for key %s", d.Config.PublicKeyPath)
	if err := shell.Run(keySetupCommands(d.Config.SSHUser, string(key))); err != nil {
		return err
	}
	log.Info("adding openstack hint for ohai discovery")
	return shell.Run(hintCommands())
}
