// Package sshexec waits for a freshly booted server to accept SSH
// connections and runs bootstrap commands on it.
package sshexec

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

// dialTimeout bounds a single connection attempt.
const dialTimeout = 5 * time.Second

// UnreachableError reports that the SSH port never opened before the
// wait deadline.
type UnreachableError struct {
	Addr string
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("shell at %s never became reachable", e.Addr)
}

// Client runs commands on a remote host over SSH. Authentication
// prefers the private key and falls back to the password.
type Client struct {
	Host     string
	Port     int
	User     string
	Password string
	KeyPath  string
}

func (c *Client) addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Wait blocks until the SSH port accepts TCP connections, probing once
// per second. It returns an UnreachableError when the timeout passes
// and ctx.Err when the context is canceled first.
func (c *Client) Wait(ctx context.Context, timeout time.Duration) error {
	addr := c.addr()
	deadline := time.Now().Add(timeout)
	log.Infof("waiting for SSH on %s", addr)
	for {
		conn, err := net.DialTimeout("tcp", addr, dialTimeout)
		if err == nil {
			conn.Close()
			return nil
		}
		log.Debugf("ssh not ready on %s: %v", addr, err)
		if time.Now().After(deadline) {
			return &UnreachableError{Addr: addr}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

// Run executes the commands in order over one SSH connection and stops
// at the first failure.
func (c *Client) Run(commands []string) error {
	config, err := c.clientConfig()
	if err != nil {
		return err
	}
	client, err := ssh.Dial("tcp", c.addr(), config)
	if err != nil {
		return errors.Wrapf(err, "connecting to %s", c.addr())
	}
	defer client.Close()

	for _, command := range commands {
		if err := runCommand(client, command); err != nil {
			return err
		}
	}
	return nil
}

func runCommand(client *ssh.Client, command string) error {
	session, err := client.NewSession()
	if err != nil {
		return errors.Wrap(err, "creating SSH session")
	}
	defer session.Close()

	log.Debugf("running %q", command)
	output, err := session.CombinedOutput(command)
	if len(output) > 0 {
		log.Debugf("output: %s", output)
	}
	return errors.Wrapf(err, "running %q", command)
}

func (c *Client) clientConfig() (*ssh.ClientConfig, error) {
	var methods []ssh.AuthMethod
	if c.KeyPath != "" {
		signer, err := loadSigner(c.KeyPath)
		if err != nil {
			log.Debugf("skipping private key %s: %v", c.KeyPath, err)
		} else {
			methods = append(methods, ssh.PublicKeys(signer))
		}
	}
	if c.Password != "" {
		methods = append(methods, ssh.Password(c.Password))
	}
	if len(methods) == 0 {
		return nil, errors.New("no SSH credentials: no admin password returned and no usable private key")
	}
	return &ssh.ClientConfig{
		User:            c.User,
		Auth:            methods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}, nil
}

func loadSigner(path string) (ssh.Signer, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ssh.ParsePrivateKey(buf)
}
