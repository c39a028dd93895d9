// Package sftpclient opens authenticated SFTP sessions over SSH.
package sftpclient

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/renato0307/ferry/internal/domain"
	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/paths"
	"github.com/renato0307/ferry/internal/ports"
)

const (
	defaultDialTimeout = 15 * time.Second
	defaultKeepAlive   = 30 * time.Second
	keepAliveRequest   = "keepalive@openssh.com"
)

// Dialer opens SFTP sessions. The zero value skips host key verification.
type Dialer struct {
	// KeepAlive is the interval between keepalive requests. Zero uses the
	// default; a negative value disables them.
	KeepAlive time.Duration
	// KnownHostsPath enables host key verification when set
	KnownHostsPath string
	Timeout        time.Duration
}

// Verify interface compliance at compile time
var _ ports.TransferDialer = (*Dialer)(nil)

// NewDialer creates a new Dialer
func NewDialer(knownHostsPath string) *Dialer {
	return &Dialer{
		KeepAlive:      defaultKeepAlive,
		KnownHostsPath: knownHostsPath,
		Timeout:        defaultDialTimeout,
	}
}

// Dial connects, authenticates and starts the sftp subsystem
func (d *Dialer) Dial(ctx context.Context, creds ports.Credentials) (ports.Transfer, error) {
	config, err := d.buildClientConfig(creds)
	if err != nil {
		return nil, err
	}

	addr := hostAddress(creds.Host)
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	netConn, err := (&net.Dialer{}).DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("Failed to connect to %s: %w", addr, err)
	}
	if deadline, ok := dialCtx.Deadline(); ok {
		_ = netConn.SetDeadline(deadline)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, addr, config)
	if err != nil {
		netConn.Close()
		return nil, fmt.Errorf("SSH handshake failed for %s: %w", addr, err)
	}
	_ = netConn.SetDeadline(time.Time{})
	sshClient := ssh.NewClient(sshConn, chans, reqs)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("Failed to start SFTP subsystem: %w", err)
	}

	logging.Logger.Info("SFTP session established", "addr", addr, "user", creds.Username)
	if d.KeepAlive >= 0 {
		interval := d.KeepAlive
		if interval == 0 {
			interval = defaultKeepAlive
		}
		go keepAlive(sshClient, interval)
	}
	return NewTransfer(client, sshClient), nil
}

func (d *Dialer) buildClientConfig(creds ports.Credentials) (*ssh.ClientConfig, error) {
	var auth []ssh.AuthMethod
	switch creds.Method {
	case domain.AuthPassword:
		auth = append(auth, ssh.Password(creds.Secret))
	default:
		keyAuth, err := readPrivateKey(creds.Secret)
		if err != nil {
			return nil, fmt.Errorf("Failed to load private key: %w", err)
		}
		auth = append(auth, keyAuth)
	}

	hostKeyCallback, err := d.hostKeyCallback()
	if err != nil {
		return nil, err
	}

	return &ssh.ClientConfig{
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         d.Timeout,
		User:            creds.Username,
	}, nil
}

func (d *Dialer) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if d.KnownHostsPath == "" {
		logging.Logger.Warn("Host key verification disabled")
		return ssh.InsecureIgnoreHostKey(), nil
	}
	callback, err := knownhosts.New(paths.ExpandPath(d.KnownHostsPath))
	if err != nil {
		return nil, fmt.Errorf("Failed to load known hosts: %w", err)
	}
	return callback, nil
}

func readPrivateKey(path string) (ssh.AuthMethod, error) {
	data, err := os.ReadFile(paths.ExpandPath(strings.TrimSpace(path)))
	if err != nil {
		return nil, err
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		if strings.Contains(err.Error(), "passphrase") {
			return nil, fmt.Errorf("encrypted private keys are not supported: %w", err)
		}
		return nil, err
	}
	return ssh.PublicKeys(signer), nil
}

// hostAddress adds the default ssh port when host has none
func hostAddress(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, "22")
}

// keepAlive probes the connection and closes it when the peer stops answering
func keepAlive(client *ssh.Client, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if _, _, err := client.SendRequest(keepAliveRequest, true, nil); err != nil {
			logging.Logger.Warn("Keepalive failed, closing connection", "error", err)
			client.Close()
			return
		}
	}
}
