package domain

import (
	"fmt"
	"net"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// AuthMethod selects how the worker authenticates
type AuthMethod string

const (
	AuthKey      AuthMethod = "key"
	AuthPassword AuthMethod = "password"
)

// ParseAuthMethod converts a user supplied string to an AuthMethod.
// An empty string selects key authentication.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(AuthKey):
		return AuthKey, nil
	case string(AuthPassword):
		return AuthPassword, nil
	default:
		return "", fmt.Errorf("unknown auth method %q (expected key or password)", s)
	}
}

// Server is a configured remote host with its named remote base paths
type Server struct {
	AuthMethod AuthMethod        `yaml:"auth_method"`
	Host       string            `yaml:"host"`
	KeyPath    string            `yaml:"key_path,omitempty"`
	Name       string            `yaml:"name"`
	Password   string            `yaml:"password,omitempty"`
	Port       int               `yaml:"port,omitempty"`
	Remotes    map[string]string `yaml:"remotes,omitempty"`
	User       string            `yaml:"user"`
}

// Address returns host:port, defaulting the port to 22
func (s Server) Address() string {
	if _, _, err := net.SplitHostPort(s.Host); err == nil {
		return s.Host
	}
	port := s.Port
	if port <= 0 {
		port = 22
	}
	return net.JoinHostPort(s.Host, strconv.Itoa(port))
}

// Credential returns the secret handed to the worker for the configured method
func (s Server) Credential() string {
	if s.AuthMethod == AuthPassword {
		return s.Password
	}
	return s.KeyPath
}

// Validate checks the fields required to connect
func (s Server) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("server name is required")
	}
	if s.Host == "" {
		return fmt.Errorf("server %q: host is required", s.Name)
	}
	if s.User == "" {
		return fmt.Errorf("server %q: user is required", s.Name)
	}
	if _, err := ParseAuthMethod(string(s.AuthMethod)); err != nil {
		return fmt.Errorf("server %q: %w", s.Name, err)
	}
	if s.AuthMethod == AuthPassword && s.Password == "" {
		return fmt.Errorf("server %q: password is required for password authentication", s.Name)
	}
	if s.AuthMethod != AuthPassword && s.KeyPath == "" {
		return fmt.Errorf("server %q: key path is required for key authentication", s.Name)
	}
	for name, base := range s.Remotes {
		if !path.IsAbs(base) {
			return fmt.Errorf("server %q: remote %q base path must be absolute, got %q", s.Name, name, base)
		}
	}
	return nil
}

// RootMapping selects the server and remote used for a local working root
type RootMapping struct {
	RemoteName  string `yaml:"remote"`
	ServerName  string `yaml:"server"`
	WorkingRoot string `yaml:"root"`
}

// Target is a resolved server/remote pair for a working root
type Target struct {
	MappingRoot string
	RemoteBase  string
	RemoteName  string
	Server      Server
}

// RemotePath maps a local path under the mapping root to its remote path
func (t Target) RemotePath(localPath string) (string, error) {
	rel, err := filepath.Rel(t.MappingRoot, localPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideRoot, localPath)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is not under %s", ErrPathOutsideRoot, localPath, t.MappingRoot)
	}
	return path.Join(t.RemoteBase, filepath.ToSlash(rel)), nil
}

// DisplayPath returns remotePath relative to the remote base, or its base name
// when it lies outside the base
func (t Target) DisplayPath(remotePath string) string {
	base := strings.TrimSuffix(t.RemoteBase, "/")
	if base != "" && strings.HasPrefix(remotePath, base+"/") {
		return strings.TrimPrefix(remotePath, base+"/")
	}
	return path.Base(remotePath)
}
