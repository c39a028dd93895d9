package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/renato0307/ferry/internal/domain"
	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/ports"
)

// ServerService manages servers, their remotes and working-root selections
type ServerService struct {
	mappings     ports.RootMappingStore
	serverReader ports.ServerReader
	serverWriter ports.ServerWriter
}

// Verify interface compliance at compile time
var _ ports.TargetResolver = (*ServerService)(nil)

// NewServerService creates a new ServerService
func NewServerService(
	serverReader ports.ServerReader,
	serverWriter ports.ServerWriter,
	mappings ports.RootMappingStore,
) *ServerService {
	return &ServerService{
		mappings:     mappings,
		serverReader: serverReader,
		serverWriter: serverWriter,
	}
}

// AddServer validates and saves a server, replacing one with the same name.
// Remotes carried by server are added; existing remotes are kept.
func (s *ServerService) AddServer(ctx context.Context, server domain.Server) error {
	if server.AuthMethod == "" {
		server.AuthMethod = domain.AuthKey
	}
	if err := server.Validate(); err != nil {
		return err
	}
	if err := s.serverWriter.SaveServer(ctx, server); err != nil {
		return fmt.Errorf("failed to save server %s: %w", server.Name, err)
	}
	logging.Logger.Info("Server saved", "server", server.Name, "host", server.Host)
	return nil
}

// GetServer returns a server by name
func (s *ServerService) GetServer(ctx context.Context, name string) (*domain.Server, error) {
	return s.serverReader.GetServer(ctx, name)
}

// ListServers returns every configured server
func (s *ServerService) ListServers(ctx context.Context) ([]domain.Server, error) {
	return s.serverReader.ListServers(ctx)
}

// DeleteServer removes a server and every working-root mapping that uses it
func (s *ServerService) DeleteServer(ctx context.Context, name string) error {
	if err := s.serverWriter.DeleteServer(ctx, name); err != nil {
		return err
	}
	return s.dropMappings(ctx, func(m domain.RootMapping) bool {
		return m.ServerName == name
	})
}

// SetRemote adds or updates a named remote base path on a server
func (s *ServerService) SetRemote(ctx context.Context, serverName, remoteName, basePath string) error {
	if remoteName == "" {
		return fmt.Errorf("remote name is required")
	}
	if !path.IsAbs(basePath) {
		return fmt.Errorf("remote base path must be absolute, got %q", basePath)
	}
	if _, err := s.serverReader.GetServer(ctx, serverName); err != nil {
		return err
	}
	if err := s.serverWriter.SetRemote(ctx, serverName, remoteName, path.Clean(basePath)); err != nil {
		return fmt.Errorf("failed to set remote %s on %s: %w", remoteName, serverName, err)
	}
	logging.Logger.Info("Remote saved", "server", serverName, "remote", remoteName, "base", basePath)
	return nil
}

// DeleteRemote removes a remote and every working-root mapping that uses it
func (s *ServerService) DeleteRemote(ctx context.Context, serverName, remoteName string) error {
	if err := s.serverWriter.DeleteRemote(ctx, serverName, remoteName); err != nil {
		return err
	}
	return s.dropMappings(ctx, func(m domain.RootMapping) bool {
		return m.ServerName == serverName && m.RemoteName == remoteName
	})
}

// Use selects the server and remote for a working root
func (s *ServerService) Use(ctx context.Context, workingRoot, serverName, remoteName string) (domain.RootMapping, error) {
	root, err := canonicalRoot(workingRoot)
	if err != nil {
		return domain.RootMapping{}, err
	}

	server, err := s.serverReader.GetServer(ctx, serverName)
	if err != nil {
		return domain.RootMapping{}, err
	}
	if _, ok := server.Remotes[remoteName]; !ok {
		return domain.RootMapping{}, fmt.Errorf("%w: %s on server %s", domain.ErrRemoteNotFound, remoteName, serverName)
	}

	mapping := domain.RootMapping{
		RemoteName:  remoteName,
		ServerName:  serverName,
		WorkingRoot: root,
	}
	if err := s.mappings.SetRootMapping(ctx, mapping); err != nil {
		return domain.RootMapping{}, fmt.Errorf("failed to save mapping for %s: %w", root, err)
	}
	logging.Logger.Info("Working root mapped", "root", root, "server", serverName, "remote", remoteName)
	return mapping, nil
}

// Unuse clears the selection for a working root
func (s *ServerService) Unuse(ctx context.Context, workingRoot string) error {
	root, err := canonicalRoot(workingRoot)
	if err != nil {
		return err
	}
	return s.mappings.DeleteRootMapping(ctx, root)
}

// ListMappings returns every working-root selection
func (s *ServerService) ListMappings(ctx context.Context) ([]domain.RootMapping, error) {
	return s.mappings.ListRootMappings(ctx)
}

// ResolveTarget finds the mapping for workingRoot or its nearest mapped
// ancestor and resolves the server and remote base path
func (s *ServerService) ResolveTarget(ctx context.Context, workingRoot string) (*domain.Target, error) {
	root, err := canonicalRoot(workingRoot)
	if err != nil {
		return nil, err
	}

	for dir := root; ; {
		mapping, err := s.mappings.GetRootMapping(ctx, dir)
		switch {
		case err == nil:
			return s.targetFor(ctx, dir, mapping)
		case !errors.Is(err, domain.ErrNoServerSelected):
			return nil, fmt.Errorf("failed to read mapping for %s: %w", dir, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNoServerSelected, root)
}

func (s *ServerService) targetFor(ctx context.Context, mappingRoot string, mapping *domain.RootMapping) (*domain.Target, error) {
	server, err := s.serverReader.GetServer(ctx, mapping.ServerName)
	if err != nil {
		return nil, err
	}
	base, ok := server.Remotes[mapping.RemoteName]
	if !ok {
		return nil, fmt.Errorf("%w: %s on server %s", domain.ErrRemoteNotFound, mapping.RemoteName, server.Name)
	}

	logging.Logger.Debug("Resolved target",
		"mapping_root", mappingRoot,
		"server", server.Name,
		"remote", mapping.RemoteName)
	return &domain.Target{
		MappingRoot: mappingRoot,
		RemoteBase:  base,
		RemoteName:  mapping.RemoteName,
		Server:      *server,
	}, nil
}

// ImportServers saves every server, stopping at the first invalid one
func (s *ServerService) ImportServers(ctx context.Context, servers []domain.Server) (int, error) {
	for i, server := range servers {
		if err := s.AddServer(ctx, server); err != nil {
			return i, err
		}
	}
	return len(servers), nil
}

func (s *ServerService) dropMappings(ctx context.Context, match func(domain.RootMapping) bool) error {
	mappings, err := s.mappings.ListRootMappings(ctx)
	if err != nil {
		return fmt.Errorf("failed to list mappings: %w", err)
	}
	for _, m := range mappings {
		if !match(m) {
			continue
		}
		if err := s.mappings.DeleteRootMapping(ctx, m.WorkingRoot); err != nil {
			return fmt.Errorf("failed to delete mapping for %s: %w", m.WorkingRoot, err)
		}
		logging.Logger.Info("Mapping removed", "root", m.WorkingRoot)
	}
	return nil
}

func canonicalRoot(workingRoot string) (string, error) {
	if workingRoot == "" {
		return "", fmt.Errorf("working root is required")
	}
	abs, err := filepath.Abs(workingRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", workingRoot, err)
	}
	return filepath.Clean(abs), nil
}
