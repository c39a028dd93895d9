package ports

import (
	"context"

	"github.com/renato0307/ferry/internal/domain"
)

// ServerReader reads configured servers
type ServerReader interface {
	GetServer(ctx context.Context, name string) (*domain.Server, error)
	ListServers(ctx context.Context) ([]domain.Server, error)
}

// ServerWriter creates, updates and deletes servers and their remotes
type ServerWriter interface {
	DeleteRemote(ctx context.Context, serverName, remoteName string) error
	DeleteServer(ctx context.Context, name string) error
	SaveServer(ctx context.Context, server domain.Server) error
	SetRemote(ctx context.Context, serverName, remoteName, basePath string) error
}

// RootMappingStore persists working-root selections
type RootMappingStore interface {
	DeleteRootMapping(ctx context.Context, workingRoot string) error
	GetRootMapping(ctx context.Context, workingRoot string) (*domain.RootMapping, error)
	ListRootMappings(ctx context.Context) ([]domain.RootMapping, error)
	SetRootMapping(ctx context.Context, mapping domain.RootMapping) error
}

// ServerRepository is the composite interface
type ServerRepository interface {
	ServerReader
	ServerWriter
	RootMappingStore
	Close() error
}

// TargetResolver resolves the server and remote for a working root
type TargetResolver interface {
	ResolveTarget(ctx context.Context, workingRoot string) (*domain.Target, error)
}
