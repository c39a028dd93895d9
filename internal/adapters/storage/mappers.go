package storage

import (
	"github.com/renato0307/ferry/internal/domain"
)

// serverModelToDomain converts a ServerModel and its remotes to domain.Server
func serverModelToDomain(m ServerModel, remotes []RemoteModel) domain.Server {
	server := domain.Server{
		AuthMethod: domain.AuthMethod(m.AuthMethod),
		Host:       m.Host,
		KeyPath:    m.KeyPath,
		Name:       m.Name,
		Password:   m.Password,
		Port:       m.Port,
		Remotes:    make(map[string]string, len(remotes)),
		User:       m.User,
	}
	for _, r := range remotes {
		server.Remotes[r.Name] = r.BasePath
	}
	return server
}

// domainToServerModel converts a domain.Server to ServerModel (GORM)
func domainToServerModel(s domain.Server) ServerModel {
	method := string(s.AuthMethod)
	if method == "" {
		method = string(domain.AuthKey)
	}
	return ServerModel{
		AuthMethod: method,
		Host:       s.Host,
		KeyPath:    s.KeyPath,
		Name:       s.Name,
		Password:   s.Password,
		Port:       s.Port,
		User:       s.User,
	}
}

// rootMappingModelToDomain converts a RootMappingModel to domain.RootMapping
func rootMappingModelToDomain(m RootMappingModel) domain.RootMapping {
	return domain.RootMapping{
		RemoteName:  m.RemoteName,
		ServerName:  m.ServerName,
		WorkingRoot: m.WorkingRoot,
	}
}

// domainToRootMappingModel converts a domain.RootMapping to RootMappingModel
func domainToRootMappingModel(m domain.RootMapping) RootMappingModel {
	return RootMappingModel{
		RemoteName:  m.RemoteName,
		ServerName:  m.ServerName,
		WorkingRoot: m.WorkingRoot,
	}
}
