package storage

import "time"

// ServerModel is the GORM model for servers table
type ServerModel struct {
	AuthMethod string `gorm:"not null;default:'key';check:auth_method IN ('key','password')"`
	CreatedAt  time.Time
	Host       string `gorm:"not null"`
	KeyPath    string `gorm:"not null;default:''"`
	Name       string `gorm:"primaryKey"`
	Password   string `gorm:"not null;default:''"`
	Port       int    `gorm:"not null;default:0"`
	UpdatedAt  time.Time
	User       string `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (ServerModel) TableName() string { return "servers" }

// RemoteModel is the GORM model for the named remote base paths of a server
type RemoteModel struct {
	BasePath   string `gorm:"not null"`
	CreatedAt  time.Time
	Name       string `gorm:"primaryKey"`
	ServerName string `gorm:"primaryKey;index:idx_remote_server"`
	UpdatedAt  time.Time
}

// TableName specifies the table name for GORM
func (RemoteModel) TableName() string { return "remotes" }

// RootMappingModel is the GORM model for working-root selections
type RootMappingModel struct {
	CreatedAt   time.Time
	RemoteName  string `gorm:"not null"`
	ServerName  string `gorm:"not null;index:idx_mapping_server"`
	UpdatedAt   time.Time
	WorkingRoot string `gorm:"primaryKey"`
}

// TableName specifies the table name for GORM
func (RootMappingModel) TableName() string { return "root_mappings" }
