package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/renato0307/ferry/internal/domain"
	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/ports"
)

const maxRetries = 3

// SQLiteRepository implements ports.ServerRepository using GORM
type SQLiteRepository struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ ports.ServerRepository = (*SQLiteRepository)(nil)

// gormLogger wraps the ferry logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		logging.Logger.Error("gorm query error", "error", err, "duration", elapsed, "sql", sql, "rows", rows)
	case elapsed > 200*time.Millisecond:
		logging.Logger.Warn("slow query", "duration", elapsed, "sql", sql, "rows", rows)
	default:
		logging.Logger.Debug("gorm query", "duration", elapsed, "sql", sql, "rows", rows)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("FERRY_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// NewSQLiteRepository opens (and migrates) the database at dbPath
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:      newGormLogger(),
		NowFunc:     func() time.Time { return time.Now().UTC() },
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Several ferry processes may share the database
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")

	if err := db.AutoMigrate(&ServerModel{}, &RemoteModel{}, &RootMappingModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(0)

	logging.Logger.Debug("Database opened", "path", dbPath)
	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetServer implements ServerReader.GetServer
func (r *SQLiteRepository) GetServer(ctx context.Context, name string) (*domain.Server, error) {
	var server ServerModel
	var remotes []RemoteModel

	err := withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("name = ?", name).First(&server).Error; err != nil {
				return err
			}
			return tx.Where("server_name = ?", name).Order("name").Find(&remotes).Error
		})
	}, maxRetries)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrServerNotFound, name)
		}
		return nil, err
	}

	result := serverModelToDomain(server, remotes)
	return &result, nil
}

// ListServers implements ServerReader.ListServers
func (r *SQLiteRepository) ListServers(ctx context.Context) ([]domain.Server, error) {
	var servers []ServerModel
	var remotes []RemoteModel

	err := withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Order("name").Find(&servers).Error; err != nil {
				return err
			}
			return tx.Order("server_name, name").Find(&remotes).Error
		})
	}, maxRetries)
	if err != nil {
		return nil, err
	}

	byServer := make(map[string][]RemoteModel, len(servers))
	for _, remote := range remotes {
		byServer[remote.ServerName] = append(byServer[remote.ServerName], remote)
	}
	result := make([]domain.Server, 0, len(servers))
	for _, server := range servers {
		result = append(result, serverModelToDomain(server, byServer[server.Name]))
	}
	return result, nil
}

// SaveServer implements ServerWriter.SaveServer. Remotes on server are
// upserted; remotes not listed are kept.
func (r *SQLiteRepository) SaveServer(ctx context.Context, server domain.Server) error {
	model := domainToServerModel(server)
	return withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"auth_method", "host", "key_path", "password", "port", "updated_at", "user"}),
			}).Create(&model).Error; err != nil {
				return fmt.Errorf("failed to save server %s: %w", server.Name, err)
			}
			for name, base := range server.Remotes {
				if err := upsertRemote(tx, server.Name, name, base); err != nil {
					return err
				}
			}
			return nil
		})
	}, maxRetries)
}

// DeleteServer implements ServerWriter.DeleteServer
func (r *SQLiteRepository) DeleteServer(ctx context.Context, name string) error {
	return withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Where("name = ?", name).Delete(&ServerModel{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", domain.ErrServerNotFound, name)
			}
			if err := tx.Where("server_name = ?", name).Delete(&RemoteModel{}).Error; err != nil {
				return fmt.Errorf("failed to delete remotes of %s: %w", name, err)
			}
			return nil
		})
	}, maxRetries)
}

// SetRemote implements ServerWriter.SetRemote
func (r *SQLiteRepository) SetRemote(ctx context.Context, serverName, remoteName, basePath string) error {
	return withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&ServerModel{}).Where("name = ?", serverName).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("%w: %s", domain.ErrServerNotFound, serverName)
			}
			return upsertRemote(tx, serverName, remoteName, basePath)
		})
	}, maxRetries)
}

// DeleteRemote implements ServerWriter.DeleteRemote
func (r *SQLiteRepository) DeleteRemote(ctx context.Context, serverName, remoteName string) error {
	return withRetry(func() error {
		result := r.db.WithContext(ctx).
			Where("server_name = ? AND name = ?", serverName, remoteName).
			Delete(&RemoteModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s on server %s", domain.ErrRemoteNotFound, remoteName, serverName)
		}
		return nil
	}, maxRetries)
}

// GetRootMapping implements RootMappingStore.GetRootMapping
func (r *SQLiteRepository) GetRootMapping(ctx context.Context, workingRoot string) (*domain.RootMapping, error) {
	var model RootMappingModel
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Where("working_root = ?", workingRoot).First(&model).Error
	}, maxRetries)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoServerSelected, workingRoot)
		}
		return nil, err
	}
	result := rootMappingModelToDomain(model)
	return &result, nil
}

// ListRootMappings implements RootMappingStore.ListRootMappings
func (r *SQLiteRepository) ListRootMappings(ctx context.Context) ([]domain.RootMapping, error) {
	var models []RootMappingModel
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Order("working_root").Find(&models).Error
	}, maxRetries)
	if err != nil {
		return nil, err
	}
	result := make([]domain.RootMapping, 0, len(models))
	for _, m := range models {
		result = append(result, rootMappingModelToDomain(m))
	}
	return result, nil
}

// SetRootMapping implements RootMappingStore.SetRootMapping
func (r *SQLiteRepository) SetRootMapping(ctx context.Context, mapping domain.RootMapping) error {
	model := domainToRootMappingModel(mapping)
	return withRetry(func() error {
		return r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "working_root"}},
			DoUpdates: clause.AssignmentColumns([]string{"remote_name", "server_name", "updated_at"}),
		}).Create(&model).Error
	}, maxRetries)
}

// DeleteRootMapping implements RootMappingStore.DeleteRootMapping
func (r *SQLiteRepository) DeleteRootMapping(ctx context.Context, workingRoot string) error {
	return withRetry(func() error {
		result := r.db.WithContext(ctx).Where("working_root = ?", workingRoot).Delete(&RootMappingModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", domain.ErrNoServerSelected, workingRoot)
		}
		return nil
	}, maxRetries)
}

func upsertRemote(tx *gorm.DB, serverName, remoteName, basePath string) error {
	remote := RemoteModel{BasePath: basePath, Name: remoteName, ServerName: serverName}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "server_name"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"base_path", "updated_at"}),
	}).Create(&remote).Error
	if err != nil {
		return fmt.Errorf("failed to save remote %s on %s: %w", remoteName, serverName, err)
	}
	return nil
}

// withRetry retries operations on SQLITE_BUSY with linear backoff
func withRetry(fn func() error, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries", maxRetries)
}
