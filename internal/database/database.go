package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nordlayer/printing-platform/pkg/models"
)

// New opens a gorm connection for the configured DSN. DSNs with a
// sqlite:// scheme (or a bare file path when driver is "sqlite") use the
// sqlite driver, anything else is treated as Postgres.
func New(driver, dsn string, maxOpen, maxIdle int, connMaxLife time.Duration) (*gorm.DB, error) {
	if driver == "sqlite" || strings.HasPrefix(dsn, "sqlite://") {
		return NewSQLiteDB(strings.TrimPrefix(dsn, "sqlite://"))
	}
	return NewPostgresDB(dsn, maxOpen, maxIdle, connMaxLife)
}

// NewPostgresDB creates a new PostgreSQL database connection with pooling.
func NewPostgresDB(dsn string, maxOpen, maxIdle int, connMaxLife time.Duration) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	if maxOpen == 0 {
		maxOpen = 25
	}
	if maxIdle == 0 {
		maxIdle = 5
	}
	if connMaxLife == 0 {
		connMaxLife = time.Hour
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(connMaxLife)
	sqlDB.SetConnMaxIdleTime(15 * time.Minute)

	return db, nil
}

// NewSQLiteDB opens a file-backed sqlite database, the development default.
func NewSQLiteDB(path string) (*gorm.DB, error) {
	if path == "" {
		path = "printing_platform.db"
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema for all platform entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectImage{},
		&models.Service{},
		&models.Order{},
		&models.OrderFile{},
		&models.Article{},
		&models.Category{},
		&models.Color{},
		&models.Review{},
		&models.ContactRequest{},
		&models.Content{},
		&models.Page{},
		&models.SiteSetting{},
	)
}

// NewRedisClient creates a new Redis client and verifies connectivity.
func NewRedisClient(address, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
