package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/buyzaar/storefront/pkg/config"
	"github.com/buyzaar/storefront/pkg/logger"
)

// Entry is one persisted state slot: a JSON value under a well-known key.
type Entry struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     []byte    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default gorm pluralization.
func (Entry) TableName() string {
	return "state_entries"
}

// Store is the durable client-state container. Each state owner (cart,
// favorites, user, theme) serializes its whole value under a single key;
// derived data is never stored.
type Store struct {
	conn *gorm.DB
	logg *logger.Logger
}

// Open boots the sqlite-backed store and ensures the schema exists.
func Open(ctx context.Context, cfg config.StorageConfig, logg *logger.Logger) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening state store: %w", err)
	}

	if err := conn.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating state store: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "state store opened")
	}

	return &Store{conn: conn, logg: logg}, nil
}

// Load hydrates dest from the value stored under key. A missing row or a
// corrupt payload degrades to the zero value: dest is left untouched and the
// first return is false. Only infrastructure failures surface as errors.
func (s *Store) Load(ctx context.Context, key config.StorageKey, dest any) (bool, error) {
	var entry Entry
	err := s.conn.WithContext(ctx).First(&entry, "key = ?", string(key)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading %s: %w", key, err)
	}

	if err := json.Unmarshal(entry.Value, dest); err != nil {
		if s.logg != nil {
			ctx = s.logg.WithField(ctx, "key", string(key))
			s.logg.Warn(ctx, "discarding corrupt persisted state")
		}
		return false, nil
	}
	return true, nil
}

// Save serializes value as JSON and upserts it under key.
func (s *Store) Save(ctx context.Context, key config.StorageKey, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	entry := Entry{Key: string(key), Value: payload, UpdatedAt: time.Now().UTC()}
	return s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).
		Error
}

// Delete removes the slot if present.
func (s *Store) Delete(ctx context.Context, key config.StorageKey) error {
	return s.conn.WithContext(ctx).Delete(&Entry{}, "key = ?", string(key)).Error
}

// Ping verifies the datasource is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
