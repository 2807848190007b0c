package db

import (
	"fmt"

	"inventory/internal/config"
	"inventory/internal/domain/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		gdb, err := gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		// sqliteは書き込みが1本だけ。コネクションも1本にして直列化する
		// （:memory: はコネクションごとに別DBになるのでこれが必須）
		sqlDB.SetMaxOpenConns(1)
		return gdb, nil

	case config.DriverPostgres:
		return gorm.Open(postgres.Open(postgresDSN(cfg)), gormCfg)
	}

	return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
}

// Migrate はテーブルが無ければ作る。何度呼んでもよい
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.Customer{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.Supplier{},
		&model.InventoryAdjustment{},
	)
}

func postgresDSN(cfg config.DatabaseConfig) string {
	// DATABASE_URL があれば最優先で使う
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
	)
}
