package mysql

import (
	"context"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Mysql struct {
	Client *gorm.DB
	config *Config
}

type Option func(*Mysql)

// New opens a gorm handle for the given settings. The underlying pool
// connects lazily; call Ping to verify reachability.
func New(c *Config, opts ...Option) (*Mysql, error) {
	m := &Mysql{
		config: c,
	}

	if err := m.config.init(); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(m)
	}

	client, err := gorm.Open(mysql.New(mysql.Config{
		DSN: m.config.dsn(),
		// Defer dialing until the first query or an explicit Ping.
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.LogLevel(m.config.LogLevel())),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, err
	}
	m.Client = client

	sqlDB, err := m.Client.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(m.config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(m.config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(m.config.ConnMaxLifetime) * time.Second)

	return m, nil
}

func (m *Mysql) Ping(ctx context.Context) error {
	sqlDB, err := m.Client.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (m *Mysql) Close() error {
	if m.Client == nil {
		return nil
	}

	sqlDB, err := m.Client.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
