package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/lville-gis/internal/config"
)

// Connection holds the database connection
type Connection struct {
	DB *sql.DB
}

// Settings describes how to reach the Postgres instance holding the
// parcel and address tables
type Settings struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConnections int
}

// SettingsFromEnv reads DB_* variables
func SettingsFromEnv() Settings {
	return Settings{
		Host:           config.GetEnv("DB_HOST", "localhost"),
		Port:           config.GetEnv("DB_PORT", "5432"),
		User:           config.GetEnv("DB_USER", "gisadmin"),
		Password:       config.GetEnv("DB_PASSWORD", ""),
		Name:           config.GetEnv("DB_NAME", "city_gis"),
		SSLMode:        config.GetEnv("DB_SSLMODE", "disable"),
		MaxConnections: config.GetEnvInt("DB_MAX_CONNECTIONS", 10),
	}
}

// DSN renders the settings as a lib/pq keyword/value connection string
func (s Settings) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		s.Host, s.Port, s.User, s.Password, s.Name, s.SSLMode)
}

// NewConnection opens and pings a database connection
func NewConnection(ctx context.Context, s Settings) (*Connection, error) {
	db, err := sql.Open("postgres", s.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	maxConns := s.MaxConnections
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns / 2)
	db.SetConnMaxLifetime(time.Hour)

	return &Connection{DB: db}, nil
}

// Close closes the database connection
func (c *Connection) Close() error {
	return c.DB.Close()
}
