package config

import (
	"context"
	"fmt"

	"github.com/brequin/brequin/regplan/db"
)

const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type StorageConfig struct {
	Driver string `yaml:"driver"`
	// Path of the CSV file or SQLite database.
	Path string `yaml:"path"`
	DSN  string `yaml:"dsn"`
}

func (c StorageConfig) Validate() error {
	switch c.Driver {
	case DriverCSV, DriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("storage path is required for the %v driver", c.Driver)
		}
	case DriverPostgres:
		if c.DSN == "" {
			return fmt.Errorf("storage dsn or %v is required for the postgres driver", DatabaseConnectionStringEnv)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
	return nil
}

// Open returns the configured row store and a function releasing it.
func (c StorageConfig) Open(ctx context.Context) (db.RowStore, func(), error) {
	switch c.Driver {
	case DriverCSV:
		return db.NewTable(c.Path), func() {}, nil
	case DriverSQLite:
		lite, err := db.OpenLite(ctx, c.Path)
		if err != nil {
			return nil, nil, err
		}
		return lite, func() { lite.Close() }, nil
	case DriverPostgres:
		database, err := db.Connect(ctx, c.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := database.CreateTables(ctx); err != nil {
			database.Close()
			return nil, nil, err
		}
		return database, database.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", c.Driver)
}
