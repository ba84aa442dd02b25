package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Database struct {
	Pool *pgxpool.Pool
}

func Connect(ctx context.Context, connectionString string) (*Database, error) {
	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database: %w", err)
	}
	return &Database{Pool: pool}, nil
}

func (d *Database) Close() {
	d.Pool.Close()
}

func FormatOptionalGroup(group int) *int {
	if group == NoGroup {
		return nil
	}
	return &group
}

func FormatOptionalCondition(condition Condition) *string {
	if condition == ConditionNone || condition == "" {
		return nil
	}
	s := string(condition)
	return &s
}
