package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const createLiteRequirementRows = `CREATE TABLE IF NOT EXISTS requirement_rows (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	group_id INTEGER NOT NULL,
	condition TEXT NOT NULL,
	course TEXT NOT NULL,
	related_group INTEGER,
	prereq TEXT NOT NULL,
	group_condition TEXT
)`

const insertLiteRequirementRow = `INSERT INTO requirement_rows (group_id, condition, course, related_group, prereq, group_condition) VALUES (?, ?, ?, ?, ?, ?)`

// Lite stores rows in a SQLite database.
type Lite struct {
	DB *sql.DB
}

func OpenLite(ctx context.Context, path string) (*Lite, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %v: %w", path, err)
	}
	// A single connection keeps ":memory:" databases alive across calls
	database.SetMaxOpenConns(1)

	if _, err := database.ExecContext(ctx, createLiteRequirementRows); err != nil {
		database.Close()
		return nil, fmt.Errorf("cannot create requirement_rows: %w", err)
	}
	return &Lite{DB: database}, nil
}

func (l *Lite) Close() error {
	return l.DB.Close()
}

func (l *Lite) InsertRows(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertLiteRows(ctx, tx, rows); err != nil {
		return err
	}
	return tx.Commit()
}

func (l *Lite) ReplaceRows(ctx context.Context, rows []Row) error {
	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteRequirementRows); err != nil {
		return err
	}
	if err := insertLiteRows(ctx, tx, rows); err != nil {
		return err
	}
	return tx.Commit()
}

func (l *Lite) ListRows(ctx context.Context) ([]Row, error) {
	rows, err := l.DB.QueryContext(ctx, listRequirementRows)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var row Row
		var condition string
		var relatedGroup sql.NullInt64
		var groupCondition sql.NullString
		if err := rows.Scan(&row.Group, &condition, &row.Course, &relatedGroup, &row.Prereq, &groupCondition); err != nil {
			return nil, err
		}

		if row.Condition, err = ParseCondition(condition); err != nil {
			return nil, err
		}
		if relatedGroup.Valid {
			row.RelatedGroup = int(relatedGroup.Int64)
		}
		row.GroupCondition = ConditionNone
		if groupCondition.Valid {
			if row.GroupCondition, err = ParseCondition(groupCondition.String); err != nil {
				return nil, err
			}
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func insertLiteRows(ctx context.Context, tx *sql.Tx, rows []Row) error {
	statement, err := tx.PrepareContext(ctx, insertLiteRequirementRow)
	if err != nil {
		return err
	}
	defer statement.Close()

	for _, row := range rows {
		_, err := statement.ExecContext(ctx,
			row.Group,
			string(row.Condition),
			row.Course,
			FormatOptionalGroup(row.RelatedGroup),
			row.Prereq,
			FormatOptionalCondition(row.GroupCondition),
		)
		if err != nil {
			return fmt.Errorf("cannot insert row for %v: %w", row.Prereq, err)
		}
	}
	return nil
}
