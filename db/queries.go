package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const createRequirementRows = `CREATE TABLE IF NOT EXISTS requirement_rows (
	id BIGSERIAL PRIMARY KEY,
	group_id INTEGER NOT NULL,
	condition TEXT NOT NULL,
	course TEXT NOT NULL,
	related_group INTEGER,
	prereq TEXT NOT NULL,
	group_condition TEXT
)`

const listRequirementRows = `SELECT group_id, condition, course, related_group, prereq, group_condition FROM requirement_rows ORDER BY id`
const insertRequirementRow = `INSERT INTO requirement_rows (group_id, condition, course, related_group, prereq, group_condition) VALUES ($1, $2, $3, $4, $5, $6)`
const deleteRequirementRows = `DELETE FROM requirement_rows`

func insertCallback(ct pgconn.CommandTag) error {
	return nil
}

func (d *Database) CreateTables(ctx context.Context) error {
	if _, err := d.Pool.Exec(ctx, createRequirementRows); err != nil {
		return fmt.Errorf("cannot create requirement_rows: %w", err)
	}
	return nil
}

func (d *Database) ListRows(ctx context.Context) ([]Row, error) {
	rows, err := d.Pool.Query(ctx, listRequirementRows)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var row Row
		var condition string
		var relatedGroup *int
		var groupCondition *string
		if err := rows.Scan(&row.Group, &condition, &row.Course, &relatedGroup, &row.Prereq, &groupCondition); err != nil {
			return nil, err
		}

		if row.Condition, err = ParseCondition(condition); err != nil {
			return nil, err
		}
		if relatedGroup != nil {
			row.RelatedGroup = *relatedGroup
		}
		row.GroupCondition = ConditionNone
		if groupCondition != nil {
			if row.GroupCondition, err = ParseCondition(*groupCondition); err != nil {
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

func queueRows(batch *pgx.Batch, rows []Row) {
	var queuedQueries []*pgx.QueuedQuery

	for _, row := range rows {
		queuedQueries = append(queuedQueries, batch.Queue(
			insertRequirementRow,
			row.Group,
			string(row.Condition),
			row.Course,
			FormatOptionalGroup(row.RelatedGroup),
			row.Prereq,
			FormatOptionalCondition(row.GroupCondition),
		))
	}

	for _, queuedQuery := range queuedQueries {
		queuedQuery.Exec(insertCallback)
	}
}

func (d *Database) InsertRows(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	batch := pgx.Batch{}
	queueRows(&batch, rows)

	if err := d.Pool.SendBatch(ctx, &batch).Close(); err != nil {
		return err
	}

	return nil
}

func (d *Database) ReplaceRows(ctx context.Context, rows []Row) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := pgx.Batch{}
	batch.Queue(deleteRequirementRows)
	queueRows(&batch, rows)

	if err := tx.SendBatch(ctx, &batch).Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
