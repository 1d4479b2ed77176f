package implementation

import (
	"context"
	"database/sql"
	"fmt"

	fldmodels "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models"
)

type SQLiteMachineRepository struct {
	db *sql.DB
}

func NewSQLiteMachineRepository(db *sql.DB) *SQLiteMachineRepository {
	return &SQLiteMachineRepository{db: db}
}

// Upsert binding (a duplicate machine_id replaces the username)
func (r *SQLiteMachineRepository) Upsert(ctx context.Context, binding fldmodels.MachineBinding) error {
	query := `
		INSERT INTO machines (machine_id, username)
		VALUES (?, ?)
		ON CONFLICT (machine_id)
		DO UPDATE SET username = EXCLUDED.username
	`

	_, err := r.db.ExecContext(ctx, query, binding.MachineID, binding.Username)
	return err
}

// Rename moves the binding to a new machine_id inside one transaction
func (r *SQLiteMachineRepository) Rename(ctx context.Context, oldID, newID, username string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM machines WHERE machine_id = ?`, oldID); err != nil {
		return fmt.Errorf("delete old binding: %w", err)
	}

	query := `
		INSERT INTO machines (machine_id, username)
		VALUES (?, ?)
		ON CONFLICT (machine_id)
		DO UPDATE SET username = EXCLUDED.username
	`
	if _, err := tx.ExecContext(ctx, query, newID, username); err != nil {
		return fmt.Errorf("insert new binding: %w", err)
	}

	return tx.Commit()
}

// Delete binding (no error if absent)
func (r *SQLiteMachineRepository) Delete(ctx context.Context, machineID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM machines WHERE machine_id = ?`, machineID)
	return err
}

func (r *SQLiteMachineRepository) List(ctx context.Context) ([]fldmodels.MachineBinding, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT machine_id, username FROM machines`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bindings := make([]fldmodels.MachineBinding, 0)
	for rows.Next() {
		var binding fldmodels.MachineBinding
		if err := rows.Scan(&binding.MachineID, &binding.Username); err != nil {
			return nil, err
		}
		bindings = append(bindings, binding)
	}

	return bindings, rows.Err()
}
