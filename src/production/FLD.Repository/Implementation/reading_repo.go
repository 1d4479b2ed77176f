package implementation

import (
	"context"
	"database/sql"
	"fmt"

	fldmodels "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models"
)

type SQLiteReadingRepository struct {
	db *sql.DB
}

func NewSQLiteReadingRepository(db *sql.DB) *SQLiteReadingRepository {
	return &SQLiteReadingRepository{db: db}
}

// CreateReading appends one reading inside a transaction and returns the
// generated id. Commit happens only if the insert fully succeeds.
func (r *SQLiteReadingRepository) CreateReading(ctx context.Context, reading fldmodels.Reading) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO sensor_data (temp, hum, lat, lng, sat, btn, machine_id, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := tx.ExecContext(ctx, query, reading.Temp, reading.Hum,
		reading.Lat, reading.Lng, reading.Sat, reading.Btn, reading.MachineID, reading.Timestamp)
	if err != nil {
		return 0, fmt.Errorf("insert reading: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read generated id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return id, nil
}

// MaxReadingID returns -1 when no reading exists, a sentinel below any real id
func (r *SQLiteReadingRepository) MaxReadingID(ctx context.Context) (int64, error) {
	var maxID sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT MAX(id) FROM sensor_data`).Scan(&maxID)
	if err != nil {
		return 0, err
	}
	if !maxID.Valid {
		return -1, nil
	}
	return maxID.Int64, nil
}

// GetRecentReadings fetches the newest limit rows joined with the machine
// bindings, then reorders them ascending by id for the consumer.
func (r *SQLiteReadingRepository) GetRecentReadings(ctx context.Context, limit int) ([]fldmodels.FeedReading, error) {
	query := `
		SELECT s.id, s.temp, s.hum, s.lat, s.lng, s.sat, s.btn, s.machine_id, s.timestamp, m.username
		FROM sensor_data s
		LEFT JOIN machines m ON s.machine_id = m.machine_id
		ORDER BY s.id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readings := make([]fldmodels.FeedReading, 0, limit)
	for rows.Next() {
		var reading fldmodels.FeedReading
		if err := rows.Scan(&reading.ID, &reading.Temp, &reading.Hum, &reading.Lat,
			&reading.Lng, &reading.Sat, &reading.Btn, &reading.MachineID,
			&reading.Timestamp, &reading.Username); err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query returns newest-first; viewers consume ascending by id.
	for i, j := 0, len(readings)-1; i < j; i, j = i+1, j-1 {
		readings[i], readings[j] = readings[j], readings[i]
	}

	return readings, nil
}

func (r *SQLiteReadingRepository) CountReadings(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sensor_data`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
