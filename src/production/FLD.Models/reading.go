package fldmodels

import "time"

// Reading represents one persisted telemetry reading. All sensor fields are
// nullable: a device reports only the metrics it has. Btn is tri-state
// (0 = normal, 1 = alarm, nil = unknown).
type Reading struct {
	ID        int64     `json:"id" db:"id"`
	Temp      *float64  `json:"temp" db:"temp"`
	Hum       *float64  `json:"hum" db:"hum"`
	Lat       *float64  `json:"lat" db:"lat"`
	Lng       *float64  `json:"lng" db:"lng"`
	Sat       *int64    `json:"sat" db:"sat"`
	Btn       *int64    `json:"btn" db:"btn"`
	MachineID *string   `json:"machine_id" db:"machine_id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// FeedReading is a Reading joined with the operator bound to its machine.
// Username is nil when the machine has no binding.
type FeedReading struct {
	Reading
	Username *string `json:"username"`
}
