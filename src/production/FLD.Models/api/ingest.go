package api_models

// Actuation commands derived from a persisted reading.
const (
	CommandBuzzerOn = "BUZZER_ON"
	CommandNone     = "NONE"
)

// SensorDataRequest is the ingestion payload posted by a device. Pointer
// fields distinguish "absent" from zero.
type SensorDataRequest struct {
	Temp      *float64 `json:"temp"`
	Hum       *float64 `json:"hum"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Sat       *int64   `json:"sat"`
	Button    *int64   `json:"button"`
	MachineID string   `json:"machine_id"`
	Timestamp string   `json:"timestamp"`
}

// IngestResponse is returned to the device after each upload
type IngestResponse struct {
	Status  string `json:"status"`
	Command string `json:"command"`
	Message string `json:"message,omitempty"`
}

// AuthResponse is returned on successful login
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
