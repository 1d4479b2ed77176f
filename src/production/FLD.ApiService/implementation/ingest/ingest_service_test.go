package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	config "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Config"
	errs "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Errors"
	logger "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Logger"
	fldmodels "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models"
	api_models "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models/api"
)

// memoryReadingRepo records readings in order and can be forced to fail.
type memoryReadingRepo struct {
	readings []fldmodels.Reading
	failWith error
}

func (r *memoryReadingRepo) CreateReading(ctx context.Context, reading fldmodels.Reading) (int64, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}
	r.readings = append(r.readings, reading)
	return int64(len(r.readings)), nil
}

func (r *memoryReadingRepo) MaxReadingID(ctx context.Context) (int64, error) {
	if len(r.readings) == 0 {
		return -1, nil
	}
	return int64(len(r.readings)), nil
}

func (r *memoryReadingRepo) GetRecentReadings(ctx context.Context, limit int) ([]fldmodels.FeedReading, error) {
	start := len(r.readings) - limit
	if start < 0 {
		start = 0
	}
	out := make([]fldmodels.FeedReading, 0, limit)
	for i, reading := range r.readings[start:] {
		reading.ID = int64(start + i + 1)
		out = append(out, fldmodels.FeedReading{Reading: reading})
	}
	return out, nil
}

func (r *memoryReadingRepo) CountReadings(ctx context.Context) (int64, error) {
	return int64(len(r.readings)), nil
}

func testLogger() *logger.Logger {
	return logger.NewLogger(&config.LoggingConfig{Level: "disabled", Format: "json", Output: "stderr"})
}

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }

func TestIngestPersistsReading(t *testing.T) {
	repo := &memoryReadingRepo{}
	svc := NewService(repo, testLogger())

	resp, err := svc.Ingest(context.Background(), api_models.SensorDataRequest{
		Temp:      float64Ptr(21.5),
		Hum:       float64Ptr(48.0),
		MachineID: "M1",
	})
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, api_models.CommandNone, resp.Command)

	require.Len(t, repo.readings, 1)
	stored := repo.readings[0]
	require.NotNil(t, stored.MachineID)
	assert.Equal(t, "M1", *stored.MachineID)
	assert.WithinDuration(t, time.Now().UTC(), stored.Timestamp, 5*time.Second)
}

func TestIngestButtonCommand(t *testing.T) {
	cases := []struct {
		name    string
		button  *int64
		command string
	}{
		{"pressed", int64Ptr(1), api_models.CommandBuzzerOn},
		{"released", int64Ptr(0), api_models.CommandNone},
		{"absent", nil, api_models.CommandNone},
		{"other value", int64Ptr(2), api_models.CommandNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(&memoryReadingRepo{}, testLogger())
			resp, err := svc.Ingest(context.Background(), api_models.SensorDataRequest{Button: tc.button})
			require.NoError(t, err)
			assert.Equal(t, tc.command, resp.Command)
		})
	}
}

func TestIngestExplicitTimestamp(t *testing.T) {
	repo := &memoryReadingRepo{}
	svc := NewService(repo, testLogger())

	_, err := svc.Ingest(context.Background(), api_models.SensorDataRequest{
		Timestamp: "2026-03-01T12:00:00Z",
	})
	require.NoError(t, err)
	require.Len(t, repo.readings, 1)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), repo.readings[0].Timestamp)
}

func TestIngestUnparsableTimestampFallsBack(t *testing.T) {
	repo := &memoryReadingRepo{}
	svc := NewService(repo, testLogger())

	_, err := svc.Ingest(context.Background(), api_models.SensorDataRequest{
		Timestamp: "yesterday at noon",
	})
	require.NoError(t, err)
	require.Len(t, repo.readings, 1)
	assert.WithinDuration(t, time.Now().UTC(), repo.readings[0].Timestamp, 5*time.Second)
}

func TestIngestPersistFailure(t *testing.T) {
	repo := &memoryReadingRepo{failWith: errors.New("disk full")}
	svc := NewService(repo, testLogger())

	_, err := svc.Ingest(context.Background(), api_models.SensorDataRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInternal)
}
