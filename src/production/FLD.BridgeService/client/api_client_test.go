package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	api_models "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models/api"
)

func float64Ptr(v float64) *float64 { return &v }

func TestUploadReadingSendsBearerToken(t *testing.T) {
	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))

		var req api_models.SensorDataRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Temp)
		assert.Equal(t, 21.5, *req.Temp)

		json.NewEncoder(w).Encode(api_models.IngestResponse{
			Status:  "success",
			Command: api_models.CommandNone,
		})
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL, "device-token-123")
	resp, err := c.UploadReading(context.Background(), api_models.SensorDataRequest{
		Temp:      float64Ptr(21.5),
		MachineID: "M1",
	})
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Bearer device-token-123", gotAuth.Load())
}

func TestUploadReadingRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(api_models.IngestResponse{Status: "success", Command: api_models.CommandNone})
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL, "device-token")
	c.retryDelay = time.Millisecond

	resp, err := c.UploadReading(context.Background(), api_models.SensorDataRequest{})
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, int64(2), calls.Load())
}

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL, "device-token")
	c.retryDelay = time.Millisecond
	c.circuitBreaker.maxFailures = 2

	_, err := c.UploadReading(context.Background(), api_models.SensorDataRequest{})
	require.Error(t, err)

	status := c.GetCircuitBreakerStatus()
	assert.Equal(t, "open", status["state"])

	// While open, requests are refused without touching the server.
	_, err = c.UploadReading(context.Background(), api_models.SensorDataRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health/live", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL, "device-token")
	assert.NoError(t, c.Health(context.Background()))
}
