package ingest

import (
	"context"
	"fmt"
	"time"

	errs "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Errors"
	logger "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Logger"
	fldmodels "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models"
	api_models "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models/api"
	interfaces "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Repository/Interfaces"
)

// Service validates an incoming reading, persists it, and derives the
// actuation command for the device. Each call is one fully synchronous
// validate-then-persist-then-respond unit of work.
type Service struct {
	readingRepo interfaces.ReadingRepository
	logger      *logger.Logger
}

// NewService creates a new ingestion service
func NewService(readingRepo interfaces.ReadingRepository, logger *logger.Logger) *Service {
	return &Service{
		readingRepo: readingRepo,
		logger:      logger.WithComponent("ingest"),
	}
}

// Ingest persists the reading and returns the derived command. The command
// is purely a function of the persisted fields: btn == 1 activates the
// buzzer, anything else is a no-op.
func (s *Service) Ingest(ctx context.Context, req api_models.SensorDataRequest) (*api_models.IngestResponse, error) {
	reading := fldmodels.Reading{
		Temp: req.Temp,
		Hum:  req.Hum,
		Lat:  req.Lat,
		Lng:  req.Lng,
		Sat:  req.Sat,
		Btn:  req.Button,
	}
	if req.MachineID != "" {
		reading.MachineID = &req.MachineID
	}

	reading.Timestamp = time.Now().UTC()
	if req.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			reading.Timestamp = ts
		}
	}

	id, err := s.readingRepo.CreateReading(ctx, reading)
	if err != nil {
		s.logger.ErrorWithError(err, "Failed to persist reading")
		return nil, fmt.Errorf("persist reading: %w", errs.ErrInternal)
	}

	command := api_models.CommandNone
	if req.Button != nil && *req.Button == 1 {
		command = api_models.CommandBuzzerOn
	}

	s.logger.Logger.Debug().
		Int64("id", id).
		Str("command", command).
		Msg("Reading persisted")

	return &api_models.IngestResponse{
		Status:  "success",
		Command: command,
	}, nil
}
