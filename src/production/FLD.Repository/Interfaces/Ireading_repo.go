package interfaces

import (
	"context"

	fldmodels "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models"
)

type ReadingRepository interface {
	// CreateReading appends one reading and returns its generated id. The
	// write is transactional: on failure nothing is persisted.
	CreateReading(ctx context.Context, reading fldmodels.Reading) (int64, error)

	// MaxReadingID returns the highest persisted reading id, or -1 when the
	// table is empty. The id, not wall-clock time, is the ordering source of
	// truth for change detection.
	MaxReadingID(ctx context.Context) (int64, error)

	// GetRecentReadings returns the most recent limit readings joined with
	// machine bindings to attach the operator username, reordered ascending
	// by id.
	GetRecentReadings(ctx context.Context, limit int) ([]fldmodels.FeedReading, error)

	// CountReadings returns the number of persisted readings
	CountReadings(ctx context.Context) (int64, error)
}
