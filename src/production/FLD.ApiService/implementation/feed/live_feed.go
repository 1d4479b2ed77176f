package feed

import (
	"context"
	"time"

	logger "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Logger"
	fldmodels "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models"
	interfaces "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Repository/Interfaces"
)

// Sink receives batches of joined readings. Push returns an error when the
// viewer connection is gone, which terminates the loop.
type Sink interface {
	Push(batch []fldmodels.FeedReading) error
}

// Feed detects newly persisted readings by polling the highest row id and
// pushes the bounded recent window to each connected viewer. Polling a single
// monotonically increasing identifier tolerates multiple concurrent writers
// without extra coordination; a reading can be delayed by up to one poll
// interval but is never missed to clock skew.
type Feed struct {
	readingRepo interfaces.ReadingRepository
	interval    time.Duration
	window      int
	logger      *logger.Logger
}

// New creates a live feed with the given poll interval and window size
func New(readingRepo interfaces.ReadingRepository, interval time.Duration, window int, logger *logger.Logger) *Feed {
	return &Feed{
		readingRepo: readingRepo,
		interval:    interval,
		window:      window,
		logger:      logger.WithComponent("feed"),
	}
}

// Run owns one viewer connection. It holds no lock across the sleep and
// terminates only on context cancellation (transport disconnect) or a push
// failure. Per-tick storage errors are transient: logged, retried next tick.
func (f *Feed) Run(ctx context.Context, sink Sink) error {
	lastSeenID := int64(-1)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			maxID, err := f.readingRepo.MaxReadingID(ctx)
			if err != nil {
				f.logger.ErrorWithError(err, "Feed poll failed, retrying next tick")
				continue
			}
			if maxID <= lastSeenID {
				continue
			}

			batch, err := f.readingRepo.GetRecentReadings(ctx, f.window)
			if err != nil {
				f.logger.ErrorWithError(err, "Feed fetch failed, retrying next tick")
				continue
			}

			if err := sink.Push(batch); err != nil {
				f.logger.WithError(err).Debug("Viewer gone, stopping feed")
				return err
			}
			lastSeenID = maxID
		}
	}
}

// Snapshot is the one-shot fallback for clients that do not keep a live
// connection open: the same bounded recent window as a single response.
func (f *Feed) Snapshot(ctx context.Context) ([]fldmodels.FeedReading, error) {
	return f.readingRepo.GetRecentReadings(ctx, f.window)
}
