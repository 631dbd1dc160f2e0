package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"support-monitor/internal/logger"
	"support-monitor/internal/model"
	"support-monitor/internal/repository"
)

const (
	defaultLoadHistory = 20
	maxLoadHistory     = 200
)

// EventSource supplies the raw support monitor feed.
type EventSource interface {
	FetchEvents(ctx context.Context) ([]model.RawEvent, error)
}

// LoadRecorder keeps the log of load cycles.
type LoadRecorder interface {
	Save(ctx context.Context, record *model.LoadRecord) error
	Recent(ctx context.Context, limit int) ([]model.LoadRecord, error)
}

// NopRecorder discards load records; used when no database is configured.
type NopRecorder struct{}

func (NopRecorder) Save(context.Context, *model.LoadRecord) error { return nil }

func (NopRecorder) Recent(context.Context, int) ([]model.LoadRecord, error) {
	return []model.LoadRecord{}, nil
}

type MonitorService struct {
	source   EventSource
	recorder LoadRecorder
	log      zerolog.Logger
	now      func() time.Time
}

func NewMonitorService(source EventSource, recorder LoadRecorder, log zerolog.Logger) *MonitorService {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &MonitorService{
		source:   source,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

// Now is the service clock; the presentation layer derives the current hour from it.
func (s *MonitorService) Now() time.Time {
	return s.now()
}

// Load runs one load cycle: a single fetch, then the pivot. It never returns
// a partial table; a fetch failure yields a Failed state carrying the error.
func (s *MonitorService) Load(ctx context.Context) model.LoadState {
	id := uuid.New()
	requestID := logger.RequestID(ctx)
	started := s.now()
	log := s.log.With().Str("load_id", id.String()).Str("request_id", requestID).Logger()

	events, err := s.source.FetchEvents(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("support monitor fetch failed")
		s.record(ctx, log, &model.LoadRecord{
			ID:         id,
			RequestID:  requestID,
			StartedAt:  started,
			DurationMS: s.now().Sub(started).Milliseconds(),
			Outcome:    model.PhaseFailed.String(),
			HTTPStatus: repository.StatusCode(err),
			Error:      err.Error(),
		})
		return model.Failed(id, started, err)
	}

	table := BuildPivot(events)
	if dropped := table.DroppedEvents(); dropped > 0 {
		log.Warn().Int("dropped_events", dropped).Msg("events without a valid record or hour were not placed")
	}

	log.Debug().
		Int("events", len(events)).
		Int("services", table.Len()).
		Msg("support monitor loaded")

	s.record(ctx, log, &model.LoadRecord{
		ID:            id,
		RequestID:     requestID,
		StartedAt:     started,
		DurationMS:    s.now().Sub(started).Milliseconds(),
		Outcome:       model.PhaseReady.String(),
		HTTPStatus:    http.StatusOK,
		EventCount:    len(events),
		ServiceCount:  table.Len(),
		DroppedEvents: table.DroppedEvents(),
	})

	return model.Ready(id, started, table)
}

// RecentLoads lists the latest load cycles, newest first.
func (s *MonitorService) RecentLoads(ctx context.Context, limit int) ([]model.LoadRecord, error) {
	return s.recorder.Recent(ctx, clampLimit(limit))
}

func (s *MonitorService) record(ctx context.Context, log zerolog.Logger, rec *model.LoadRecord) {
	if err := s.recorder.Save(ctx, rec); err != nil {
		log.Error().Err(err).Msg("failed to record load")
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLoadHistory
	}
	if limit > maxLoadHistory {
		return maxLoadHistory
	}
	return limit
}
