package model

import (
	"time"

	"github.com/google/uuid"
)

// Phase is the lifecycle position of one load cycle.
type Phase int

const (
	PhasePending Phase = iota
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoadState is the outcome of fetching and pivoting once. Table is set only
// when Ready, Err only when Failed.
type LoadState struct {
	Phase     Phase
	LoadID    uuid.UUID
	FetchedAt time.Time
	Table     *PivotTable
	Err       error
}

func Pending() LoadState {
	return LoadState{Phase: PhasePending}
}

func Ready(id uuid.UUID, at time.Time, table *PivotTable) LoadState {
	return LoadState{Phase: PhaseReady, LoadID: id, FetchedAt: at, Table: table}
}

func Failed(id uuid.UUID, at time.Time, err error) LoadState {
	return LoadState{Phase: PhaseFailed, LoadID: id, FetchedAt: at, Err: err}
}

// Message is the user visible failure description, empty unless Failed.
func (s LoadState) Message() string {
	if s.Phase != PhaseFailed || s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// LoadRecord is one row of the load log.
type LoadRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID     string    `gorm:"size:36" json:"request_id,omitempty"`
	StartedAt     time.Time `gorm:"not null;index" json:"started_at"`
	DurationMS    int64     `gorm:"not null" json:"duration_ms"`
	Outcome       string    `gorm:"size:16;not null" json:"outcome"`
	HTTPStatus    int       `json:"http_status,omitempty"`
	EventCount    int       `json:"event_count"`
	ServiceCount  int       `json:"service_count"`
	DroppedEvents int       `json:"dropped_events"`
	Error         string    `json:"error,omitempty"`
}

func (LoadRecord) TableName() string {
	return "monitor_loads"
}
