package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"sitesense/contexts/site-operations/attendance-service/domain/entities"
	domainerrors "sitesense/contexts/site-operations/attendance-service/domain/errors"
	"sitesense/contexts/site-operations/attendance-service/ports"
	"sitesense/internal/shared/events"
)

// Indexer is the worker-side consumer for attendance events. It
// deduplicates by event ID and maintains the searchable log store.
type Indexer struct {
	Logs   ports.LogIndex
	Logger *slog.Logger
}

// HandleEnvelope indexes one attendance envelope. Replayed event IDs
// are dropped without error so bus redelivery stays harmless.
func (ix Indexer) HandleEnvelope(ctx context.Context, envelope events.Envelope) error {
	if envelope.EventType != EventTypeAttendanceRecorded {
		return nil
	}
	payload, err := decodePayload(envelope.Payload)
	if err != nil {
		return fmt.Errorf("decode attendance payload %s: %w", envelope.EventID, err)
	}

	entry := entities.AttendanceEntry{
		EventID:    envelope.EventID,
		EmployeeID: payload.EmployeeID,
		WorksiteID: payload.WorksiteID,
		RecordedAt: payload.RecordedAt,
	}
	if err := ix.Logs.Index(ctx, entry); err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateEvent) {
			resolveLogger(ix.Logger).Debug("duplicate attendance event dropped",
				"event", "attendance_index_duplicate",
				"module", "site-operations/attendance-service",
				"layer", "application",
				"event_id", envelope.EventID,
			)
			return nil
		}
		return err
	}

	resolveLogger(ix.Logger).Info("attendance entry indexed",
		"event", "attendance_indexed",
		"module", "site-operations/attendance-service",
		"layer", "application",
		"event_id", envelope.EventID,
		"employee_id", entry.EmployeeID,
		"worksite_id", entry.WorksiteID,
	)
	return nil
}

func (ix Indexer) Search(ctx context.Context, query string) ([]entities.AttendanceEntry, error) {
	return ix.Logs.Search(ctx, query)
}

// decodePayload accepts both the in-process typed payload and the
// generic JSON shape an external broker would deliver.
func decodePayload(payload any) (AttendancePayload, error) {
	if typed, ok := payload.(AttendancePayload); ok {
		return typed, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return AttendancePayload{}, err
	}
	var decoded AttendancePayload
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return AttendancePayload{}, err
	}
	return decoded, nil
}
