package habits

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExportPayload is the backup document: the full collection plus an
// opaque preferences blob the caller round-trips untouched.
type ExportPayload struct {
	Habits      []Habit         `json:"habits"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
}

// ExportData serializes the whole collection, history included, into a
// single JSON document. Preferences pass through verbatim.
func (s *service) ExportData(ctx context.Context, preferences json.RawMessage) ([]byte, error) {
	habits, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	payload := ExportPayload{
		Habits:      habits,
		Preferences: preferences,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}

// ImportData replaces the collection with the habits from a previously
// exported document. The document is validated as a whole before any
// write happens: a malformed payload leaves the store untouched.
func (s *service) ImportData(ctx context.Context, data []byte) (int, error) {
	var payload ExportPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if payload.Habits == nil {
		return 0, fmt.Errorf("%w: missing habits", ErrInvalidInput)
	}

	for i := range payload.Habits {
		habit := &payload.Habits[i]
		if habit.ID == uuid.Nil {
			habit.ID = uuid.New()
		}
		if habit.Name == "" {
			return 0, fmt.Errorf("%w: habit %d has no name", ErrInvalidInput, i)
		}
		if habit.Target < 1 {
			habit.Target = 1
		}
		if habit.CountType == "" {
			habit.CountType = CountTypeCompletion
		}
		if habit.Frequency == "" {
			habit.Frequency = FrequencyDaily
		}
		if habit.History == nil {
			habit.History = History{}
		}
	}

	if err := s.repo.ReplaceAll(ctx, payload.Habits); err != nil {
		return 0, err
	}
	s.logger.Info("imported habit collection", zap.Int("count", len(payload.Habits)))
	s.publishEvent(ctx, uuid.Nil, "data_imported", map[string]interface{}{
		"count": len(payload.Habits),
	})
	return len(payload.Habits), nil
}
