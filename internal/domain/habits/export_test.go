package habits

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)
	repo := NewMemoryRepository()
	svc := NewService(repo, nil, FixedClock(now), zap.NewNop())

	seeded := NewGenerator(FixedClock(now), rand.New(rand.NewSource(11))).
		Generate(DefaultSeedProfiles(), 14)
	require.NoError(t, repo.ReplaceAll(ctx, seeded))

	prefs := json.RawMessage(`{"theme":"dark","weekStart":1}`)
	data, err := svc.ExportData(ctx, prefs)
	require.NoError(t, err)

	// the preferences blob passes through verbatim
	var payload ExportPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.JSONEq(t, string(prefs), string(payload.Preferences))
	require.Len(t, payload.Habits, len(seeded))

	// importing into a fresh store reproduces the collection exactly
	freshRepo := NewMemoryRepository()
	freshSvc := NewService(freshRepo, nil, FixedClock(now), zap.NewNop())
	count, err := freshSvc.ImportData(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, len(seeded), count)

	restored, err := freshRepo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, restored, len(seeded))

	byID := make(map[uuid.UUID]Habit, len(restored))
	for _, h := range restored {
		byID[h.ID] = h
	}
	for _, original := range seeded {
		got, ok := byID[original.ID]
		require.True(t, ok, "habit %s missing after import", original.Name)
		assert.Equal(t, original.Name, got.Name)
		assert.Equal(t, original.Target, got.Target)
		assert.Equal(t, original.Streak, got.Streak)
		assert.Equal(t, original.Progress, got.Progress)
		require.Len(t, got.History, len(original.History))
		for i := range original.History {
			assert.Equal(t, original.History[i].Date, got.History[i].Date)
			assert.Equal(t, original.History[i].Count, got.History[i].Count)
			assert.Equal(t, original.History[i].Completed, got.History[i].Completed)
		}
	}
}

func TestImportRejectsMalformedPayload(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	svc := NewService(repo, nil, FixedClock(time.Now()), zap.NewNop())

	existing, err := svc.CreateHabit(ctx, CreateHabitInput{Name: "Keep me", Target: 1})
	require.NoError(t, err)

	tests := []struct {
		name string
		data string
	}{
		{name: "Not JSON", data: `{"habits": [`},
		{name: "Missing habits key", data: `{"preferences": {}}`},
		{name: "Habit without a name", data: `{"habits": [{"target": 2}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := svc.ImportData(ctx, []byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, count)

			// a rejected import leaves the store untouched
			habits, err := repo.FindAll(ctx)
			require.NoError(t, err)
			require.Len(t, habits, 1)
			assert.Equal(t, existing.ID, habits[0].ID)
		})
	}
}

func TestImportFillsDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	svc := NewService(repo, nil, FixedClock(time.Now()), zap.NewNop())

	data := `{"habits": [{"name": "Sparse"}]}`
	count, err := svc.ImportData(ctx, []byte(data))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	habits, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 1)

	habit := habits[0]
	assert.NotEqual(t, uuid.Nil, habit.ID)
	assert.Equal(t, 1, habit.Target)
	assert.Equal(t, CountTypeCompletion, habit.CountType)
	assert.Equal(t, FrequencyDaily, habit.Frequency)
	assert.NotNil(t, habit.History)
}

func TestImportReplacesExistingCollection(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	svc := NewService(repo, nil, FixedClock(time.Now()), zap.NewNop())

	_, err := svc.CreateHabit(ctx, CreateHabitInput{Name: "Old habit", Target: 1})
	require.NoError(t, err)

	data := `{"habits": [{"name": "New habit", "target": 2}]}`
	count, err := svc.ImportData(ctx, []byte(data))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	habits, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "New habit", habits[0].Name)
}
