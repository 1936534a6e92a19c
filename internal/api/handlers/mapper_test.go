package handlers

import (
	"testing"
	"time"

	"github.com/ckrstars/habititt/internal/domain/habits"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHabitToResponseResolvesTodayFromCaller(t *testing.T) {
	clock := habits.FixedClock(time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local))
	today := habits.Today(clock)

	habit := &habits.Habit{
		ID:     uuid.New(),
		Name:   "Run",
		Target: 1,
		History: habits.History{
			{Date: today, Count: 1, Completed: true},
		},
	}

	// CompletedToday follows the caller's clock date, not the wall clock
	resp := HabitToResponse(habit, today)
	require.NotNil(t, resp)
	assert.True(t, resp.CompletedToday)

	resp = HabitToResponse(habit, "2024-03-06")
	require.NotNil(t, resp)
	assert.False(t, resp.CompletedToday)

	assert.Nil(t, HabitToResponse(nil, today))
}

func TestHabitsToListResponseMapsEveryHabit(t *testing.T) {
	clock := habits.FixedClock(time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local))
	today := habits.Today(clock)

	list := []habits.Habit{
		{ID: uuid.New(), Name: "Run", History: habits.History{{Date: today, Count: 1, Completed: true}}},
		{ID: uuid.New(), Name: "Read", History: habits.History{}},
	}

	resp := HabitsToListResponse(list, today)
	require.Len(t, resp.Habits, 2)
	assert.Equal(t, 2, resp.TotalCount)
	assert.True(t, resp.Habits[0].CompletedToday)
	assert.False(t, resp.Habits[1].CompletedToday)
}
