package habits

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministicForFixedSeed(t *testing.T) {
	clock := FixedClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local))
	profiles := DefaultSeedProfiles()

	first := NewGenerator(clock, rand.New(rand.NewSource(42))).Generate(profiles, 30)
	second := NewGenerator(clock, rand.New(rand.NewSource(42))).Generate(profiles, 30)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].Streak, second[i].Streak)
		assert.Equal(t, first[i].History, second[i].History)
	}
}

func TestGenerateRespectsConstraints(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)
	clock := FixedClock(now)
	days := 60

	habits := NewGenerator(clock, rand.New(rand.NewSource(7))).Generate(DefaultSeedProfiles(), days)
	require.Len(t, habits, len(DefaultSeedProfiles()))

	earliest := Midnight(now).AddDate(0, 0, -days)
	for _, habit := range habits {
		seen := map[string]bool{}
		for _, entry := range habit.History {
			// one entry per date, all within the window
			assert.False(t, seen[entry.Date], "duplicate date %s in %s", entry.Date, habit.Name)
			seen[entry.Date] = true

			day, err := ParseDate(entry.Date)
			require.NoError(t, err)
			assert.False(t, day.Before(earliest))
			assert.False(t, day.After(Midnight(now)))

			assert.True(t, entry.Completed)
			require.NotNil(t, entry.TimeOfCompletion)
			hour := entry.TimeOfCompletion.Hour()
			assert.GreaterOrEqual(t, hour, 8)
			assert.Less(t, hour, 20)

			if habit.CountType == CountTypeCount {
				assert.GreaterOrEqual(t, entry.Count, 1)
			} else {
				assert.Equal(t, 1, entry.Count)
			}
		}

		// the cached streak agrees with a recompute anchored today-or-yesterday
		expected := CurrentStreak(habit.History, now)
		if expected == 0 {
			expected = CurrentStreak(habit.History, now.AddDate(0, 0, -1))
		}
		assert.Equal(t, expected, habit.Streak, habit.Name)
	}
}

func TestGenerateHonorsActiveDays(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)
	clock := FixedClock(now)

	profiles := []SeedProfile{{
		Input: CreateHabitInput{
			Name:      "Weekend only",
			Target:    1,
			CountType: CountTypeCompletion,
			Frequency: FrequencyWeekly,
			Category:  CategorySocial,
		},
		Consistency: 1.0,
		ActiveDays:  []time.Weekday{time.Saturday, time.Sunday},
	}}

	habits := NewGenerator(clock, rand.New(rand.NewSource(3))).Generate(profiles, 28)
	require.Len(t, habits, 1)
	require.NotEmpty(t, habits[0].History)

	for _, entry := range habits[0].History {
		day, err := ParseDate(entry.Date)
		require.NoError(t, err)
		weekday := day.Weekday()
		assert.True(t, weekday == time.Saturday || weekday == time.Sunday,
			"entry on %s falls on %s", entry.Date, weekday)
	}
}

func TestGenerateCustomFrequencyFollowsHabitDays(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)
	clock := FixedClock(now)

	profiles := []SeedProfile{{
		Input: CreateHabitInput{
			Name:       "MWF",
			Target:     1,
			CountType:  CountTypeCompletion,
			Frequency:  FrequencyCustom,
			CustomDays: []int{1, 3, 5},
			Category:   CategoryCustom,
		},
		Consistency: 1.0,
	}}

	habits := NewGenerator(clock, rand.New(rand.NewSource(3))).Generate(profiles, 28)
	require.NotEmpty(t, habits[0].History)

	for _, entry := range habits[0].History {
		day, _ := ParseDate(entry.Date)
		assert.Contains(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, day.Weekday())
	}
}
