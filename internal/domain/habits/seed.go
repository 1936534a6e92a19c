package habits

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// SeedProfile describes one synthetic habit: its definition, how
// consistently it gets done, which weekdays it happens on (empty means
// any day), and the count range for completed days.
type SeedProfile struct {
	Input       CreateHabitInput
	Consistency float64
	ActiveDays  []time.Weekday
	CountMin    int
	CountMax    int
}

// Generator produces plausible demo history. The random source is
// injectable so fixtures can assert exact output for a fixed seed.
type Generator struct {
	clock Clock
	rng   *rand.Rand
}

// NewGenerator builds a Generator. A nil rng is seeded from the clock.
func NewGenerator(clock Clock, rng *rand.Rand) *Generator {
	if clock == nil {
		clock = SystemClock()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(clock.Now().UnixNano()))
	}
	return &Generator{clock: clock, rng: rng}
}

// Generate builds one habit per profile with history walking back from
// today. The window is inclusive on both ends: `days` back through
// today, so days+1 calendar days of opportunity.
func (g *Generator) Generate(profiles []SeedProfile, days int) []Habit {
	now := g.clock.Now()
	habits := make([]Habit, 0, len(profiles))
	for _, profile := range profiles {
		input := profile.Input
		habit := Habit{
			ID:              uuid.New(),
			Name:            input.Name,
			Description:     input.Description,
			Icon:            input.Icon,
			Color:           input.Color,
			Target:          input.Target,
			CountType:       input.CountType,
			CountUnit:       input.CountUnit,
			Frequency:       input.Frequency,
			CustomDays:      input.CustomDays,
			Category:        input.Category,
			ReminderTime:    input.ReminderTime,
			ReminderEnabled: input.ReminderEnabled,
			History:         History{},
			CreatedAt:       now.AddDate(0, 0, -days),
			UpdatedAt:       now,
		}
		if habit.Color == "" {
			habit.Color = CategoryColors[habit.Category]
		}

		habit.History = g.generateHistory(&habit, profile, days)

		habit.Streak = CurrentStreak(habit.History, now)
		if habit.Streak == 0 {
			habit.Streak = CurrentStreak(habit.History, now.AddDate(0, 0, -1))
		}
		if habit.History.CompletedOn(now.Format(DateLayout)) {
			habit.Progress = habit.Target
		}
		habits = append(habits, habit)
	}
	return habits
}

// generateHistory walks backwards from today deciding each day's
// completion by the profile's consistency probability, constrained to the
// habit's active weekdays. Completed days get a count in the profile's
// range and a completion time between 08:00 and 19:59.
func (g *Generator) generateHistory(habit *Habit, profile SeedProfile, days int) History {
	today := Midnight(g.clock.Now())
	history := make(History, 0, days)
	for i := days; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		if !g.activeOn(habit, profile, day.Weekday()) {
			continue
		}
		if g.rng.Float64() >= profile.Consistency {
			continue
		}

		count := 1
		if habit.CountType == CountTypeCount {
			lo, hi := profile.CountMin, profile.CountMax
			if lo < 1 {
				lo = habit.Target
			}
			if hi < lo {
				hi = lo
			}
			count = lo + g.rng.Intn(hi-lo+1)
		}

		completedAt := day.Add(time.Duration(8+g.rng.Intn(12))*time.Hour +
			time.Duration(g.rng.Intn(60))*time.Minute)
		history = append(history, HistoryEntry{
			Date:             day.Format(DateLayout),
			Count:            count,
			Completed:        true,
			TimeOfCompletion: &completedAt,
		})
	}
	return history
}

func (g *Generator) activeOn(habit *Habit, profile SeedProfile, weekday time.Weekday) bool {
	if len(profile.ActiveDays) > 0 {
		for _, d := range profile.ActiveDays {
			if d == weekday {
				return true
			}
		}
		return false
	}
	return habit.DueOn(weekday)
}

// DefaultSeedProfiles returns the demo habit set.
func DefaultSeedProfiles() []SeedProfile {
	return []SeedProfile{
		{
			Input: CreateHabitInput{
				Name:        "Morning Run",
				Description: "Run for 30 minutes every morning to boost energy levels",
				Icon:        "🏃",
				Target:      1,
				CountType:   CountTypeCompletion,
				Frequency:   FrequencyDaily,
				Category:    CategoryHealth,
				ReminderTime: "07:00", ReminderEnabled: true,
			},
			Consistency: 0.7,
		},
		{
			Input: CreateHabitInput{
				Name:        "Drink Water",
				Description: "Drink 8 glasses of water daily for better hydration",
				Icon:        "💧",
				Target:      8,
				CountType:   CountTypeCount,
				CountUnit:   "glasses",
				Frequency:   FrequencyDaily,
				Category:    CategoryHealth,
				ReminderTime: "10:00",
			},
			Consistency: 0.85,
			CountMin:    6,
			CountMax:    8,
		},
		{
			Input: CreateHabitInput{
				Name:        "Read Books",
				Description: "Read for at least 30 minutes daily to expand knowledge",
				Icon:        "📚",
				Target:      1,
				CountType:   CountTypeCompletion,
				Frequency:   FrequencyDaily,
				Category:    CategoryLearning,
				ReminderTime: "21:00", ReminderEnabled: true,
			},
			Consistency: 0.65,
		},
		{
			Input: CreateHabitInput{
				Name:        "Meditate",
				Description: "Practice mindfulness for 10 minutes each day",
				Icon:        "🧘",
				Target:      1,
				CountType:   CountTypeCompletion,
				Frequency:   FrequencyDaily,
				Category:    CategoryMindfulness,
				ReminderTime: "07:30",
			},
			Consistency: 0.5,
		},
		{
			Input: CreateHabitInput{
				Name:        "Code Project",
				Description: "Work on personal coding projects to improve skills",
				Icon:        "💻",
				Target:      2,
				CountType:   CountTypeCount,
				CountUnit:   "hours",
				Frequency:   FrequencyWeekly,
				Category:    CategoryProductivity,
				ReminderTime: "18:00", ReminderEnabled: true,
			},
			Consistency: 0.8,
			ActiveDays:  []time.Weekday{time.Saturday, time.Sunday},
			CountMin:    1,
			CountMax:    3,
		},
		{
			Input: CreateHabitInput{
				Name:        "Budget Review",
				Description: "Review personal finances weekly",
				Icon:        "💰",
				Target:      1,
				CountType:   CountTypeCompletion,
				Frequency:   FrequencyWeekly,
				Category:    CategoryFinance,
				ReminderTime: "20:00", ReminderEnabled: true,
			},
			Consistency: 0.9,
			ActiveDays:  []time.Weekday{time.Sunday},
		},
		{
			Input: CreateHabitInput{
				Name:        "Call Family",
				Description: "Call parents or siblings weekly to stay connected",
				Icon:        "👥",
				Target:      1,
				CountType:   CountTypeCompletion,
				Frequency:   FrequencyWeekly,
				Category:    CategorySocial,
				ReminderTime: "19:00", ReminderEnabled: true,
			},
			Consistency: 0.95,
			ActiveDays:  []time.Weekday{time.Saturday, time.Sunday},
		},
		{
			Input: CreateHabitInput{
				Name:        "Guitar Practice",
				Description: "Practice guitar to improve musical skills",
				Icon:        "🎸",
				Target:      3,
				CountType:   CountTypeCount,
				CountUnit:   "sessions",
				Frequency:   FrequencyWeekly,
				Category:    CategoryCustom,
				ReminderTime: "17:00",
			},
			Consistency: 0.4,
			CountMin:    1,
			CountMax:    2,
		},
		{
			Input: CreateHabitInput{
				Name:        "Journaling",
				Description: "Write in journal to reflect on thoughts and experiences",
				Icon:        "📝",
				Target:      1,
				CountType:   CountTypeCompletion,
				Frequency:   FrequencyDaily,
				Category:    CategoryMindfulness,
				ReminderTime: "22:00", ReminderEnabled: true,
			},
			Consistency: 0.75,
		},
		{
			Input: CreateHabitInput{
				Name:        "Learn Language",
				Description: "Practice new language skills with daily exercises",
				Icon:        "🗣️",
				Target:      1,
				CountType:   CountTypeCompletion,
				Frequency:   FrequencyDaily,
				Category:    CategoryLearning,
				ReminderTime: "18:30",
			},
			Consistency: 0.55,
		},
	}
}
