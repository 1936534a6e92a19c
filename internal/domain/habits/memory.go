package habits

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// memoryRepository keeps the collection in process memory. It backs the
// tests and the storage.driver=memory configuration, and behaves like the
// database adapter: callers get copies, not aliases into the store.
type memoryRepository struct {
	mu     sync.RWMutex
	habits map[uuid.UUID]*Habit
	order  []uuid.UUID
}

// NewMemoryRepository returns an empty in-memory habit repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{habits: make(map[uuid.UUID]*Habit)}
}

func (r *memoryRepository) Create(_ context.Context, habit *Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.habits[habit.ID] = cloneHabit(habit)
	r.order = append(r.order, habit.ID)
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id uuid.UUID) (*Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	habit, ok := r.habits[id]
	if !ok {
		return nil, ErrHabitNotFound
	}
	return cloneHabit(habit), nil
}

func (r *memoryRepository) FindAll(_ context.Context) ([]Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	habits := make([]Habit, 0, len(r.order))
	for _, id := range r.order {
		if habit, ok := r.habits[id]; ok {
			habits = append(habits, *cloneHabit(habit))
		}
	}
	return habits, nil
}

func (r *memoryRepository) Update(_ context.Context, habit *Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.habits[habit.ID]; !ok {
		return ErrHabitNotFound
	}
	r.habits[habit.ID] = cloneHabit(habit)
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.habits[id]; !ok {
		return ErrHabitNotFound
	}
	delete(r.habits, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryRepository) ReplaceAll(_ context.Context, habits []Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.habits = make(map[uuid.UUID]*Habit, len(habits))
	r.order = r.order[:0]
	for i := range habits {
		habit := cloneHabit(&habits[i])
		r.habits[habit.ID] = habit
		r.order = append(r.order, habit.ID)
	}
	return nil
}

func cloneHabit(habit *Habit) *Habit {
	clone := *habit
	clone.History = make(History, len(habit.History))
	copy(clone.History, habit.History)
	for i, e := range clone.History {
		if e.TimeOfCompletion != nil {
			t := *e.TimeOfCompletion
			clone.History[i].TimeOfCompletion = &t
		}
	}
	if habit.CustomDays != nil {
		clone.CustomDays = make([]int, len(habit.CustomDays))
		copy(clone.CustomDays, habit.CustomDays)
	}
	return &clone
}
