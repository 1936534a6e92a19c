package habits

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// The progress engine mutates the current cycle of a single habit. Every
// operation resolves "today" once, at invocation, from the injected
// clock, and runs to completion before returning. Operations on an
// unknown id do nothing; a UI may race with deletion and that must not
// surface as a failure.

// Increment adds one unit toward the target of a count habit. Reaching
// the target closes the cycle exactly like Complete. Already at target
// it does nothing beyond the clamp.
func (s *service) Increment(ctx context.Context, id uuid.UUID) error {
	habit, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrHabitNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if habit.CountType != CountTypeCount {
		return nil
	}
	if habit.Progress >= habit.Target {
		return nil
	}

	habit.Progress++
	now := s.clock.Now()
	// a decrement may have reopened the bar on a day whose entry already
	// exists; refilling it must not close the cycle a second time
	completed := habit.Progress == habit.Target &&
		!habit.History.CompletedOn(Today(s.clock))
	if completed {
		s.closeCycle(habit, habit.Target)
	}
	habit.UpdatedAt = now
	if err := s.repo.Update(ctx, habit); err != nil {
		return err
	}
	if completed {
		s.publishEvent(ctx, habit.ID, "habit_completed", map[string]interface{}{
			"name":   habit.Name,
			"streak": habit.Streak,
		})
	}
	return nil
}

// Decrement removes one unit from a count habit's current cycle, floored
// at zero. It never touches history or the streak: a day whose entry was
// already written by a prior increment stays completed.
func (s *service) Decrement(ctx context.Context, id uuid.UUID) error {
	habit, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrHabitNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if habit.CountType != CountTypeCount {
		return nil
	}
	if habit.Progress == 0 {
		return nil
	}

	habit.Progress--
	habit.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, habit)
}

// Complete closes today's cycle for either habit type: it writes today's
// history entry, fills the progress bar and extends the streak. Calling
// it again on an already-completed day only tops up progress.
func (s *service) Complete(ctx context.Context, id uuid.UUID) error {
	habit, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrHabitNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	count := habit.Progress
	if count == 0 {
		count = habit.Target
	}
	wasCompleted := habit.History.CompletedOn(Today(s.clock))
	if wasCompleted {
		habit.Progress = habit.Target
	} else {
		s.closeCycle(habit, count)
	}
	habit.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, habit); err != nil {
		return err
	}
	if !wasCompleted {
		s.publishEvent(ctx, habit.ID, "habit_completed", map[string]interface{}{
			"name":   habit.Name,
			"streak": habit.Streak,
		})
	}
	return nil
}

// UndoComplete removes today's history entry outright, resets progress
// to zero and walks the streak back one, floored at zero. The removal is
// destructive: a partial count recorded before completion is not
// restored. A day that is not completed is left untouched.
func (s *service) UndoComplete(ctx context.Context, id uuid.UUID) error {
	habit, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrHabitNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	today := Today(s.clock)
	if !habit.History.CompletedOn(today) {
		return nil
	}

	habit.History, _ = habit.History.Remove(today)
	habit.Progress = 0
	if habit.Streak > 0 {
		habit.Streak--
	}
	habit.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, habit); err != nil {
		return err
	}
	s.publishEvent(ctx, habit.ID, "habit_uncompleted", map[string]interface{}{
		"name":   habit.Name,
		"streak": habit.Streak,
	})
	return nil
}

// IsCompletedToday reports whether a completed entry exists for today's
// date. Unknown ids read as not completed.
func (s *service) IsCompletedToday(ctx context.Context, id uuid.UUID) (bool, error) {
	habit, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrHabitNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return habit.History.CompletedOn(Today(s.clock)), nil
}

// closeCycle writes today's completed entry and advances the cached
// streak. Callers guarantee today is not already completed, which keeps
// the cached streak in agreement with CurrentStreak over the history.
func (s *service) closeCycle(habit *Habit, count int) {
	now := s.clock.Now()
	habit.History = habit.History.Upsert(HistoryEntry{
		Date:             now.Format(DateLayout),
		Count:            count,
		Completed:        true,
		TimeOfCompletion: &now,
	})
	habit.Progress = habit.Target
	habit.Streak++
}
