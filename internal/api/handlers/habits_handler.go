package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/ckrstars/habititt/internal/api/dto"
	"github.com/ckrstars/habititt/internal/domain/habits"
	"github.com/ckrstars/habititt/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.NewLogger()

// HabitsHandler handles HTTP requests for habit CRUD and the progress
// engine operations. It shares the engine's clock so responses resolve
// "today" the same way the engine does.
type HabitsHandler struct {
	service habits.Service
	clock   habits.Clock
}

// NewHabitsHandler creates a new HabitsHandler instance
func NewHabitsHandler(service habits.Service, clock habits.Clock) *HabitsHandler {
	if clock == nil {
		clock = habits.SystemClock()
	}
	return &HabitsHandler{service: service, clock: clock}
}

// CreateHabit creates a new habit from the request body
func (h *HabitsHandler) CreateHabit(c *gin.Context) {
	var req dto.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := habits.CreateHabitInput{
		Name:            req.Name,
		Description:     req.Description,
		Icon:            req.Icon,
		Color:           req.Color,
		Target:          req.Target,
		CountType:       habits.CountType(req.CountType),
		CountUnit:       req.CountUnit,
		Frequency:       habits.Frequency(req.Frequency),
		CustomDays:      req.CustomDays,
		Category:        habits.Category(req.Category),
		ReminderTime:    req.ReminderTime,
		ReminderEnabled: req.ReminderEnabled,
	}

	created, err := h.service.CreateHabit(c.Request.Context(), input)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": HabitToResponse(created, habits.Today(h.clock))})
}

// GetHabit returns a single habit by id
func (h *HabitsHandler) GetHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	habit, err := h.service.GetHabit(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": HabitToResponse(habit, habits.Today(h.clock))})
}

// ListHabits returns the full habit collection
func (h *HabitsHandler) ListHabits(c *gin.Context) {
	list, err := h.service.ListHabits(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": HabitsToListResponse(list, habits.Today(h.clock))})
}

// UpdateHabit applies a partial update to an existing habit
func (h *HabitsHandler) UpdateHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	var req dto.UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := habits.UpdateHabitInput{
		Name:            req.Name,
		Description:     req.Description,
		Icon:            req.Icon,
		Color:           req.Color,
		Target:          req.Target,
		CountType:       (*habits.CountType)(req.CountType),
		CountUnit:       req.CountUnit,
		Frequency:       (*habits.Frequency)(req.Frequency),
		CustomDays:      req.CustomDays,
		Category:        (*habits.Category)(req.Category),
		ReminderTime:    req.ReminderTime,
		ReminderEnabled: req.ReminderEnabled,
	}

	updated, err := h.service.UpdateHabit(c.Request.Context(), id, input)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": HabitToResponse(updated, habits.Today(h.clock))})
}

// DeleteHabit removes a habit and its history
func (h *HabitsHandler) DeleteHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	if err := h.service.DeleteHabit(c.Request.Context(), id); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// IncrementHabit adds one unit toward a count habit's target
func (h *HabitsHandler) IncrementHabit(c *gin.Context) {
	h.progressOp(c, h.service.Increment)
}

// DecrementHabit removes one unit from a count habit's current cycle
func (h *HabitsHandler) DecrementHabit(c *gin.Context) {
	h.progressOp(c, h.service.Decrement)
}

// CompleteHabit closes today's cycle for a habit
func (h *HabitsHandler) CompleteHabit(c *gin.Context) {
	h.progressOp(c, h.service.Complete)
}

// UndoCompleteHabit reverts today's completion
func (h *HabitsHandler) UndoCompleteHabit(c *gin.Context) {
	h.progressOp(c, h.service.UndoComplete)
}

// SetReminder toggles a habit's reminder and optionally reschedules it
func (h *HabitsHandler) SetReminder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	var req dto.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if req.Time != "" {
		if err := h.service.SetReminderTime(ctx, id, req.Time); err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
	}
	if req.Enabled != nil {
		if err := h.service.ToggleReminder(ctx, id, *req.Enabled); err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
	}

	habit, err := h.service.GetHabit(ctx, id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": HabitToResponse(habit, habits.Today(h.clock))})
}

// progressOp runs one progress-engine mutation and returns the updated
// habit. The engine treats unknown ids as no-ops, so a habit deleted
// between the mutation and the read maps to 404 here.
func (h *HabitsHandler) progressOp(c *gin.Context, op func(context.Context, uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	ctx := c.Request.Context()
	if err := op(ctx, id); err != nil {
		log.Error("progress operation failed",
			zap.String("habit_id", id.String()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.service.GetHabit(ctx, id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": HabitToResponse(habit, habits.Today(h.clock))})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, habits.ErrHabitNotFound):
		return http.StatusNotFound
	case errors.Is(err, habits.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
