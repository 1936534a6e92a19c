package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/ckrstars/habititt/internal/api/dto"
	"github.com/ckrstars/habititt/internal/domain/habits"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultCalendarDays = 30

// StatsHandler serves the derived-statistics views plus backup and demo
// seeding
type StatsHandler struct {
	service habits.Service
	clock   habits.Clock
}

// NewStatsHandler creates a new StatsHandler instance
func NewStatsHandler(service habits.Service, clock habits.Clock) *StatsHandler {
	if clock == nil {
		clock = habits.SystemClock()
	}
	return &StatsHandler{service: service, clock: clock}
}

// Dashboard returns the aggregate stats backing the dashboard widgets
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.DashboardStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": DashboardStatsToResponse(stats)})
}

// Consistency returns per-habit consistency scores for a date range
func (h *StatsHandler) Consistency(c *gin.Context) {
	start, end, ok := h.bindRange(c)
	if !ok {
		return
	}

	results, err := h.service.ConsistencyReport(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ConsistencyToResponse(results)})
}

// Correlations returns pairwise habit correlations for a date range
func (h *StatsHandler) Correlations(c *gin.Context) {
	start, end, ok := h.bindRange(c)
	if !ok {
		return
	}

	results, err := h.service.Correlations(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": CorrelationsToResponse(results)})
}

// HabitStats returns one habit's streak and consistency numbers
func (h *StatsHandler) HabitStats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}
	start, end, ok := h.bindRange(c)
	if !ok {
		return
	}

	result, err := h.service.HabitStats(c.Request.Context(), id, start, end)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": HabitStatsToResponse(result)})
}

// HabitCalendar returns the trailing per-day completion series
func (h *StatsHandler) HabitCalendar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	var query dto.CalendarQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if query.Days == 0 {
		query.Days = defaultCalendarDays
	}

	series, err := h.service.HabitCalendar(c.Request.Context(), id, query.Days)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": CalendarToResponse(series)})
}

// HabitTrend returns the rolling completion average over a date range
func (h *StatsHandler) HabitTrend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	var query dto.TrendQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, end, ok := h.parseRange(c, query.Start, query.End)
	if !ok {
		return
	}
	if query.Window == 0 {
		query.Window = 7
	}

	values, err := h.service.HabitTrend(c.Request.Context(), id, start, end, query.Window)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.TrendResponse{
		HabitID: id,
		Window:  query.Window,
		Values:  values,
	}})
}

// Export streams the full collection as a JSON backup document
func (h *StatsHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	data, err := h.service.ExportData(c.Request.Context(), req.Preferences)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="habit-tracker-backup.json"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// Import replaces the collection with a previously exported backup
func (h *StatsHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imported, err := h.service.ImportData(c.Request.Context(), data)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ImportResponse{Imported: imported}})
}

// Seed replaces the collection with generated demo habits and history
func (h *StatsHandler) Seed(c *gin.Context) {
	var req dto.SeedRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Days == 0 {
		req.Days = 60
	}

	seeded, err := h.service.SeedDemoData(c.Request.Context(), req.Days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": HabitsToListResponse(seeded, habits.Today(h.clock))})
}

func (h *StatsHandler) bindRange(c *gin.Context) (time.Time, time.Time, bool) {
	var query dto.StatsRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return time.Time{}, time.Time{}, false
	}
	return h.parseRange(c, query.Start, query.End)
}

func (h *StatsHandler) parseRange(c *gin.Context, startStr, endStr string) (time.Time, time.Time, bool) {
	start, err := habits.ParseDate(startStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	end, err := habits.ParseDate(endStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
