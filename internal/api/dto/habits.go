package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateHabitRequest represents the request to create a new habit
type CreateHabitRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Icon            string `json:"icon"`
	Color           string `json:"color"`
	Target          int    `json:"target" binding:"required,gte=1"`
	CountType       string `json:"countType" binding:"omitempty,oneof=completion count"`
	CountUnit       string `json:"countUnit"`
	Frequency       string `json:"frequency" binding:"omitempty,oneof=daily weekly custom"`
	CustomDays      []int  `json:"customDays" binding:"omitempty,dive,gte=0,lte=6"`
	Category        string `json:"category"`
	ReminderTime    string `json:"reminderTime"`
	ReminderEnabled bool   `json:"reminderEnabled"`
}

// UpdateHabitRequest represents the request to update an existing habit
type UpdateHabitRequest struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	Icon            *string `json:"icon,omitempty"`
	Color           *string `json:"color,omitempty"`
	Target          *int    `json:"target,omitempty" binding:"omitempty,gte=1"`
	CountType       *string `json:"countType,omitempty" binding:"omitempty,oneof=completion count"`
	CountUnit       *string `json:"countUnit,omitempty"`
	Frequency       *string `json:"frequency,omitempty" binding:"omitempty,oneof=daily weekly custom"`
	CustomDays      *[]int  `json:"customDays,omitempty" binding:"omitempty,dive,gte=0,lte=6"`
	Category        *string `json:"category,omitempty"`
	ReminderTime    *string `json:"reminderTime,omitempty"`
	ReminderEnabled *bool   `json:"reminderEnabled,omitempty"`
}

// ReminderRequest toggles or schedules a habit's reminder
type ReminderRequest struct {
	Enabled *bool  `json:"enabled,omitempty"`
	Time    string `json:"time,omitempty"`
}

// HistoryEntryResponse represents one day's record in API responses
type HistoryEntryResponse struct {
	Date             string     `json:"date"`
	Count            int        `json:"count"`
	Completed        bool       `json:"completed"`
	TimeOfCompletion *time.Time `json:"timeOfCompletion,omitempty"`
}

// HabitResponse represents a habit in API responses
type HabitResponse struct {
	ID              uuid.UUID              `json:"id"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description,omitempty"`
	Icon            string                 `json:"icon"`
	Color           string                 `json:"color"`
	Target          int                    `json:"target"`
	CountType       string                 `json:"countType"`
	CountUnit       string                 `json:"countUnit,omitempty"`
	Frequency       string                 `json:"frequency"`
	CustomDays      []int                  `json:"customDays,omitempty"`
	Category        string                 `json:"category"`
	Progress        int                    `json:"progress"`
	Streak          int                    `json:"streak"`
	CompletedToday  bool                   `json:"completedToday"`
	ReminderTime    string                 `json:"reminderTime,omitempty"`
	ReminderEnabled bool                   `json:"reminderEnabled"`
	History         []HistoryEntryResponse `json:"history"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// HabitListResponse represents the response for listing habits
type HabitListResponse struct {
	Habits     []*HabitResponse `json:"habits"`
	TotalCount int              `json:"totalCount"`
}
