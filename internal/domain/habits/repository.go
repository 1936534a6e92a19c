package habits

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ckrstars/habititt/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Repository is the persistence port for the habit collection. The
// engine only ever sees whole habits; how they are stored is the
// adapter's business.
type Repository interface {
	Create(ctx context.Context, habit *Habit) error
	FindByID(ctx context.Context, id uuid.UUID) (*Habit, error)
	FindAll(ctx context.Context) ([]Habit, error)
	Update(ctx context.Context, habit *Habit) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ReplaceAll swaps the entire collection in one step; used by import
	// and the demo seeder. No partial state is ever observable.
	ReplaceAll(ctx context.Context, habits []Habit) error
}

// habitRecord is the database row shape. History and custom days live in
// JSONB columns so a habit round-trips as a single row.
type habitRecord struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key"`
	Name            string         `gorm:"size:255;not null"`
	Description     string         `gorm:"type:text"`
	Icon            string         `gorm:"size:16"`
	Color           string         `gorm:"size:16"`
	Target          int            `gorm:"not null"`
	CountType       string         `gorm:"size:16;not null;default:'completion'"`
	CountUnit       string         `gorm:"size:64"`
	Frequency       string         `gorm:"size:16;not null;default:'daily'"`
	CustomDays      datatypes.JSON `gorm:"type:jsonb"`
	Category        string         `gorm:"size:32;index"`
	Progress        int            `gorm:"not null;default:0"`
	Streak          int            `gorm:"not null;default:0"`
	ReminderTime    string         `gorm:"size:8"`
	ReminderEnabled bool           `gorm:"not null;default:false"`
	History         datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt       time.Time      `gorm:"not null;default:current_timestamp"`
	UpdatedAt       time.Time      `gorm:"not null;default:current_timestamp"`
}

// TableName specifies the table name for the habit row
func (habitRecord) TableName() string {
	return "habits"
}

// Models lists the schemas the migrator must create.
func Models() []interface{} {
	return []interface{}{&habitRecord{}}
}

type repository struct {
	db *connection.Database
}

// NewRepository returns the Postgres-backed habit repository.
func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, habit *Habit) error {
	record, err := toRecord(habit)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Habit, error) {
	var record habitRecord
	result := r.db.WithContext(ctx).First(&record, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, result.Error
	}
	return toHabit(&record)
}

func (r *repository) FindAll(ctx context.Context) ([]Habit, error) {
	var records []habitRecord
	if err := r.db.WithContext(ctx).Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	habits := make([]Habit, 0, len(records))
	for i := range records {
		habit, err := toHabit(&records[i])
		if err != nil {
			return nil, err
		}
		habits = append(habits, *habit)
	}
	return habits, nil
}

func (r *repository) Update(ctx context.Context, habit *Habit) error {
	record, err := toRecord(habit)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Save(record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHabitNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&habitRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHabitNotFound
	}
	return nil
}

func (r *repository) ReplaceAll(ctx context.Context, habits []Habit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&habitRecord{}).Error; err != nil {
			return err
		}
		for i := range habits {
			record, err := toRecord(&habits[i])
			if err != nil {
				return err
			}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func toRecord(habit *Habit) (*habitRecord, error) {
	history, err := json.Marshal(habit.History)
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	customDays, err := json.Marshal(habit.CustomDays)
	if err != nil {
		return nil, fmt.Errorf("failed to encode custom days: %w", err)
	}
	return &habitRecord{
		ID:              habit.ID,
		Name:            habit.Name,
		Description:     habit.Description,
		Icon:            habit.Icon,
		Color:           habit.Color,
		Target:          habit.Target,
		CountType:       string(habit.CountType),
		CountUnit:       habit.CountUnit,
		Frequency:       string(habit.Frequency),
		CustomDays:      datatypes.JSON(customDays),
		Category:        string(habit.Category),
		Progress:        habit.Progress,
		Streak:          habit.Streak,
		ReminderTime:    habit.ReminderTime,
		ReminderEnabled: habit.ReminderEnabled,
		History:         datatypes.JSON(history),
		CreatedAt:       habit.CreatedAt,
		UpdatedAt:       habit.UpdatedAt,
	}, nil
}

func toHabit(record *habitRecord) (*Habit, error) {
	habit := &Habit{
		ID:              record.ID,
		Name:            record.Name,
		Description:     record.Description,
		Icon:            record.Icon,
		Color:           record.Color,
		Target:          record.Target,
		CountType:       CountType(record.CountType),
		CountUnit:       record.CountUnit,
		Frequency:       Frequency(record.Frequency),
		Category:        Category(record.Category),
		Progress:        record.Progress,
		Streak:          record.Streak,
		ReminderTime:    record.ReminderTime,
		ReminderEnabled: record.ReminderEnabled,
		History:         History{},
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
	if len(record.History) > 0 {
		if err := json.Unmarshal(record.History, &habit.History); err != nil {
			return nil, fmt.Errorf("failed to decode history: %w", err)
		}
	}
	if len(record.CustomDays) > 0 {
		if err := json.Unmarshal(record.CustomDays, &habit.CustomDays); err != nil {
			return nil, fmt.Errorf("failed to decode custom days: %w", err)
		}
	}
	return habit, nil
}
