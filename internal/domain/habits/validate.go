package habits

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrInvalidInput  = errors.New("invalid input")
)

var validate = validator.New()

// Validate checks the creation input and returns a descriptive error
// naming the first violated field.
func (in CreateHabitInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return describeFieldError(err)
	}
	if in.CountType == CountTypeCount && in.CountUnit == "" {
		return fmt.Errorf("%w: countUnit is required for count habits", ErrInvalidInput)
	}
	return nil
}

// Validate checks the fields an update actually sets.
func (in UpdateHabitInput) Validate() error {
	if in.Name != nil && *in.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	if in.Target != nil && *in.Target < 1 {
		return fmt.Errorf("%w: target must be at least 1", ErrInvalidInput)
	}
	if in.CountType != nil && *in.CountType != CountTypeCompletion && *in.CountType != CountTypeCount {
		return fmt.Errorf("%w: countType must be completion or count", ErrInvalidInput)
	}
	if in.Frequency != nil {
		switch *in.Frequency {
		case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		default:
			return fmt.Errorf("%w: frequency must be daily, weekly or custom", ErrInvalidInput)
		}
	}
	if in.CustomDays != nil {
		for _, d := range *in.CustomDays {
			if d < 0 || d > 6 {
				return fmt.Errorf("%w: customDays entries must be weekday indices 0-6", ErrInvalidInput)
			}
		}
	}
	return nil
}

func describeFieldError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fe := fieldErrs[0]
	switch fe.Field() {
	case "Name":
		return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	case "Target":
		return fmt.Errorf("%w: target must be at least 1", ErrInvalidInput)
	case "CountType":
		return fmt.Errorf("%w: countType must be completion or count", ErrInvalidInput)
	case "Frequency":
		return fmt.Errorf("%w: frequency must be daily, weekly or custom", ErrInvalidInput)
	case "CustomDays":
		return fmt.Errorf("%w: customDays entries must be weekday indices 0-6", ErrInvalidInput)
	default:
		return fmt.Errorf("%w: %s failed on %s", ErrInvalidInput, fe.Field(), fe.Tag())
	}
}
