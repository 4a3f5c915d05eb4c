package validators

import (
	"context"
	"slices"
	"strings"

	"github.com/MKhiriev/go-task-sync/models"
)

// Field names accepted by the entity validators. Passing a subset to Validate
// restricts the checks to those fields.
const (
	FieldID         = "id"
	FieldModifiedAt = "modified_at"
	FieldStatus     = "status"
	FieldTitle      = "title"
	FieldName       = "name"
	FieldPriority   = "priority"
	FieldProgress   = "progress"
	FieldFrequency  = "frequency"
	FieldStreak     = "streak"
	FieldReferences = "references"
)

// MaxEntityIDLength bounds client-generated ids.
const MaxEntityIDLength = 128

// metaFields are checked by default. modifiedAt is not among them: the
// server stamps it on insert, and a zero value on update is simply older
// than the stored row.
var metaFields = []string{FieldID, FieldStatus}

// EntityValidator checks one entity type. The shared meta fields are
// handled here; check covers the fields of T and returns ErrUnknownField for
// anything else. Each type is registered together with its own validator.
type EntityValidator[T any, PT interface {
	*T
	models.Entity
}] struct {
	fields []string
	check  func(value *T, field string) error
}

// NewEntityValidator builds a validator for T. fields are the type's own
// fields checked when Validate is called without a subset.
func NewEntityValidator[T any, PT interface {
	*T
	models.Entity
}](fields []string, check func(value *T, field string) error) *EntityValidator[T, PT] {
	return &EntityValidator[T, PT]{fields: fields, check: check}
}

// Validate accepts T and *T.
func (v *EntityValidator[T, PT]) Validate(_ context.Context, obj any, fields ...string) error {
	var value T
	switch o := obj.(type) {
	case T:
		value = o
	case *T:
		if o == nil {
			return ErrUnsupportedType
		}
		value = *o
	default:
		return ErrUnsupportedType
	}

	if len(fields) == 0 {
		fields = slices.Concat(metaFields, v.fields)
	}

	meta := PT(&value).Meta()
	for _, f := range fields {
		if handled, err := validateMeta(*meta, f); handled {
			if err != nil {
				return err
			}
			continue
		}
		if err := v.check(&value, f); err != nil {
			return err
		}
	}

	return nil
}

func NewTaskValidator() Validator {
	return NewEntityValidator[models.Task]([]string{FieldTitle, FieldPriority, FieldReferences}, checkTask)
}

func NewProjectValidator() Validator {
	return NewEntityValidator[models.Project]([]string{FieldName}, checkProject)
}

func NewGoalValidator() Validator {
	return NewEntityValidator[models.Goal]([]string{FieldTitle, FieldProgress}, checkGoal)
}

func NewHabitValidator() Validator {
	return NewEntityValidator[models.Habit]([]string{FieldName, FieldFrequency, FieldStreak}, checkHabit)
}

func validID(id string) bool {
	return id != "" && len(id) <= MaxEntityIDLength && strings.TrimSpace(id) == id
}

func validateMeta(meta models.EntityMeta, field string) (bool, error) {
	switch field {
	case FieldID:
		if !validID(meta.ID) {
			return true, ErrInvalidEntityID
		}
	case FieldModifiedAt:
		if meta.ModifiedAt.IsZero() {
			return true, ErrMissingModifiedAt
		}
	case FieldStatus:
		if !meta.Status.Valid() {
			return true, ErrInvalidStatus
		}
	default:
		return false, nil
	}
	return true, nil
}

func checkTask(task *models.Task, field string) error {
	switch field {
	case FieldTitle:
		if strings.TrimSpace(task.Title) == "" {
			return ErrEmptyTitle
		}
	case FieldPriority:
		if task.Priority < 0 || task.Priority > 3 {
			return ErrInvalidPriority
		}
	case FieldReferences:
		if task.ProjectID != nil && !validID(*task.ProjectID) {
			return ErrInvalidReference
		}
		if task.GoalID != nil && !validID(*task.GoalID) {
			return ErrInvalidReference
		}
	default:
		return ErrUnknownField
	}
	return nil
}

func checkProject(project *models.Project, field string) error {
	if field != FieldName {
		return ErrUnknownField
	}
	if strings.TrimSpace(project.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func checkGoal(goal *models.Goal, field string) error {
	switch field {
	case FieldTitle:
		if strings.TrimSpace(goal.Title) == "" {
			return ErrEmptyTitle
		}
	case FieldProgress:
		if goal.Progress < 0 || goal.Progress > 100 {
			return ErrInvalidProgress
		}
	default:
		return ErrUnknownField
	}
	return nil
}

func checkHabit(habit *models.Habit, field string) error {
	switch field {
	case FieldName:
		if strings.TrimSpace(habit.Name) == "" {
			return ErrEmptyName
		}
	case FieldFrequency:
		switch habit.Frequency {
		case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly:
		default:
			return ErrInvalidFrequency
		}
	case FieldStreak:
		if habit.Streak < 0 {
			return ErrNegativeStreak
		}
	default:
		return ErrUnknownField
	}
	return nil
}
