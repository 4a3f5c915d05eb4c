package models

import "time"

// Task is a single actionable item, optionally attached to a project or a goal.
type Task struct {
	EntityMeta

	Title     string     `json:"title"`
	Notes     string     `json:"notes,omitempty"`
	ProjectID *string    `json:"projectId,omitempty"`
	GoalID    *string    `json:"goalId,omitempty"`
	DueAt     *time.Time `json:"dueAt,omitempty"`
	// Priority ranges from 0 (none) to 3 (high).
	Priority int `json:"priority"`
}

// Project groups tasks.
type Project struct {
	EntityMeta

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Goal is a long-running objective with a completion percentage.
type Goal struct {
	EntityMeta

	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	TargetDate  *time.Time `json:"targetDate,omitempty"`
	// Progress is a percentage in [0, 100].
	Progress int `json:"progress"`
}

// HabitFrequency is how often a habit is expected to be performed.
type HabitFrequency string

const (
	FrequencyDaily   HabitFrequency = "daily"
	FrequencyWeekly  HabitFrequency = "weekly"
	FrequencyMonthly HabitFrequency = "monthly"
)

// Habit is a recurring activity with a streak counter.
type Habit struct {
	EntityMeta

	Name      string         `json:"name"`
	Frequency HabitFrequency `json:"frequency"`
	Streak    int            `json:"streak"`
}
