package models

import (
	"time"

	"github.com/lib/pq"
)

// Weekday names accepted for a training schedule.
var TrainingDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ValidTrainingDay reports whether the given day is a recognised weekday name.
func ValidTrainingDay(day string) bool {
	for _, d := range TrainingDays {
		if d == day {
			return true
		}
	}
	return false
}

// Training represents a named course with a trainer, schedule and roster.
type Training struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	TrainerName string         `db:"trainer_name" json:"trainer_name"`
	Description string         `db:"description" json:"description"`
	StartDate   time.Time      `db:"start_date" json:"start_date"`
	Days        pq.StringArray `db:"days" json:"days"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// TrainingDetail extends a training with its current roster.
type TrainingDetail struct {
	Training
	Roster []RosterEntry `json:"roster"`
}

// TrainingFilter captures filtering criteria for listing trainings.
type TrainingFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
