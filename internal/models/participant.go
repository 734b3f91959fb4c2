package models

import "time"

// Participant represents an individual enrollable in one or more trainings.
type Participant struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ParticipantFilter captures filtering criteria for listing participants.
type ParticipantFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// EnrollmentStatus tracks a participant's standing within one training.
type EnrollmentStatus string

const (
	EnrollmentStatusActive  EnrollmentStatus = "active"
	EnrollmentStatusRemoved EnrollmentStatus = "removed"
)

// Enrollment links a participant to a training. Removal is a status flip,
// never a delete, so attendance history keeps joining.
type Enrollment struct {
	ID            string           `db:"id" json:"id"`
	TrainingID    string           `db:"training_id" json:"training_id"`
	ParticipantID string           `db:"participant_id" json:"participant_id"`
	Status        EnrollmentStatus `db:"status" json:"status"`
	RemovalReason *string          `db:"removal_reason" json:"removal_reason,omitempty"`
	RemovedAt     *time.Time       `db:"removed_at" json:"removed_at,omitempty"`
	JoinedAt      time.Time        `db:"joined_at" json:"joined_at"`
}

// RosterEntry joins an enrollment with participant identity for display.
type RosterEntry struct {
	Enrollment
	ParticipantName  string `db:"participant_name" json:"participant_name"`
	ParticipantEmail string `db:"participant_email" json:"participant_email"`
}
