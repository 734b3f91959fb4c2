package models

import "time"

// RemovalRecord is a write-once audit entry capturing when and why a
// participant left a training.
type RemovalRecord struct {
	ID            string    `db:"id" json:"id"`
	TrainingID    string    `db:"training_id" json:"training_id"`
	ParticipantID string    `db:"participant_id" json:"participant_id"`
	Reason        string    `db:"reason" json:"reason"`
	RemovedAt     time.Time `db:"removed_at" json:"removed_at"`
}
