package models

import "time"

// StatusMark is one cell of the status matrix.
type StatusMark string

const (
	MarkPresent StatusMark = "P"
	MarkAbsent  StatusMark = "A"
	MarkRemoved StatusMark = "X"
	MarkNone    StatusMark = "-"
)

// StatusColumn is one date column of the matrix, optionally annotated with
// the topic recorded for that date.
type StatusColumn struct {
	Date  time.Time `json:"date"`
	Topic string    `json:"topic,omitempty"`
}

// Label renders the column header, suffixing the topic in parentheses.
func (c StatusColumn) Label() string {
	label := c.Date.Format("2006-01-02")
	if c.Topic != "" {
		label += " (" + c.Topic + ")"
	}
	return label
}

// StatusRow holds one participant's marks, aligned with the matrix columns.
type StatusRow struct {
	ParticipantID   string       `json:"participant_id"`
	ParticipantName string       `json:"participant_name"`
	Removed         bool         `json:"removed"`
	RemovedAt       *time.Time   `json:"removed_at,omitempty"`
	Marks           []StatusMark `json:"marks"`
}

// StatusMatrix is the participant × date table of P/A/X markers produced
// for reporting.
type StatusMatrix struct {
	TrainingID   string         `json:"training_id"`
	TrainingName string         `json:"training_name"`
	Columns      []StatusColumn `json:"columns"`
	Rows         []StatusRow    `json:"rows"`
}
