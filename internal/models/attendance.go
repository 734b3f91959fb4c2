package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PresenceMap maps participant IDs to a present/absent flag. It is stored
// as a jsonb document so one attendance event stays a single record.
type PresenceMap map[string]bool

// Value implements driver.Valuer for jsonb storage.
func (m PresenceMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for jsonb storage.
func (m *PresenceMap) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = PresenceMap{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported presence map source %T", src)
	}
}

// AttendanceEvent is one dated record of who was present for a training.
// Re-marking the same date appends a new record; duplicates are merged at
// report time, never in storage.
type AttendanceEvent struct {
	ID         string      `db:"id" json:"id"`
	TrainingID string      `db:"training_id" json:"training_id"`
	Date       time.Time   `db:"date" json:"date"`
	Topic      string      `db:"topic" json:"topic"`
	Present    PresenceMap `db:"present" json:"present"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}

// AttendanceFilter scopes attendance queries for one training.
type AttendanceFilter struct {
	TrainingID string
	DateFrom   *time.Time
	DateTo     *time.Time
}
