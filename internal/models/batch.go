package models

import "time"

// BatchStatus is derived from the clock, never stored.
type BatchStatus string

const (
	BatchStatusUpcoming BatchStatus = "UPCOMING"
	BatchStatusActive   BatchStatus = "ACTIVE"
	BatchStatusClosed   BatchStatus = "CLOSED"
)

// ElectiveBatch is an enrollment round. An active enrollment's uniqueness is
// scoped by batch, so the same course may be re-picked in a later round after
// a drop.
type ElectiveBatch struct {
	ID          int64       `db:"batch_id" json:"batch_id"`
	Name        string      `db:"batch_name" json:"batch_name"`
	Round       string      `db:"round_name" json:"round_name"`
	StartTime   time.Time   `db:"start_time" json:"start_time"`
	EndTime     time.Time   `db:"end_time" json:"end_time"`
	Mode        string      `db:"selection_mode" json:"selection_mode"`
	Strategy    string      `db:"selection_strategy" json:"selection_strategy"`
	Description string      `db:"description" json:"description"`
	Status      BatchStatus `db:"-" json:"status"`
}

// StatusAt derives the batch status from the given instant.
func (b *ElectiveBatch) StatusAt(now time.Time) BatchStatus {
	switch {
	case now.Before(b.StartTime):
		return BatchStatusUpcoming
	case now.After(b.EndTime):
		return BatchStatusClosed
	default:
		return BatchStatusActive
	}
}
