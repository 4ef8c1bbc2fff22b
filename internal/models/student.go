package models

import "time"

// Student represents a learner account. Credentials are owned by the auth
// flow; enrollment only checks existence.
type Student struct {
	ID           int64     `db:"student_id" json:"student_id"`
	Name         string    `db:"student_name" json:"student_name"`
	College      string    `db:"college" json:"college"`
	BirthDate    time.Time `db:"birth_date" json:"birth_date"`
	PasswordHash string    `db:"password_hash" json:"-"`
}
