package model

import "time"

// Course is a training offering.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Cohort is a scheduled running of a Course.
type Cohort struct {
	ID         string    `db:"id" json:"id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	Name       string    `db:"name" json:"name"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDate    time.Time `db:"end_date" json:"end_date"`
	AccessLink string    `db:"access_link" json:"access_link"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`

	// Read-only projections filled by list queries.
	CourseName        string `db:"course_name" json:"course_name"`
	CourseDescription string `db:"course_description" json:"course_description"`
	StudentCount      int    `db:"student_count" json:"student_count"`
}

// HasStarted reports whether the cohort start date is on or before today.
func (c *Cohort) HasStarted(today time.Time) bool {
	return !DateOf(c.StartDate).After(DateOf(today))
}
